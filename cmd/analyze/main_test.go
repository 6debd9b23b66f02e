package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/merge2048/game/engine"
)

func TestPlayGame(t *testing.T) {
	config := engine.DefaultConfig()

	stats, err := playGame(config, 1, 0, 10000)
	if err != nil {
		t.Fatalf("playGame failed: %v", err)
	}
	if !stats.Terminal {
		t.Error("Expected random play to fill the board")
	}
	if stats.Swipes == 0 {
		t.Error("Expected at least one swipe")
	}
	if stats.MaxValue < 1 {
		t.Errorf("Expected at least one merge, highest exponent %d", stats.MaxValue)
	}
	// Classic only ever spawns exponent 0
	for v := range stats.Spawned {
		if v != 0 {
			t.Errorf("Unexpected spawned value %d", v)
		}
	}
}

func TestPlayGame_Reproducible(t *testing.T) {
	config := engine.DefaultConfig()
	a, _ := playGame(config, 7, 3, 10000)
	b, _ := playGame(config, 7, 3, 10000)
	if a.Swipes != b.Swipes || a.MaxValue != b.MaxValue {
		t.Errorf("Expected identical games, got %+v and %+v", a, b)
	}
}

func TestPlayGame_MaxSwipes(t *testing.T) {
	stats, _ := playGame(engine.DefaultConfig(), 1, 0, 3)
	if stats.Swipes > 3 {
		t.Errorf("Expected at most 3 swipes, got %d", stats.Swipes)
	}
}

func TestAnalyzeConfig(t *testing.T) {
	config := engine.DefaultConfig()
	config.SpawnValues = []engine.SpawnWeight{{Value: 0, Weight: 1}, {Value: 1, Weight: 1}}

	report := analyzeConfig(config, 10, 10000, 1)

	if report.Games != 10 || report.Terminated != 10 {
		t.Errorf("Expected 10 finished games, got %+v", report)
	}
	if report.MinSwipes > report.MaxSwipes || report.AvgSwipes < float64(report.MinSwipes) {
		t.Errorf("Inconsistent swipe stats: %+v", report)
	}
	if len(report.SpawnCounts) != 2 {
		t.Errorf("Expected both starting values to appear, got %v", report.SpawnCounts)
	}
	if report.Degenerate {
		t.Error("Expected non-degenerate distribution")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	data, err := engine.EncodeGameConfig(engine.DefaultConfig(), engine.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("width = "), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(&out, dir, 3, 10000, 1); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{"=== Analyzing broken.toml ===", "Error loading config", "=== Analyzing classic.json ===", "Degenerate spawn distribution", "Spawned values: 1: 100.0%"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q\n%s", want, output)
		}
	}

	if err := run(&out, t.TempDir(), 1, 10, 1); err == nil {
		t.Error("Expected error for empty directory")
	}
}
