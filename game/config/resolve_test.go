package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	large := createValidConfig()
	large.Name = "large"
	large.Width, large.Height = 6, 6
	writeConfigFile(t, dir, "large.toml", large)
	writeConfigFile(t, dir, "classic", createValidConfig())

	t.Run("by name", func(t *testing.T) {
		cfg, err := Resolve(dir, "large")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 6 {
			t.Errorf("Expected 6 wide board, got %d", cfg.Width)
		}
	})

	t.Run("by path", func(t *testing.T) {
		cfg, err := Resolve("/does/not/matter", filepath.Join(dir, "large.toml"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Name != "large" {
			t.Errorf("Expected large, got %s", cfg.Name)
		}
	})

	t.Run("directory default", func(t *testing.T) {
		cfg, err := Resolve(dir, "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Name != "Test Config" {
			t.Errorf("Expected classic.json to be the default, got %s", cfg.Name)
		}
	})

	t.Run("built-in default without a directory", func(t *testing.T) {
		cfg, err := Resolve(filepath.Join(dir, "missing"), "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 4 || cfg.Height != 4 {
			t.Errorf("Expected 4x4 default, got %dx%d", cfg.Width, cfg.Height)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := Resolve(dir, "nope")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})
}
