// Command analyze plays random games on every configuration in the configs
// directory and prints quick, human-readable statistics: swipes until the
// board fills up, the highest tile reached and the observed distribution of
// spawned values. Runs are reproducible for a given seed.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/merge2048/game/engine"
)

// GameStats summarizes one random game
type GameStats struct {
	Swipes   int
	MaxValue int
	Terminal bool
	Spawned  map[int]int
}

// Report aggregates the games played on one configuration
type Report struct {
	Config      string
	File        string
	Games       int
	Terminated  int
	MinSwipes   int
	MaxSwipes   int
	AvgSwipes   float64
	BestValue   int
	SpawnCounts map[int]int
	Degenerate  bool
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "play random games on each config and report statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "directory holding game configs"},
			&cli.IntFlag{Name: "games", Value: 50, Usage: "games per config"},
			&cli.IntFlag{Name: "max-swipes", Value: 20000, Usage: "give up on a game after this many swipes"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "random seed"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("dir"), cmd.Int("games"), cmd.Int("max-swipes"), cmd.Int64("seed"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(w io.Writer, dir string, games, maxSwipes int, seed int64) error {
	var files []string
	for _, pattern := range []string{"*.json", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no config files in %s", dir)
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := engine.LoadGameConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error loading config: %v\n", err)
			continue
		}
		report := analyzeConfig(config, games, maxSwipes, seed)
		report.File = filepath.Base(file)
		printReport(w, report)
	}
	return nil
}

// analyzeConfig plays games random games on config
func analyzeConfig(config *engine.GameConfig, games, maxSwipes int, seed int64) Report {
	report := Report{
		Config:      config.Name,
		Games:       games,
		MinSwipes:   -1,
		BestValue:   -1,
		SpawnCounts: map[int]int{},
		Degenerate:  engine.IsDegenerateSpawn(config.SpawnValues),
	}

	total := 0
	for i := 0; i < games; i++ {
		stats, err := playGame(config, uint64(seed), uint64(i), maxSwipes)
		if err != nil {
			continue
		}

		total += stats.Swipes
		if stats.Terminal {
			report.Terminated++
		}
		if report.MinSwipes < 0 || stats.Swipes < report.MinSwipes {
			report.MinSwipes = stats.Swipes
		}
		if stats.Swipes > report.MaxSwipes {
			report.MaxSwipes = stats.Swipes
		}
		if stats.MaxValue > report.BestValue {
			report.BestValue = stats.MaxValue
		}
		for v, n := range stats.Spawned {
			report.SpawnCounts[v] += n
		}
	}

	if games > 0 {
		report.AvgSwipes = float64(total) / float64(games)
	}
	return report
}

// playGame swipes in random effective directions until the board is full
func playGame(config *engine.GameConfig, seed, game uint64, maxSwipes int) (GameStats, error) {
	eng, err := engine.NewEngine(config, engine.WithRand(rand.New(rand.NewPCG(seed, game))))
	if err != nil {
		return GameStats{}, err
	}
	player := rand.New(rand.NewPCG(seed^0xabcdef, game))

	stats := GameStats{Spawned: engine.CountValues(eng.Snapshot().Tiles)}
	for stats.Swipes < maxSwipes && !eng.IsTerminal() {
		options := eng.PossibleSwipes()
		if len(options) == 0 {
			break
		}
		result, _ := eng.Swipe(options[player.IntN(len(options))])
		stats.Swipes++
		if result.Spawned != nil {
			stats.Spawned[result.Spawned.Value]++
		}
	}

	stats.Terminal = eng.IsTerminal()
	stats.MaxValue = engine.MaxValue(eng.Snapshot().Tiles)
	return stats, nil
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Config: %s (%d games)\n", r.Config, r.Games)
	fmt.Fprintf(w, "Swipes until full: avg %.1f, min %d, max %d\n", r.AvgSwipes, r.MinSwipes, r.MaxSwipes)
	fmt.Fprintf(w, "Games ending on a full board: %d/%d\n", r.Terminated, r.Games)
	if r.BestValue >= 0 {
		fmt.Fprintf(w, "Highest tile: %d (exponent %d)\n", engine.DisplayValue(r.BestValue), r.BestValue)
	}

	values := make([]int, 0, len(r.SpawnCounts))
	spawned := 0
	for v, n := range r.SpawnCounts {
		values = append(values, v)
		spawned += n
	}
	sort.Ints(values)

	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%d: %.1f%%", engine.DisplayValue(v), 100*float64(r.SpawnCounts[v])/float64(spawned)))
	}
	fmt.Fprintf(w, "Spawned values: %s\n", strings.Join(parts, ", "))

	if r.Degenerate {
		fmt.Fprintln(w, "⚠️  Degenerate spawn distribution: every new tile has the same value")
	}
}
