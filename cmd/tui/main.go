// Command tui plays one local game in the terminal.
//
// Keys queue directions (W/A/S/D or arrows) and a frame timer resolves at
// most one per frame, so holding a key never runs ahead of the board.
// Logs go to a file because the terminal belongs to the game.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/merge2048/game/config"
	"github.com/wricardo/merge2048/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "tui",
		Usage: "play 2048 in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "config", Usage: "config name or path; empty uses the directory default"},
			&cli.Int64Flag{Name: "seed", Usage: "non-zero seed for a reproducible game"},
			&cli.IntFlag{Name: "fps", Value: 30, Usage: "frames per second"},
			&cli.StringFlag{Name: "log-file", Value: "merge2048-tui.log", Usage: "where logs are written"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logFile, err := os.OpenFile(cmd.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Str("host", "tui").Logger()

	cfg, err := config.Resolve(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if seed := cmd.Int64("seed"); seed != 0 {
		cfg.Seed = seed
	}

	e, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	fps := cmd.Int("fps")
	if fps <= 0 {
		fps = 30
	}
	log.Info().Str("config", cfg.Name).Int("fps", fps).Msg("starting terminal game")

	p := tea.NewProgram(newModel(e, time.Second/time.Duration(fps)), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
