// Command desktop plays one local game in a 500x500 window.
//
// Every Update is a tick: keys pressed this frame are queued, then at most
// one queued direction is resolved.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/merge2048/game/config"
	"github.com/wricardo/merge2048/game/engine"
	"github.com/wricardo/merge2048/presentation/palette"
)

const (
	screenWidth  = 500
	screenHeight = 500
	headerHeight = 20
)

// keyBindings maps keys to the directions they queue
var keyBindings = []struct {
	key ebiten.Key
	dir engine.Direction
}{
	{ebiten.KeyW, engine.Up},
	{ebiten.KeyArrowUp, engine.Up},
	{ebiten.KeyA, engine.Left},
	{ebiten.KeyArrowLeft, engine.Left},
	{ebiten.KeyS, engine.Down},
	{ebiten.KeyArrowDown, engine.Down},
	{ebiten.KeyD, engine.Right},
	{ebiten.KeyArrowRight, engine.Right},
}

// KeySource reports keys pressed during the current frame
type KeySource interface {
	JustPressed(key ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// Game is the ebiten game for a single local board
type Game struct {
	engine *engine.GameEngine
	keys   KeySource
	resets int
	best   int
}

// NewGame wraps an engine; keys defaults to the real keyboard
func NewGame(e *engine.GameEngine, keys KeySource) *Game {
	if keys == nil {
		keys = ebitenKeys{}
	}
	return &Game{engine: e, keys: keys, best: -1}
}

func (g *Game) Update() error {
	for _, b := range keyBindings {
		if !g.keys.JustPressed(b.key) {
			continue
		}
		if err := g.engine.SubmitDirection(b.dir); err != nil {
			log.Debug().Err(err).Str("direction", string(b.dir)).Msg("input dropped")
		}
	}
	if g.keys.JustPressed(ebiten.KeyR) {
		g.engine.Reset()
		g.resets++
	}

	result := g.engine.Tick()
	if result.Accepted {
		log.Debug().
			Str("direction", string(result.Direction)).
			Bool("changed", result.Changed).
			Int("merges", result.Merges).
			Msg("swipe")
	}
	if best := engine.MaxValue(g.engine.GetState().Grid.Tiles); best > g.best {
		g.best = best
	}

	if result.Terminal && g.engine.GetConfig().ResetOnTerminal {
		log.Info().Int("highest", g.best).Msg("board full, restarting")
		g.engine.Reset()
		g.resets++
	}
	return nil
}

// cellRect returns the top-left corner and side of the tile drawn at (x, y).
// y=0 is the bottom row.
func cellRect(width, height, x, y int) (float32, float32, float32) {
	cols, rows := float32(width), float32(height)
	cell := float32(screenWidth) / cols
	if h := float32(screenHeight-headerHeight) / rows; h < cell {
		cell = h
	}
	boardW, boardH := cell*cols, cell*rows
	originX := (screenWidth - boardW) / 2
	originY := headerHeight + (screenHeight-headerHeight-boardH)/2

	side := cell * palette.TileScale
	inset := (cell - side) / 2
	px := originX + float32(x)*cell + inset
	py := originY + float32(height-1-y)*cell + inset
	return px, py, side
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(palette.Background)

	snapshot := g.engine.Snapshot()
	for y := 0; y < snapshot.Height; y++ {
		for x := 0; x < snapshot.Width; x++ {
			px, py, side := cellRect(snapshot.Width, snapshot.Height, x, y)
			vector.FillRect(screen, px, py, side, side, palette.Empty, false)
		}
	}

	for _, tile := range snapshot.Tiles {
		px, py, side := cellRect(snapshot.Width, snapshot.Height, tile.X, tile.Y)
		vector.FillRect(screen, px, py, side, side, palette.Tile(tile.Value), false)

		label := strconv.Itoa(tile.Display())
		// The debug font is 6x16 per glyph
		lx := int(px+side/2) - len(label)*3
		ly := int(py+side/2) - 8
		ebitenutil.DebugPrintAt(screen, label, lx, ly)
	}

	ebitenutil.DebugPrintAt(screen, g.status(snapshot), 4, 2)
}

func (g *Game) status(snapshot engine.Snapshot) string {
	best := "-"
	if g.best >= 0 {
		best = strconv.Itoa(engine.DisplayValue(g.best))
	}
	return fmt.Sprintf("Tiles %d/%d  Swipes %d  Best %s  Restarts %d  [WASD] swipe [R] reset",
		snapshot.TileCount, snapshot.Width*snapshot.Height, snapshot.MoveNumber, best, g.resets)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("host", "desktop").Logger()

	cmd := &cli.Command{
		Name:  "desktop",
		Usage: "play 2048 in a window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.StringFlag{Name: "config", Usage: "config name or path; empty uses the directory default"},
			&cli.Int64Flag{Name: "seed", Usage: "non-zero seed for a reproducible game"},
			&cli.BoolFlag{Name: "debug", Usage: "log every swipe"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if cmd.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

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

			ebiten.SetWindowSize(screenWidth, screenHeight)
			ebiten.SetWindowTitle("2048")
			log.Info().Str("config", cfg.Name).Msg("starting desktop game")
			return ebiten.RunGame(NewGame(e, nil))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("desktop exited")
	}
}
