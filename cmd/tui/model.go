package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/merge2048/game/engine"
	"github.com/wricardo/merge2048/presentation/palette"
)

const cellWidth = 6

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e6e6e6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc33cc"))
	boardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(palette.Hex(palette.Empty))).
			Background(lipgloss.Color(palette.Hex(palette.Background)))
)

// frameMsg drives one engine tick
type frameMsg time.Time

// model is the bubbletea model for a single local game. Keys only queue
// directions; the engine resolves them on the next frame.
type model struct {
	engine   *engine.GameEngine
	interval time.Duration
	last     engine.TickResult
	resets   int
	best     int
}

func newModel(e *engine.GameEngine, interval time.Duration) model {
	return model{engine: e, interval: interval, best: -1}
}

func (m model) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m model) Init() tea.Cmd {
	return m.frame()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.engine.Reset()
			m.resets++
			log.Info().Int("resets", m.resets).Msg("board reset by player")
		default:
			dir, ok := engine.KeyDirection(key)
			if !ok {
				return m, nil
			}
			if err := m.engine.SubmitDirection(dir); err != nil {
				if errors.Is(err, engine.ErrQueueFull) {
					log.Debug().Str("direction", string(dir)).Msg("input dropped, queue full")
					return m, nil
				}
				log.Error().Err(err).Msg("submit failed")
			}
		}
		return m, nil

	case frameMsg:
		m = m.tick()
		return m, m.frame()
	}
	return m, nil
}

// tick resolves one pending direction and restarts a full board when the
// configuration asks for it
func (m model) tick() model {
	result := m.engine.Tick()
	if result.Accepted {
		m.last = result
		log.Debug().
			Str("direction", string(result.Direction)).
			Bool("changed", result.Changed).
			Int("merges", result.Merges).
			Int("tiles", m.engine.GetState().Grid.Count()).
			Msg("swipe")
	}
	if best := engine.MaxValue(m.engine.GetState().Grid.Tiles); best > m.best {
		m.best = best
	}

	if result.Terminal && m.engine.GetConfig().ResetOnTerminal {
		log.Info().Int("highest", m.best).Msg("board full, restarting")
		m.engine.Reset()
		m.resets++
	}
	return m
}

func (m model) View() string {
	snapshot := m.engine.Snapshot()
	grid := &engine.GridState{Width: snapshot.Width, Height: snapshot.Height, Tiles: snapshot.Tiles}

	var b strings.Builder
	b.WriteString(titleStyle.Render("2048"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s  %dx%d", snapshot.ConfigName, snapshot.Width, snapshot.Height)))
	b.WriteString("\n\n")
	b.WriteString(boardStyle.Render(renderBoard(grid)))
	b.WriteString("\n")

	best := "-"
	if m.best >= 0 {
		best = strconv.Itoa(engine.DisplayValue(m.best))
	}
	b.WriteString(fmt.Sprintf("Tiles %d/%d  Swipes %d  Best %s  Restarts %d\n",
		snapshot.TileCount, snapshot.Width*snapshot.Height, snapshot.MoveNumber, best, m.resets))
	if snapshot.Message != "" {
		b.WriteString(messageStyle.Render(snapshot.Message))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("WASD/arrows swipe  r reset  q quit"))
	return b.String()
}

// renderBoard draws the top row first; y=0 is the bottom of the board
func renderBoard(grid *engine.GridState) string {
	rows := make([]string, 0, grid.Height)
	for y := grid.Height - 1; y >= 0; y-- {
		cells := make([]string, 0, grid.Width)
		for x := 0; x < grid.Width; x++ {
			cells = append(cells, renderCell(grid, x, y))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(grid *engine.GridState, x, y int) string {
	style := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	tile, ok := grid.At(x, y)
	if !ok {
		return style.Background(lipgloss.Color(palette.Hex(palette.Empty))).Render("·")
	}
	return style.
		Bold(true).
		Background(lipgloss.Color(palette.Hex(palette.Tile(tile.Value)))).
		Foreground(lipgloss.Color(palette.Hex(palette.Text(tile.Value)))).
		Render(strconv.Itoa(tile.Display()))
}
