package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/merge2048/game/engine"
)

// fakeKeys reports a fixed set of keys as pressed for one frame
type fakeKeys map[ebiten.Key]bool

func (f fakeKeys) JustPressed(key ebiten.Key) bool {
	pressed := f[key]
	delete(f, key)
	return pressed
}

func newTestGame(t *testing.T, keys fakeKeys) *Game {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = 3
	e, err := engine.NewEngine(cfg)
	require.NoError(t, err)
	return NewGame(e, keys)
}

func TestUpdate_KeyIsResolvedSameFrame(t *testing.T) {
	keys := fakeKeys{ebiten.KeyA: true}
	g := newTestGame(t, keys)

	require.NoError(t, g.Update())

	snapshot := g.engine.Snapshot()
	assert.Equal(t, 1, snapshot.MoveNumber)
	assert.Equal(t, 0, snapshot.Pending)
	assert.Equal(t, engine.Left, g.engine.GetLastSwipe().Direction)
}

func TestUpdate_NoInputNoSwipe(t *testing.T) {
	g := newTestGame(t, fakeKeys{})

	require.NoError(t, g.Update())
	require.NoError(t, g.Update())

	assert.Equal(t, 0, g.engine.Snapshot().MoveNumber)
}

func TestUpdate_ArrowKeys(t *testing.T) {
	keys := fakeKeys{ebiten.KeyArrowRight: true}
	g := newTestGame(t, keys)

	require.NoError(t, g.Update())
	assert.Equal(t, engine.Right, g.engine.GetLastSwipe().Direction)
}

func TestUpdate_FullBoardRestarts(t *testing.T) {
	g := newTestGame(t, fakeKeys{})

	var tiles []engine.Tile
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			tiles = append(tiles, engine.Tile{Position: engine.Position{X: x, Y: y}, Value: (x+y)%2 + 4})
		}
	}
	require.NoError(t, g.engine.SetTiles(tiles))

	require.NoError(t, g.Update())

	assert.Equal(t, 1, g.resets)
	assert.Equal(t, 5, g.best)
	assert.Equal(t, 2, g.engine.Snapshot().TileCount)
}

func TestUpdate_ResetKey(t *testing.T) {
	keys := fakeKeys{ebiten.KeyR: true}
	g := newTestGame(t, keys)
	require.NoError(t, g.engine.SetTiles(nil))

	require.NoError(t, g.Update())

	assert.Equal(t, 1, g.resets)
	assert.Equal(t, 2, g.engine.Snapshot().TileCount)
}

func TestCellRect(t *testing.T) {
	t.Run("bottom row is drawn lowest", func(t *testing.T) {
		_, bottom, _ := cellRect(4, 4, 0, 0)
		_, top, _ := cellRect(4, 4, 0, 3)
		assert.Greater(t, bottom, top)
	})

	t.Run("tiles fit inside the window", func(t *testing.T) {
		for _, size := range [][2]int{{4, 4}, {6, 6}, {3, 5}, {8, 2}} {
			w, h := size[0], size[1]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					px, py, side := cellRect(w, h, x, y)
					assert.GreaterOrEqual(t, px, float32(0))
					assert.GreaterOrEqual(t, py, float32(headerHeight))
					assert.LessOrEqual(t, px+side, float32(screenWidth))
					assert.LessOrEqual(t, py+side, float32(screenHeight))
				}
			}
		}
	})

	t.Run("tiles cover most of their cell", func(t *testing.T) {
		x0, _, side := cellRect(4, 4, 0, 0)
		x1, _, _ := cellRect(4, 4, 1, 0)
		assert.InDelta(t, 0.8, float64(side/(x1-x0)), 0.001)
	})
}

func TestLayout(t *testing.T) {
	g := newTestGame(t, fakeKeys{})
	w, h := g.Layout(1024, 768)
	assert.Equal(t, 500, w)
	assert.Equal(t, 500, h)
}

func TestStatus(t *testing.T) {
	g := newTestGame(t, fakeKeys{})
	assert.Contains(t, g.status(g.engine.Snapshot()), "Tiles 2/16")
	assert.Contains(t, g.status(g.engine.Snapshot()), "Best -")
}
