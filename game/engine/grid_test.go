package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tile(x, y, v int) Tile {
	return Tile{Position: Position{X: x, Y: y}, Value: v}
}

func gridWith(t *testing.T, w, h int, tiles ...Tile) *GridState {
	t.Helper()
	g := NewGridState(w, h)
	for _, tl := range tiles {
		require.NoError(t, g.Place(tl))
	}
	return g
}

// checkerboard fills a 4x4 grid except (3,3) so that no two neighbours match
func checkerboard(t *testing.T) *GridState {
	t.Helper()
	g := NewGridState(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x == 3 && y == 3 {
				continue
			}
			require.NoError(t, g.Place(tile(x, y, (x+y)%2)))
		}
	}
	return g
}

func valueSum(tiles []Tile) int {
	sum := 0
	for _, t := range tiles {
		sum += t.Display()
	}
	return sum
}

func TestApplySwipe_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		start   []Tile
		dir     Direction
		want    []Tile
		changed bool
		merges  int
	}{
		{
			name:    "pair merges and follower slides next to it",
			start:   []Tile{tile(0, 0, 1), tile(1, 0, 1), tile(2, 0, 2)},
			dir:     Left,
			want:    []Tile{tile(0, 0, 2), tile(1, 0, 2)},
			changed: true,
			merges:  1,
		},
		{
			name:    "four equal tiles merge pairwise",
			start:   []Tile{tile(0, 0, 0), tile(1, 0, 0), tile(2, 0, 0), tile(3, 0, 0)},
			dir:     Left,
			want:    []Tile{tile(0, 0, 1), tile(1, 0, 1)},
			changed: true,
			merges:  2,
		},
		{
			name:    "three equal tiles merge the two nearest the wall",
			start:   []Tile{tile(0, 0, 2), tile(1, 0, 2), tile(2, 0, 2)},
			dir:     Right,
			want:    []Tile{tile(2, 0, 2), tile(3, 0, 3)},
			changed: true,
			merges:  1,
		},
		{
			name:    "single tile snaps to top wall",
			start:   []Tile{tile(1, 0, 4)},
			dir:     Up,
			want:    []Tile{tile(1, 3, 4)},
			changed: true,
		},
		{
			name:    "single tile snaps to bottom wall",
			start:   []Tile{tile(2, 3, 1)},
			dir:     Down,
			want:    []Tile{tile(2, 0, 1)},
			changed: true,
		},
		{
			name:    "gap closes toward right wall",
			start:   []Tile{tile(0, 2, 1), tile(2, 2, 3)},
			dir:     Right,
			want:    []Tile{tile(2, 2, 1), tile(3, 2, 3)},
			changed: true,
		},
		{
			name:  "already compacted lane is a no-op",
			start: []Tile{tile(0, 1, 1), tile(1, 1, 2), tile(2, 1, 1)},
			dir:   Left,
			want:  []Tile{tile(0, 1, 1), tile(1, 1, 2), tile(2, 1, 1)},
		},
		{
			name:    "lanes resolve independently",
			start:   []Tile{tile(0, 0, 1), tile(0, 1, 1), tile(3, 0, 1)},
			dir:     Left,
			want:    []Tile{tile(0, 0, 2), tile(0, 1, 1)},
			changed: true,
			merges:  1,
		},
		{
			name:    "merge partner is the neighbour after compaction",
			start:   []Tile{tile(0, 0, 5), tile(0, 3, 5)},
			dir:     Down,
			want:    []Tile{tile(0, 0, 6)},
			changed: true,
			merges:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridWith(t, 4, 4, tt.start...)

			result := g.ApplySwipe(tt.dir)

			assert.Equal(t, tt.changed, result.Changed)
			assert.Equal(t, tt.merges, result.Merges)
			assert.ElementsMatch(t, tt.want, g.Tiles)
		})
	}
}

func TestApplySwipe_EmptyGrid(t *testing.T) {
	for _, dir := range AllDirections {
		g := NewGridState(4, 4)
		result := g.ApplySwipe(dir)
		assert.False(t, result.Changed, dir)
		assert.Empty(t, g.Tiles)
	}
}

func TestApplySwipe_InvalidDirectionIsNoop(t *testing.T) {
	g := gridWith(t, 4, 4, tile(2, 2, 1))
	result := g.ApplySwipe(Direction("sideways"))
	assert.False(t, result.Changed)
	assert.Equal(t, []Tile{tile(2, 2, 1)}, g.Tiles)
}

func TestApplySwipe_FifteenTilesNoop(t *testing.T) {
	g := checkerboard(t)
	before := g.Sorted()

	result := g.ApplySwipe(Left)

	assert.False(t, result.Changed)
	assert.Equal(t, before, g.Sorted())
	assert.Equal(t, 15, g.Count())
	assert.False(t, g.IsTerminal())
}

func TestApplySwipe_NonSquareWalls(t *testing.T) {
	g := gridWith(t, 5, 3, tile(0, 0, 1), tile(0, 1, 2))

	g.ApplySwipe(Right)
	assert.ElementsMatch(t, []Tile{tile(4, 0, 1), tile(4, 1, 2)}, g.Tiles)

	g.ApplySwipe(Up)
	assert.ElementsMatch(t, []Tile{tile(4, 2, 2), tile(4, 1, 1)}, g.Tiles)
}

func TestApplySwipe_ClearsMergeFlags(t *testing.T) {
	g := gridWith(t, 4, 4, tile(0, 0, 1), tile(1, 0, 1))
	g.ApplySwipe(Left)
	for _, tl := range g.Tiles {
		assert.False(t, tl.Merged)
	}
}

func TestApplySwipe_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		g := NewGridState(4, 4)
		n := rng.IntN(17)
		for _, p := range rng.Perm(16)[:n] {
			require.NoError(t, g.Place(tile(p%4, p/4, rng.IntN(4))))
		}
		dir := AllDirections[rng.IntN(len(AllDirections))]
		before := g.Clone()

		result := g.ApplySwipe(dir)

		// Merging 2^v with 2^v yields 2^(v+1)
		assert.Equal(t, valueSum(before.Tiles), valueSum(g.Tiles))
		assert.Equal(t, before.Count()-result.Merges, g.Count())

		seen := map[Position]bool{}
		for _, tl := range g.Tiles {
			assert.False(t, seen[tl.Position], "two tiles at %v", tl.Position)
			seen[tl.Position] = true
			assert.True(t, g.InBounds(tl.X, tl.Y))
		}

		if !result.Changed {
			assert.Equal(t, before.Sorted(), g.Sorted())
		}

		// Every lane is packed against the wall
		lanes := map[int]int{}
		for _, tl := range g.Tiles {
			if dir.Vertical() {
				lanes[tl.X]++
			} else {
				lanes[tl.Y]++
			}
		}
		for _, tl := range g.Tiles {
			var dist int
			switch dir {
			case Left:
				dist = tl.X
			case Right:
				dist = 3 - tl.X
			case Down:
				dist = tl.Y
			case Up:
				dist = 3 - tl.Y
			}
			key := tl.Y
			if dir.Vertical() {
				key = tl.X
			}
			assert.Less(t, dist, lanes[key])
		}
	}
}

func TestGridState_Place(t *testing.T) {
	g := NewGridState(4, 4)

	require.NoError(t, g.Place(tile(1, 1, 0)))
	assert.ErrorIs(t, g.Place(tile(1, 1, 2)), ErrCellOccupied)
	assert.ErrorIs(t, g.Place(tile(4, 0, 0)), ErrOutOfBounds)
	assert.ErrorIs(t, g.Place(tile(0, -1, 0)), ErrOutOfBounds)
	assert.Error(t, g.Place(tile(0, 0, -1)))
	assert.Equal(t, 1, g.Count())
}

func TestGridState_FreeCellsAndTerminal(t *testing.T) {
	g := checkerboard(t)
	assert.Equal(t, []Position{{X: 3, Y: 3}}, g.FreeCells())
	assert.False(t, g.IsTerminal())

	require.NoError(t, g.Place(tile(3, 3, 0)))
	assert.Empty(t, g.FreeCells())
	assert.True(t, g.IsTerminal())
}

func TestGridState_TerminalEvenWithMergesAvailable(t *testing.T) {
	g := NewGridState(2, 2)
	for _, p := range []Position{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		require.NoError(t, g.Place(Tile{Position: p, Value: 0}))
	}
	assert.True(t, g.IsTerminal())
}

func TestGridState_SortedAndClone(t *testing.T) {
	g := gridWith(t, 4, 4, tile(3, 1, 0), tile(0, 0, 1), tile(1, 1, 2), tile(2, 0, 3))

	assert.Equal(t, []Tile{tile(0, 0, 1), tile(2, 0, 3), tile(1, 1, 2), tile(3, 1, 0)}, g.Sorted())

	c := g.Clone()
	c.Tiles[0].Value = 9
	assert.NotEqual(t, 9, g.Tiles[0].Value)
}
