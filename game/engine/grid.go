package engine

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// GridState is the flat collection of live tiles on a fixed-size board
type GridState struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"tiles"`
}

// NewGridState creates an empty grid of the given size
func NewGridState(width, height int) *GridState {
	return &GridState{
		Width:  width,
		Height: height,
		Tiles:  []Tile{},
	}
}

// Capacity returns the number of cells on the board
func (g *GridState) Capacity() int {
	return g.Width * g.Height
}

// Count returns the number of live tiles
func (g *GridState) Count() int {
	return len(g.Tiles)
}

// IsTerminal reports whether the board is full. A full board is terminal
// even when merges would still be possible.
func (g *GridState) IsTerminal() bool {
	return len(g.Tiles) == g.Capacity()
}

// InBounds checks if the coordinates lie on the board
func (g *GridState) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the tile at (x, y), if any
func (g *GridState) At(x, y int) (Tile, bool) {
	for _, t := range g.Tiles {
		if t.X == x && t.Y == y {
			return t, true
		}
	}
	return Tile{}, false
}

// FreeCells returns every unoccupied position in row-major order
func (g *GridState) FreeCells() []Position {
	occupied := make(map[Position]bool, len(g.Tiles))
	for _, t := range g.Tiles {
		occupied[t.Position] = true
	}

	free := make([]Position, 0, g.Capacity()-len(occupied))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			if !occupied[p] {
				free = append(free, p)
			}
		}
	}
	return free
}

// Place adds a tile after checking bounds and occupancy
func (g *GridState) Place(t Tile) error {
	if !g.InBounds(t.X, t.Y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, t.X, t.Y, g.Width, g.Height)
	}
	if t.Value < 0 {
		return fmt.Errorf("tile value must be non-negative, got %d", t.Value)
	}
	if _, taken := g.At(t.X, t.Y); taken {
		return fmt.Errorf("%w: (%d,%d)", ErrCellOccupied, t.X, t.Y)
	}
	t.Merged = false
	g.Tiles = append(g.Tiles, t)
	return nil
}

// Clear removes every tile
func (g *GridState) Clear() {
	g.Tiles = g.Tiles[:0]
}

// Clone returns a deep copy of the grid
func (g *GridState) Clone() *GridState {
	return &GridState{
		Width:  g.Width,
		Height: g.Height,
		Tiles:  slices.Clone(g.Tiles),
	}
}

// Sorted returns a copy of the tiles ordered by row, then column
func (g *GridState) Sorted() []Tile {
	tiles := slices.Clone(g.Tiles)
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})
	return tiles
}

// ApplySwipe slides and merges every lane toward the wall of dir, then clears
// the merge flags. It never fails; an empty grid or unknown direction is a no-op.
func (g *GridState) ApplySwipe(dir Direction) SwipeResult {
	var result SwipeResult
	if len(g.Tiles) == 0 || !dir.Valid() {
		return result
	}

	// Lane key depends only on the swipe axis
	lanes := make(map[int][]int)
	for i, t := range g.Tiles {
		key := t.Y
		if dir.Vertical() {
			key = t.X
		}
		lanes[key] = append(lanes[key], i)
	}

	removed := make([]bool, len(g.Tiles))
	for _, key := range slices.Sorted(maps.Keys(lanes)) {
		g.resolveLane(dir, lanes[key], removed, &result)
	}

	survivors := g.Tiles[:0]
	for i, t := range g.Tiles {
		if removed[i] {
			continue
		}
		t.Merged = false
		survivors = append(survivors, t)
	}
	g.Tiles = survivors

	return result
}

// resolveLane compacts one row or column. lane holds indices into g.Tiles.
func (g *GridState) resolveLane(dir Direction, lane []int, removed []bool, result *SwipeResult) {
	vertical := dir.Vertical()
	along := func(i int) int {
		if vertical {
			return g.Tiles[i].Y
		}
		return g.Tiles[i].X
	}

	// Leading tile first: ascending toward Left/Down, descending toward Right/Up
	sort.Slice(lane, func(a, b int) bool { return along(lane[a]) < along(lane[b]) })
	if dir == Right || dir == Up {
		slices.Reverse(lane)
	}

	wall, step := g.wallOf(dir)

	prev := lane[0]
	g.moveTo(prev, wall, vertical, result)

	for _, cur := range lane[1:] {
		p, c := &g.Tiles[prev], &g.Tiles[cur]
		if !p.Merged && p.Value == c.Value {
			p.Value++
			p.Merged = true
			removed[cur] = true
			result.Merges++
			result.Changed = true
			continue
		}
		g.moveTo(cur, along(prev)+step, vertical, result)
		prev = cur
	}
}

// wallOf returns the wall coordinate for dir and the step that leads away from it
func (g *GridState) wallOf(dir Direction) (wall, step int) {
	switch dir {
	case Left:
		return 0, 1
	case Right:
		return g.Width - 1, -1
	case Down:
		return 0, 1
	default: // Up
		return g.Height - 1, -1
	}
}

func (g *GridState) moveTo(i, coord int, vertical bool, result *SwipeResult) {
	t := &g.Tiles[i]
	if vertical {
		if t.Y == coord {
			return
		}
		t.Y = coord
	} else {
		if t.X == coord {
			return
		}
		t.X = coord
	}
	result.Moved++
	result.Changed = true
}
