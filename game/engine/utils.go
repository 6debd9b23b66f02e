package engine

import (
	"fmt"
	"strings"
)

// Valid reports whether d is one of the four swipe directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Vertical reports whether d swipes along columns
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	return string(d)
}

// ParseDirection maps user input to a Direction. It accepts the direction
// names, the W/A/S/D keys and arrow key names, case-insensitively.
func ParseDirection(input string) (Direction, error) {
	if dir, ok := KeyDirection(strings.TrimSpace(input)); ok {
		return dir, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, input)
}

// KeyDirection maps a raw key name to a Direction (W→Up, A→Left, S→Down, D→Right)
func KeyDirection(key string) (Direction, bool) {
	switch strings.ToLower(key) {
	case "w", "up", "arrowup":
		return Up, true
	case "a", "left", "arrowleft":
		return Left, true
	case "s", "down", "arrowdown":
		return Down, true
	case "d", "right", "arrowright":
		return Right, true
	}
	return "", false
}

// MaxValue returns the highest exponent among tiles, or -1 when empty
func MaxValue(tiles []Tile) int {
	highest := -1
	for _, t := range tiles {
		if t.Value > highest {
			highest = t.Value
		}
	}
	return highest
}

// CountValues returns the multiset of tile values
func CountValues(tiles []Tile) map[int]int {
	counts := make(map[int]int)
	for _, t := range tiles {
		counts[t.Value]++
	}
	return counts
}

// IsDegenerateSpawn reports whether the starting-value distribution can only
// ever produce a single value. The reference game's "random % 1" behaves this way.
func IsDegenerateSpawn(values []SpawnWeight) bool {
	seen := make(map[int]bool)
	for _, v := range values {
		if v.Weight > 0 {
			seen[v.Value] = true
		}
	}
	return len(seen) <= 1
}

// RenderRows draws the grid as text rows, top row first, "." for empty cells
func RenderRows(g *GridState) []string {
	rows := make([]string, 0, g.Height)
	for y := g.Height - 1; y >= 0; y-- {
		cells := make([]string, 0, g.Width)
		for x := 0; x < g.Width; x++ {
			if t, ok := g.At(x, y); ok {
				cells = append(cells, fmt.Sprintf("%d", t.Display()))
			} else {
				cells = append(cells, ".")
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return rows
}
