package engine

import (
	"math/rand/v2"
)

// Spawner places new tiles on uniformly random free cells
type Spawner struct {
	rng    *rand.Rand
	values []SpawnWeight
	total  int
}

// NewSpawner creates a spawner drawing starting values from the weighted list.
// Entries with a non-positive weight are ignored; an empty list always yields 0.
func NewSpawner(rng *rand.Rand, values []SpawnWeight) *Spawner {
	s := &Spawner{rng: rng}
	for _, v := range values {
		if v.Weight <= 0 {
			continue
		}
		s.values = append(s.values, v)
		s.total += v.Weight
	}
	return s
}

// SpawnOne adds one tile to a free cell of g and returns it.
// Spawning into a full grid is a caller bug and returns ErrBoardFull.
func (s *Spawner) SpawnOne(g *GridState) (Tile, error) {
	free := g.FreeCells()
	if len(free) == 0 {
		return Tile{}, ErrBoardFull
	}

	t := Tile{
		Position: free[s.rng.IntN(len(free))],
		Value:    s.StartValue(),
	}
	g.Tiles = append(g.Tiles, t)
	return t, nil
}

// StartValue draws a starting exponent from the configured distribution
func (s *Spawner) StartValue() int {
	if s.total == 0 {
		return 0
	}
	r := s.rng.IntN(s.total)
	for _, v := range s.values {
		if r < v.Weight {
			return v.Value
		}
		r -= v.Weight
	}
	return s.values[len(s.values)-1].Value
}
