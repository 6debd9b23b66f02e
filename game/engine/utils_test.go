package engine

import (
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"W", Up, false},
		{"ArrowUp", Up, false},
		{" down ", Down, false},
		{"s", Down, false},
		{"a", Left, false},
		{"LEFT", Left, false},
		{"d", Right, false},
		{"right", Right, false},
		{"", "", true},
		{"north", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDirection)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyDirection(t *testing.T) {
	dir, ok := KeyDirection("d")
	assert.True(t, ok)
	assert.Equal(t, Right, dir)

	_, ok = KeyDirection("q")
	assert.False(t, ok)
}

func TestDirectionHelpers(t *testing.T) {
	assert.True(t, Up.Vertical())
	assert.False(t, Left.Vertical())
	assert.False(t, Direction("").Valid())
	assert.Equal(t, "right", Right.String())
}

func TestTileDisplay(t *testing.T) {
	assert.Equal(t, 1, tile(0, 0, 0).Display())
	assert.Equal(t, 2048, tile(0, 0, 11).Display())
	assert.Equal(t, 1<<30, tile(0, 0, MaxSpawnValue).Display())

	t.Run("out of range exponents", func(t *testing.T) {
		assert.Equal(t, 0, tile(0, 0, -1).Display())
		assert.Equal(t, math.MaxInt, tile(0, 0, 63).Display())
		assert.Equal(t, math.MaxInt, tile(0, 0, 64).Display())
		assert.Positive(t, tile(0, 0, bits.UintSize-2).Display())
	})
}

func TestValueHelpers(t *testing.T) {
	tiles := []Tile{tile(0, 0, 1), tile(1, 0, 3), tile(2, 0, 1)}
	assert.Equal(t, 3, MaxValue(tiles))
	assert.Equal(t, -1, MaxValue(nil))
	assert.Equal(t, map[int]int{1: 2, 3: 1}, CountValues(tiles))
}

func TestIsDegenerateSpawn(t *testing.T) {
	assert.True(t, IsDegenerateSpawn([]SpawnWeight{{Value: 0, Weight: 1}}))
	assert.True(t, IsDegenerateSpawn([]SpawnWeight{{Value: 0, Weight: 1}, {Value: 1, Weight: 0}}))
	assert.False(t, IsDegenerateSpawn([]SpawnWeight{{Value: 0, Weight: 9}, {Value: 1, Weight: 1}}))
}

func TestRenderRows(t *testing.T) {
	g := gridWith(t, 3, 2, tile(0, 0, 1), tile(2, 1, 3))
	assert.Equal(t, []string{". . 8", "2 . ."}, RenderRows(g))
}
