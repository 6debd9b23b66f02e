package engine

import (
	"math"
	"math/bits"
)

// Direction is a swipe direction delivered by the host
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// Validation constants
	MinGridSize          = 2
	MaxGridSize          = 16
	DefaultWidth         = 4
	DefaultHeight        = 4
	DefaultInitialTiles  = 2
	DefaultQueueCapacity = 8
	MaxQueueCapacity     = 256
	MaxBulkSwipes        = 64
	MaxSpawnValue        = 30
	WebSocketBufferSize  = 256
)

// AllDirections lists the four swipe directions in a stable order
var AllDirections = []Direction{Up, Down, Left, Right}

// Position represents x,y coordinates. y = 0 is the bottom row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a single numbered block on the grid. Value is the exponent;
// the displayed number is 2^Value.
type Tile struct {
	Position
	Value int `json:"value"`

	// Merged is only true while a swipe is being resolved.
	Merged bool `json:"merged,omitempty"`
}

// Display returns the conventional displayed number for the tile
func (t Tile) Display() int {
	return DisplayValue(t.Value)
}

// DisplayValue returns 2^exp. Negative exponents give 0 and exponents too
// large for an int saturate at math.MaxInt.
func DisplayValue(exp int) int {
	switch {
	case exp < 0:
		return 0
	case exp > bits.UintSize-2:
		return math.MaxInt
	}
	return 1 << exp
}

// SpawnWeight is one entry of the starting-value distribution
type SpawnWeight struct {
	Value  int `json:"value" toml:"value"`
	Weight int `json:"weight" toml:"weight"`
}

// Messages holds the user-facing strings of a configuration
type Messages struct {
	Welcome  string `json:"welcome" toml:"welcome"`
	GameOver string `json:"game_over" toml:"game_over"`
	NoChange string `json:"no_change,omitempty" toml:"no_change"`
}

// GameConfig represents a game configuration loaded from JSON or TOML
type GameConfig struct {
	Name            string        `json:"name" toml:"name"`
	Description     string        `json:"description" toml:"description"`
	Width           int           `json:"width" toml:"width"`
	Height          int           `json:"height" toml:"height"`
	InitialTiles    int           `json:"initial_tiles" toml:"initial_tiles"`
	SpawnValues     []SpawnWeight `json:"spawn_values" toml:"spawn_values"`
	QueueCapacity   int           `json:"queue_capacity" toml:"queue_capacity"`
	CoalesceInput   bool          `json:"coalesce_input" toml:"coalesce_input"`
	ResetOnTerminal bool          `json:"reset_on_terminal" toml:"reset_on_terminal"`
	Seed            int64         `json:"seed,omitempty" toml:"seed"`
	Messages        Messages      `json:"messages" toml:"messages"`
}

// SwipeResult reports the outcome of resolving one swipe on a grid
type SwipeResult struct {
	Changed bool `json:"changed"`
	Moved   int  `json:"moved"`
	Merges  int  `json:"merges"`
}

// TickResult reports what a single tick (or a direct swipe) resolved
type TickResult struct {
	Direction Direction `json:"direction,omitempty"`
	Accepted  bool      `json:"accepted"`
	Changed   bool      `json:"changed"`
	Merges    int       `json:"merges"`
	Spawned   *Tile     `json:"spawned,omitempty"`
	Terminal  bool      `json:"terminal"`
	Dropped   int       `json:"dropped,omitempty"`
}

// Snapshot is a read-only copy of the grid for rendering. Tiles are
// ordered by row, then column.
type Snapshot struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Tiles      []Tile `json:"tiles"`
	TileCount  int    `json:"tile_count"`
	Terminal   bool   `json:"terminal"`
	Pending    int    `json:"pending"`
	MoveNumber int    `json:"move_number"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`
}

// GameState represents the complete mutable state owned by an engine
type GameState struct {
	Grid        GridState           `json:"grid"`
	Message     string              `json:"message"`
	ConfigName  string              `json:"config_name"`
	MoveHistory []SwipeHistoryEntry `json:"move_history"`
	TotalMoves  int                 `json:"total_moves"`

	// CurrentMoves tracks only the swipes since the last reset. MoveHistory
	// stays cumulative across resets.
	CurrentMoves      []SwipeHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                 `json:"current_moves_count"`
}

// SwipeHistoryEntry represents a single resolved swipe
type SwipeHistoryEntry struct {
	Direction  Direction `json:"direction"`
	Changed    bool      `json:"changed"`
	Merges     int       `json:"merges"`
	Spawned    *Tile     `json:"spawned,omitempty"`
	TileCount  int       `json:"tile_count"`
	Terminal   bool      `json:"terminal"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}
