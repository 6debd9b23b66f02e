package service

import (
	"time"

	"github.com/wricardo/merge2048/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Snapshot       engine.Snapshot    `json:"snapshot"`
	TotalMoves     int                `json:"total_moves"`
	PossibleSwipes []engine.Direction `json:"possible_swipes"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// SwipeOutcome contains the result of resolving one swipe
type SwipeOutcome struct {
	Direction engine.Direction `json:"direction"`
	Changed   bool             `json:"changed"`
	Merges    int              `json:"merges"`
	Spawned   *engine.Tile     `json:"spawned,omitempty"`
	Terminal  bool             `json:"terminal"`
	// Reset is set when a terminal board was cleared and re-seeded
	Reset    bool            `json:"reset"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Message  string          `json:"message"`
	Events   []GameEvent     `json:"events,omitempty"`
}

// BulkSwipeResult contains the result of multiple swipes
type BulkSwipeResult struct {
	// Summary
	SwipesExecuted  int         `json:"swipes_executed"`
	RequestedSwipes int         `json:"requested_swipes"`
	Success         bool        `json:"success"`
	Events          []GameEvent `json:"events"`
	StoppedReason   string      `json:"stopped_reason,omitempty"`
	StopReasonCode  string      `json:"stop_reason_code,omitempty"` // invalid_direction|game_over
	StoppedOnSwipe  int         `json:"stopped_on_swipe,omitempty"` // 1-based
	Truncated       bool        `json:"truncated,omitempty"`
	Limit           int         `json:"limit,omitempty"`

	StartTileCount int `json:"start_tile_count"`
	EndTileCount   int `json:"end_tile_count"`
	TotalMerges    int `json:"total_merges"`
	StartMaxValue  int `json:"start_max_value"`
	EndMaxValue    int `json:"end_max_value"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	Terminal       bool               `json:"terminal"`
	Message        string             `json:"message,omitempty"`
	PossibleSwipes []engine.Direction `json:"possible_swipes,omitempty"`
	Snapshot       engine.Snapshot    `json:"snapshot"`
}

// StepInfo is a compact record for each executed swipe in the bulk call
type StepInfo struct {
	Idx       int              `json:"idx"`
	Dir       engine.Direction `json:"dir"`
	Changed   bool             `json:"changed"`
	Merges    int              `json:"merges,omitempty"`
	Spawned   *engine.Tile     `json:"spawned,omitempty"`
	TileCount int              `json:"tile_count"`
	Terminal  bool             `json:"terminal,omitempty"`
	Reset     bool             `json:"reset,omitempty"`
}

// QueueResult reports an enqueued direction
type QueueResult struct {
	Direction engine.Direction `json:"direction"`
	Pending   int              `json:"pending"`
}

// TickReport describes what one tick resolved for a session. Sessions with
// nothing queued produce no report.
type TickReport struct {
	SessionID string            `json:"session_id"`
	Result    engine.TickResult `json:"result"`
	Reset     bool              `json:"reset"`
	Snapshot  engine.Snapshot   `json:"snapshot"`
}

// Event types
const (
	EventSwipe    = "swipe"
	EventMerge    = "merge"
	EventSpawn    = "spawn"
	EventNoChange = "no_change"
	EventGameOver = "game_over"
	EventReset    = "reset"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures swipe history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated swipe history
type HistoryResponse struct {
	Moves       []engine.SwipeHistoryEntry `json:"moves"`
	TotalMoves  int                        `json:"total_moves"`
	Page        int                        `json:"page"`
	PageSize    int                        `json:"page_size"`
	TotalPages  int                        `json:"total_pages"`
	HasNext     bool                       `json:"has_next"`
	HasPrevious bool                       `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string               `json:"filename"`
	ConfigID    string               `json:"config_id"` // The identifier to use for session creation
	Name        string               `json:"name"`      // Display name
	Description string               `json:"description"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	SpawnValues []engine.SpawnWeight `json:"spawn_values"`
	// Degenerate is true when every spawned tile gets the same value
	Degenerate bool `json:"degenerate"`
}
