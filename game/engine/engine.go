package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() Snapshot
	Reset() *GameState
	IsTerminal() bool

	// Command queue
	SubmitDirection(dir Direction) error
	TakePendingDirection() (Direction, bool)
	PendingCount() int
	Tick() TickResult

	// Direct resolution
	Swipe(dir Direction) (TickResult, error)
	CanSwipe(dir Direction) bool
	PossibleSwipes() []Direction

	// Configuration
	GetConfig() *GameConfig

	// History
	GetHistory() []SwipeHistoryEntry
	GetLastSwipe() *SwipeHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers sharing an engine must serialize access.
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	spawner *Spawner
	queue   *CommandQueue
	rng     *rand.Rand
	now     func() time.Time
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithRand injects the random source used for spawning
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		e.rng = rng
	}
}

// WithClock overrides the clock used for history timestamps
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

// NewEngine creates a new game engine with the provided configuration.
// The grid is seeded with the configured number of initial tiles.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRand(config.Seed)
	}

	e.spawner = NewSpawner(e.rng, config.SpawnValues)
	e.queue = NewCommandQueue(config.QueueCapacity)
	e.state = newGameState(config)
	if err := e.seed(); err != nil {
		return nil, err
	}

	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the default configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		// DefaultConfig is always valid
		panic(err)
	}
	return e
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

func newGameState(config *GameConfig) *GameState {
	return &GameState{
		Grid:         *NewGridState(config.Width, config.Height),
		Message:      config.Messages.Welcome,
		ConfigName:   config.Name,
		MoveHistory:  []SwipeHistoryEntry{},
		CurrentMoves: []SwipeHistoryEntry{},
	}
}

// seed spawns the initial tiles of a fresh game
func (e *GameEngine) seed() error {
	for i := 0; i < e.config.InitialTiles; i++ {
		if _, err := e.spawner.SpawnOne(&e.state.Grid); err != nil {
			return fmt.Errorf("seeding initial tiles: %w", err)
		}
	}
	return nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a read-only copy of the grid ordered by row, then column
func (e *GameEngine) Snapshot() Snapshot {
	return Snapshot{
		Width:      e.state.Grid.Width,
		Height:     e.state.Grid.Height,
		Tiles:      e.state.Grid.Sorted(),
		TileCount:  e.state.Grid.Count(),
		Terminal:   e.state.Grid.IsTerminal(),
		Pending:    e.queue.Len(),
		MoveNumber: e.state.TotalMoves,
		Message:    e.state.Message,
		ConfigName: e.state.ConfigName,
	}
}

// Reset clears every tile and pending command, then seeds a new game.
// Cumulative history survives; only the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.queue.Clear()
	e.state = newGameState(e.config)
	// InitialTiles never exceeds the capacity of a validated config
	_ = e.seed()

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal

	return e.state
}

// IsTerminal reports whether the board is full
func (e *GameEngine) IsTerminal() bool {
	return e.state.Grid.IsTerminal()
}

// SubmitDirection enqueues a swipe for a later Tick
func (e *GameEngine) SubmitDirection(dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	return e.queue.Push(dir)
}

// TakePendingDirection removes the oldest queued direction without resolving it
func (e *GameEngine) TakePendingDirection() (Direction, bool) {
	return e.queue.Pop()
}

// PendingCount returns the number of queued directions
func (e *GameEngine) PendingCount() int {
	return e.queue.Len()
}

// Tick resolves at most one pending direction. With CoalesceInput set, any
// directions still queued after the resolved one are discarded.
func (e *GameEngine) Tick() TickResult {
	dir, ok := e.queue.Pop()
	if !ok {
		return TickResult{Terminal: e.IsTerminal()}
	}

	result := e.resolve(dir)
	if e.config.CoalesceInput {
		result.Dropped = e.queue.Clear()
	}
	return result
}

// Swipe resolves dir immediately, bypassing the queue
func (e *GameEngine) Swipe(dir Direction) (TickResult, error) {
	if !dir.Valid() {
		return TickResult{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	return e.resolve(dir), nil
}

// resolve runs one full transition: swipe, conditional spawn, terminal check
func (e *GameEngine) resolve(dir Direction) TickResult {
	swipe := e.state.Grid.ApplySwipe(dir)

	result := TickResult{
		Direction: dir,
		Accepted:  true,
		Changed:   swipe.Changed,
		Merges:    swipe.Merges,
	}

	if swipe.Changed {
		// A changed grid always has a free cell: a full board can only
		// change through a merge, which frees one.
		if tile, err := e.spawner.SpawnOne(&e.state.Grid); err == nil {
			result.Spawned = &tile
		}
	}

	result.Terminal = e.state.Grid.IsTerminal()

	switch {
	case result.Terminal:
		e.state.Message = e.config.Messages.GameOver
	case !swipe.Changed:
		e.state.Message = e.config.Messages.NoChange
	default:
		e.state.Message = ""
	}

	e.state.AddSwipeToHistory(result, e.now())
	return result
}

// CanSwipe reports whether dir would change the grid. It simulates on a copy
// and never affects terminal detection.
func (e *GameEngine) CanSwipe(dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	return e.state.Grid.Clone().ApplySwipe(dir).Changed
}

// PossibleSwipes returns every direction that would change the grid
func (e *GameEngine) PossibleSwipes() []Direction {
	possible := []Direction{}
	for _, dir := range AllDirections {
		if e.CanSwipe(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetHistory returns the cumulative swipe history
func (e *GameEngine) GetHistory() []SwipeHistoryEntry {
	return e.state.MoveHistory
}

// GetLastSwipe returns the last resolved swipe, or nil if none
func (e *GameEngine) GetLastSwipe() *SwipeHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// SetTiles replaces the grid contents, validating every placement. Pending
// commands are kept. Intended for tests and scripted positions.
func (e *GameEngine) SetTiles(tiles []Tile) error {
	grid := NewGridState(e.config.Width, e.config.Height)
	for _, t := range tiles {
		if err := grid.Place(t); err != nil {
			return err
		}
	}
	e.state.Grid = *grid
	return nil
}

// BulkSwipe resolves directions in order and returns one result per swipe
func (e *GameEngine) BulkSwipe(dirs []Direction) ([]TickResult, error) {
	results := make([]TickResult, 0, len(dirs))
	for i, dir := range dirs {
		result, err := e.Swipe(dir)
		if err != nil {
			return results, fmt.Errorf("swipe %d: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}
