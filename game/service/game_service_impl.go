package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/merge2048/game/engine"
)

var (
	// ErrConfigNotFound is returned when a named configuration does not exist
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrPendingInput is returned by immediate swipes while queued
	// directions are still waiting for a tick
	ErrPendingInput = errors.New("queued directions must resolve first")
)

// gameServiceImpl implements the GameService interface. A single mutex
// serializes every engine access, since engines are not safe for concurrent use.
// Anything that refreshes a session's access time takes the write lock.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
	now      func() time.Time
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.ConfigID = configName
	if session.ConfigID == "" {
		session.ConfigID = s.getConfigID(config.Name)
	}

	log.Info().
		Str("session", session.ID).
		Str("config", session.ConfigID).
		Int("width", config.Width).
		Int("height", config.Height).
		Msg("session created")

	return s.sessionInfo(session), nil
}

// getConfigID returns the config_id for a given config name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Snapshot:       sess.Engine.Snapshot(),
		TotalMoves:     sess.Engine.GetState().TotalMoves,
		PossibleSwipes: sess.Engine.PossibleSwipes(),
		GameConfig:     sess.Config,
	}
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions ordered by creation time
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// touch looks up a session and refreshes its last access time. It writes
// session fields, so callers hold the write lock.
func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// Swipe resolves a single swipe immediately
func (s *gameServiceImpl) Swipe(ctx context.Context, sessionID, direction string) (*SwipeOutcome, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkQueueDrained(sess); err != nil {
		return nil, err
	}

	result, err := sess.Engine.Swipe(dir)
	if err != nil {
		return nil, err
	}
	message := sess.Engine.GetState().Message
	reset := s.applyTerminalPolicy(sess, result)

	logSwipe(sess, result, reset)

	return &SwipeOutcome{
		Direction: dir,
		Changed:   result.Changed,
		Merges:    result.Merges,
		Spawned:   result.Spawned,
		Terminal:  result.Terminal,
		Reset:     reset,
		Snapshot:  sess.Engine.Snapshot(),
		Message:   message,
		Events:    s.swipeEvents(result, message, reset),
	}, nil
}

// BulkSwipe resolves several swipes in order, stopping at the first invalid
// direction or at a full board
func (s *gameServiceImpl) BulkSwipe(ctx context.Context, sessionID string, directions []string) (*BulkSwipeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkQueueDrained(sess); err != nil {
		return nil, err
	}

	startTiles := sess.Engine.Snapshot().Tiles
	result := &BulkSwipeResult{
		RequestedSwipes: len(directions),
		Success:         true,
		Events:          make([]GameEvent, 0),
		StartTileCount:  len(startTiles),
		StartMaxValue:   engine.MaxValue(startTiles),
	}

	// Limit swipes to prevent abuse
	if len(directions) > engine.MaxBulkSwipes {
		result.Truncated = true
		result.Limit = engine.MaxBulkSwipes
		directions = directions[:engine.MaxBulkSwipes]
	}

	for i, raw := range directions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir, err := engine.ParseDirection(raw)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("swipe %d invalid: %q", i+1, raw)
			result.StopReasonCode = "invalid_direction"
			result.StoppedOnSwipe = i + 1
			break
		}

		res, _ := sess.Engine.Swipe(dir)
		message := sess.Engine.GetState().Message
		tileCount := sess.Engine.GetState().Grid.Count()
		reset := s.applyTerminalPolicy(sess, res)
		logSwipe(sess, res, reset)

		result.SwipesExecuted++
		result.TotalMerges += res.Merges
		result.Events = append(result.Events, s.swipeEvents(res, message, reset)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:       i + 1,
			Dir:       dir,
			Changed:   res.Changed,
			Merges:    res.Merges,
			Spawned:   res.Spawned,
			TileCount: tileCount,
			Terminal:  res.Terminal,
			Reset:     reset,
		})

		if res.Terminal {
			result.StoppedReason = message
			result.StopReasonCode = "game_over"
			result.StoppedOnSwipe = i + 1
			break
		}
	}

	endSnapshot := sess.Engine.Snapshot()
	result.EndTileCount = endSnapshot.TileCount
	result.EndMaxValue = engine.MaxValue(endSnapshot.Tiles)
	result.Terminal = endSnapshot.Terminal
	result.Message = endSnapshot.Message
	result.PossibleSwipes = sess.Engine.PossibleSwipes()
	result.Snapshot = endSnapshot

	return result, nil
}

// Submit queues a direction for the next tick
func (s *gameServiceImpl) Submit(ctx context.Context, sessionID, direction string) (*QueueResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.SubmitDirection(dir); err != nil {
		return nil, err
	}

	return &QueueResult{
		Direction: dir,
		Pending:   sess.Engine.PendingCount(),
	}, nil
}

// Tick resolves at most one queued direction per session
func (s *gameServiceImpl) Tick(ctx context.Context) ([]TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })

	var reports []TickReport
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		if sess.Engine.PendingCount() == 0 {
			continue
		}

		result := sess.Engine.Tick()
		reset := s.applyTerminalPolicy(sess, result)
		logSwipe(sess, result, reset)
		if result.Dropped > 0 {
			log.Debug().Str("session", sess.ID).Int("dropped", result.Dropped).Msg("coalesced pending input")
		}

		reports = append(reports, TickReport{
			SessionID: sess.ID,
			Result:    result,
			Reset:     reset,
			Snapshot:  sess.Engine.Snapshot(),
		})
	}
	return reports, nil
}

// Reset clears a session's board and seeds a new game
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	log.Info().Str("session", sess.ID).Msg("game reset")

	snapshot := sess.Engine.Snapshot()
	return &snapshot, nil
}

// GetSnapshot returns the current board of a session
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := sess.Engine.Snapshot()
	return &snapshot, nil
}

// GetHistory returns paginated swipe history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	state := sess.Engine.GetState()
	total := len(state.MoveHistory)

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	return &HistoryResponse{
		Moves:       state.HistoryPage((opts.Page-1)*opts.Limit, opts.Limit, opts.Order),
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// checkQueueDrained refuses an immediate swipe while the session still has
// directions waiting for a tick
func checkQueueDrained(sess *Session) error {
	if n := sess.Engine.PendingCount(); n > 0 {
		return fmt.Errorf("%w: %d pending", ErrPendingInput, n)
	}
	return nil
}

// applyTerminalPolicy restarts a full board when the session's config asks for it
func (s *gameServiceImpl) applyTerminalPolicy(sess *Session, result engine.TickResult) bool {
	if !result.Terminal || !sess.Config.ResetOnTerminal {
		return false
	}
	sess.Engine.Reset()
	log.Info().Str("session", sess.ID).Msg("board full, game restarted")
	return true
}

// swipeEvents generates events from a resolved swipe
func (s *gameServiceImpl) swipeEvents(result engine.TickResult, message string, reset bool) []GameEvent {
	now := s.now()
	events := []GameEvent{{
		Type:      EventSwipe,
		Message:   fmt.Sprintf("Swiped %s", result.Direction),
		Timestamp: now,
	}}

	if !result.Changed {
		return append(events, GameEvent{
			Type:      EventNoChange,
			Message:   "Nothing moved, no tile spawned",
			Timestamp: now,
		})
	}

	if result.Merges > 0 {
		events = append(events, GameEvent{
			Type:      EventMerge,
			Message:   fmt.Sprintf("%d merge(s)", result.Merges),
			Timestamp: now,
		})
	}

	if result.Spawned != nil {
		pos := result.Spawned.Position
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("New %d tile at (%d,%d)", result.Spawned.Display(), pos.X, pos.Y),
			Timestamp: now,
			Position:  &pos,
		})
	}

	if result.Terminal {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   message,
			Timestamp: now,
		})
	}

	if reset {
		events = append(events, GameEvent{
			Type:      EventReset,
			Message:   "Board cleared, new game started",
			Timestamp: now,
		})
	}

	return events
}

func logSwipe(sess *Session, result engine.TickResult, reset bool) {
	log.Debug().
		Str("session", sess.ID).
		Str("direction", string(result.Direction)).
		Bool("changed", result.Changed).
		Int("merges", result.Merges).
		Int("tiles", sess.Engine.GetState().Grid.Count()).
		Bool("terminal", result.Terminal).
		Bool("reset", reset).
		Msg("swipe")
}
