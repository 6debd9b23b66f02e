package engine

import "time"

// AddSwipeToHistory records a resolved swipe in both the cumulative history
// and the current segment
func (gs *GameState) AddSwipeToHistory(result TickResult, at time.Time) {
	entry := SwipeHistoryEntry{
		Direction:  result.Direction,
		Changed:    result.Changed,
		Merges:     result.Merges,
		Spawned:    result.Spawned,
		TileCount:  gs.Grid.Count(),
		Terminal:   result.Terminal,
		Timestamp:  at.Unix(),
		MoveNumber: gs.TotalMoves + 1,
	}

	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}

// HistoryPage returns a window of the cumulative history. A non-positive
// limit returns everything from offset on; order "desc" starts from the
// newest entry.
func (gs *GameState) HistoryPage(offset, limit int, order string) []SwipeHistoryEntry {
	n := len(gs.MoveHistory)
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		return []SwipeHistoryEntry{}
	}
	if limit <= 0 || offset+limit > n {
		limit = n - offset
	}

	page := make([]SwipeHistoryEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := offset + i
		if order == "desc" {
			idx = n - 1 - offset - i
		}
		page = append(page, gs.MoveHistory[idx])
	}
	return page
}
