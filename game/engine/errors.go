package engine

import "errors"

var (
	// ErrBoardFull is returned when a tile is spawned into a full grid.
	ErrBoardFull = errors.New("engine: no free cell to spawn into")
	// ErrQueueFull is returned when the command queue is at capacity.
	ErrQueueFull = errors.New("engine: command queue is full")
	// ErrInvalidDirection is returned for unrecognised direction input.
	ErrInvalidDirection = errors.New("engine: invalid direction")
	// ErrOutOfBounds is returned when a tile is placed outside the grid.
	ErrOutOfBounds = errors.New("engine: position out of bounds")
	// ErrCellOccupied is returned when a tile is placed on an occupied cell.
	ErrCellOccupied = errors.New("engine: cell already occupied")
)
