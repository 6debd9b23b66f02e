package engine

// CommandQueue is a bounded FIFO of pending swipe directions
type CommandQueue struct {
	items    []Direction
	capacity int
}

// NewCommandQueue creates a queue holding at most capacity directions
func NewCommandQueue(capacity int) *CommandQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &CommandQueue{
		items:    make([]Direction, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a direction, or returns ErrQueueFull
func (q *CommandQueue) Push(dir Direction) error {
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.items = append(q.items, dir)
	return nil
}

// Pop removes and returns the oldest direction
func (q *CommandQueue) Pop() (Direction, bool) {
	if len(q.items) == 0 {
		return "", false
	}
	dir := q.items[0]
	q.items = q.items[1:]
	return dir, true
}

// Len returns the number of pending directions
func (q *CommandQueue) Len() int {
	return len(q.items)
}

// Clear drops every pending direction and returns how many were dropped
func (q *CommandQueue) Clear() int {
	n := len(q.items)
	q.items = q.items[:0]
	return n
}
