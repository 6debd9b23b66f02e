package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandQueue(t *testing.T) {
	q := NewCommandQueue(2)

	require.NoError(t, q.Push(Up))
	require.NoError(t, q.Push(Left))
	assert.ErrorIs(t, q.Push(Down), ErrQueueFull)
	assert.Equal(t, 2, q.Len())

	dir, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, Up, dir)

	require.NoError(t, q.Push(Right))
	assert.Equal(t, 2, q.Clear())

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestCommandQueue_DefaultCapacity(t *testing.T) {
	q := NewCommandQueue(0)
	for i := 0; i < DefaultQueueCapacity; i++ {
		require.NoError(t, q.Push(Up))
	}
	assert.ErrorIs(t, q.Push(Up), ErrQueueFull)
}
