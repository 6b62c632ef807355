package worker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestNewJobQueue(t *testing.T) {
	queue := NewJobQueue(10, setupTestLogger())

	assert.NotNil(t, queue)
	assert.Equal(t, 10, cap(queue.jobs))
	assert.False(t, queue.closed)

	// Non-positive sizes still allow one job
	queue = NewJobQueue(0, setupTestLogger())
	assert.Equal(t, 1, cap(queue.jobs))
}

func TestJobQueue_Enqueue(t *testing.T) {
	queue := NewJobQueue(2, setupTestLogger())

	first := NewFuncJob("first", func() {})
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(NewFuncJob("second", func() {})))
	assert.Equal(t, 2, queue.Len())

	err := queue.Enqueue(NewFuncJob("third", func() {}))
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-queue.GetChannel()
	assert.Equal(t, first.ID(), got.ID())
	assert.Equal(t, 1, queue.Len())
}

func TestJobQueue_Close(t *testing.T) {
	queue := NewJobQueue(2, setupTestLogger())
	require.NoError(t, queue.Enqueue(NewFuncJob("pending", func() {})))

	queue.Close()
	queue.Close()

	err := queue.Enqueue(NewFuncJob("late", func() {}))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Buffered jobs can still be drained
	_, ok := <-queue.GetChannel()
	assert.True(t, ok)
	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}
