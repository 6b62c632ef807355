package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJob implements Job for testing
type stubJob struct {
	id     uuid.UUID
	execFn func(ctx context.Context) error
}

func newStubJob(execFn func(ctx context.Context) error) *stubJob {
	return &stubJob{id: uuid.New(), execFn: execFn}
}

func (j *stubJob) ID() uuid.UUID { return j.id }

func (j *stubJob) Name() string { return "stub" }

func (j *stubJob) Execute(ctx context.Context) error { return j.execFn(ctx) }

func TestNewWorkerPool(t *testing.T) {
	logger := setupTestLogger()
	queue := NewJobQueue(10, logger)

	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 5}, logger)
	assert.Equal(t, 5, pool.workerCount)
	assert.Nil(t, pool.errorHandler)

	pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 0}, logger)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: -5}, logger)
	assert.Equal(t, 1, pool.workerCount)

	assert.Equal(t, 4, DefaultWorkerPoolConfig().WorkerCount)
}

func TestWorkerPool_ProcessesJobs(t *testing.T) {
	logger := setupTestLogger()
	queue := NewJobQueue(10, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 3}, logger)
	pool.Start()
	defer pool.Stop()

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Enqueue(NewFuncJob("count", func() { count.Add(1) })))
	}

	assert.Eventually(t, func() bool { return count.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestWorkerPool_ErrorHandler(t *testing.T) {
	logger := setupTestLogger()
	queue := NewJobQueue(10, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, logger)

	var (
		mu     sync.Mutex
		failed []error
	)
	pool.SetErrorHandler(func(job Job, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, err)
	})
	pool.Start()
	defer pool.Stop()

	boom := errors.New("boom")
	require.NoError(t, queue.Enqueue(newStubJob(func(context.Context) error { return boom })))
	require.NoError(t, queue.Enqueue(newStubJob(func(context.Context) error { panic("kaboom") })))
	require.NoError(t, queue.Enqueue(newStubJob(func(context.Context) error { return nil })))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(failed) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, failed[0], boom)
	assert.Contains(t, failed[1].Error(), "kaboom")
}

func TestWorkerPool_StopWaitsForRunningJob(t *testing.T) {
	logger := setupTestLogger()
	queue := NewJobQueue(10, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.Start()

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, queue.Enqueue(newStubJob(func(context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	})))

	<-started
	pool.Stop()
	assert.True(t, finished.Load())
}
