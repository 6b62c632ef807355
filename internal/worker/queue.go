package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the JobQueue
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// JobQueue is a bounded job queue that satisfies both
// JobQueueReader and JobQueueWriter interfaces
type JobQueue struct {
	mu     sync.RWMutex
	jobs   chan Job
	logger *slog.Logger
	closed bool
}

// NewJobQueue creates a new job queue with the specified buffer size
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	if size <= 0 {
		size = 1
	}
	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds a job to the queue without blocking
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued",
			"job_id", job.ID(),
			"job_name", job.Name(),
			"queue_len", len(q.jobs),
			"queue_cap", cap(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close closes the job queue, preventing further job submission
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
		q.logger.Info("job queue closed")
	}
}

// Len returns the number of jobs waiting to be processed
func (q *JobQueue) Len() int {
	return len(q.jobs)
}

// GetChannel returns a read-only channel for consuming jobs
func (q *JobQueue) GetChannel() <-chan Job {
	return q.jobs
}
