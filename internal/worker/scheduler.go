package worker

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phrazzld/taskwatch/internal/tracker"
)

// Config holds the sizing of the background worker machinery
type Config struct {
	// WorkerCount is the number of goroutines executing scheduled work
	WorkerCount int

	// QueueSize is the number of due jobs that may wait for a free worker
	QueueSize int

	// RetryDelay is how long a due job waits before retrying a full queue
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() Config {
	return Config{
		WorkerCount: DefaultWorkerPoolConfig().WorkerCount,
		QueueSize:   100,
		RetryDelay:  50 * time.Millisecond,
	}
}

// Scheduler is a tracker.Scheduler backed by wall-clock timers and a
// WorkerPool. Timers only enqueue; the work itself always runs on a worker.
type Scheduler struct {
	queue  JobQueueWriter
	pool   *WorkerPool
	config Config
	logger *slog.Logger
	failed atomic.Int64

	mu      sync.Mutex
	stopped bool
}

// NewScheduler creates a Scheduler. Call Start before scheduling work.
func NewScheduler(config Config, logger *slog.Logger) *Scheduler {
	defaults := DefaultConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}

	logger = logger.With("component", "scheduler")
	queue := NewJobQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: config.WorkerCount}, logger)

	s := &Scheduler{
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
	pool.SetErrorHandler(s.recordFailure)
	return s
}

// Failed returns the number of scheduled functions that panicked.
func (s *Scheduler) Failed() int64 {
	return s.failed.Load()
}

func (s *Scheduler) recordFailure(job Job, err error) {
	total := s.failed.Add(1)
	s.logger.Debug("scheduled job failure recorded",
		"job_id", job.ID(),
		"error", err,
		"failed_total", total)
}

// Start launches the worker pool
func (s *Scheduler) Start() {
	s.pool.Start()
}

// Stop closes the queue and waits for running jobs. Work scheduled
// afterwards is dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.queue.Close()
	s.pool.Stop()
}

// After runs fn on a worker once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) tracker.Timer {
	t := &timer{scheduler: s, job: NewFuncJob("scheduled", fn)}

	t.mu.Lock()
	t.timer = time.AfterFunc(d, t.fire)
	t.mu.Unlock()
	return t
}

func (s *Scheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// timer tracks one scheduled job until it reaches the queue.
type timer struct {
	scheduler *Scheduler
	job       Job

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	enqueued bool
}

func (t *timer) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.scheduler.isStopped() {
		return
	}

	err := t.scheduler.queue.Enqueue(t.job)
	switch {
	case err == nil:
		t.enqueued = true
	case errors.Is(err, ErrQueueFull):
		t.scheduler.logger.Warn("job queue full, delaying scheduled job",
			"job_id", t.job.ID(),
			"retry_in", t.scheduler.config.RetryDelay)
		t.timer = time.AfterFunc(t.scheduler.config.RetryDelay, t.fire)
	default:
		t.scheduler.logger.Debug("dropping scheduled job", "job_id", t.job.ID(), "error", err)
	}
}

// Stop prevents the job from being enqueued. It returns false once the job
// has reached the queue or was already stopped.
func (t *timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.enqueued {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}

var _ tracker.Scheduler = (*Scheduler)(nil)
