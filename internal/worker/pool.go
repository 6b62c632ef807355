package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// WorkerPool manages a pool of worker goroutines that process jobs
// from a job queue. It handles graceful shutdown and worker lifecycle.
type WorkerPool struct {
	// jobQueue provides read access to the jobs to be processed
	jobQueue JobQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is used for cancellation and shutdown signaling
	ctx    context.Context
	cancel context.CancelFunc

	logger *slog.Logger

	// errorHandler is called when a job fails or panics
	// If nil, errors are only logged
	errorHandler func(job Job, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 4,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(jobQueue JobQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		jobQueue:    jobQueue,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// SetErrorHandler sets a custom handler for job failures. Call it before Start.
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the worker goroutines
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop signals all workers to exit and waits for in-flight jobs to finish
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker processes jobs until the pool is stopped or the queue is closed
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)
	jobs := p.jobQueue.GetChannel()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-jobs:
			if !ok {
				p.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}
			p.processJob(job, id)
		}
	}
}

// processJob executes a single job, turning a panic into an error
func (p *WorkerPool) processJob(job Job, workerID int) {
	logger := p.logger.With(
		"job_id", job.ID(),
		"job_name", job.Name(),
		"worker_id", workerID,
	)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		return job.Execute(p.ctx)
	}()

	if err == nil {
		logger.Debug("job completed")
		return
	}

	logger.Error("job execution failed", "error", err)
	if p.errorHandler != nil {
		p.errorHandler(job, err)
	}
}
