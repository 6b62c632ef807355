package worker

import (
	"context"

	"github.com/google/uuid"
)

// Job is a unit of work executed by the WorkerPool
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Name describes the job in logs
	Name() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobQueueReader provides read-only access to the job channel
// allowing workers to consume jobs without the ability to enqueue
type JobQueueReader interface {
	// GetChannel returns a read-only channel for consuming jobs
	GetChannel() <-chan Job
}

// JobQueueWriter provides write access to the job queue
type JobQueueWriter interface {
	// Enqueue adds a job to the queue for processing
	// Returns an error if the queue is full or closed
	Enqueue(job Job) error

	// Close closes the job queue, preventing further job submission
	Close()
}

// funcJob adapts a plain function to the Job interface.
type funcJob struct {
	id   uuid.UUID
	name string
	fn   func()
}

// NewFuncJob wraps fn in a Job.
func NewFuncJob(name string, fn func()) Job {
	return &funcJob{id: uuid.New(), name: name, fn: fn}
}

func (j *funcJob) ID() uuid.UUID { return j.id }

func (j *funcJob) Name() string { return j.name }

func (j *funcJob) Execute(_ context.Context) error {
	j.fn()
	return nil
}
