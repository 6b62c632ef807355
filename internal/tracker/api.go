package tracker

import (
	"context"

	"github.com/phrazzld/taskwatch/internal/domain"
)

// TaskSummary is one entry of the remote task listing.
type TaskSummary struct {
	ID     string
	Status domain.TaskStatus
}

// TaskAPI is the remote collaborator that owns task execution.
// Implementations return errors wrapping domain.ErrNotFound when the server
// does not know the task, and domain.ErrRemote for any other failure.
type TaskAPI interface {
	// CreateTask starts a new task and returns its server-assigned id
	CreateTask(ctx context.Context) (string, error)

	// ListTasks returns the tasks known to the server, optionally restricted
	// to one status (empty status lists all)
	ListTasks(ctx context.Context, status domain.TaskStatus) ([]TaskSummary, error)

	// GetStatus returns the current status of a task
	GetStatus(ctx context.Context, taskID string) (domain.TaskStatus, error)

	// CancelTask asks the server to cancel a task
	CancelTask(ctx context.Context, taskID string) error

	// GetOutcome returns the result or error of a finished task
	GetOutcome(ctx context.Context, taskID string) (domain.Outcome, error)

	// DeleteTask removes a task on the server
	DeleteTask(ctx context.Context, taskID string) error
}
