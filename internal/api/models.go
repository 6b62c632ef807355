package api

import (
	"time"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/view"
)

// StatusFilterRequest selects tasks by status. An empty status means all tasks.
type StatusFilterRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=PENDING RUNNING SUCCESS FAILURE CANCELLED"`
}

// Filter converts the validated request into a domain.Filter.
func (r StatusFilterRequest) Filter() domain.Filter {
	return domain.Filter(r.Status)
}

// TaskResponse is the JSON form of a tracked task.
type TaskResponse struct {
	TaskID    string            `json:"task_id"`
	Status    domain.TaskStatus `json:"status"`
	Result    string            `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	PollError string            `json:"poll_error,omitempty"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
}

// TaskIDResponse acknowledges an operation on a single task.
type TaskIDResponse struct {
	TaskID string `json:"task_id"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ViewResponse is the board as the user currently sees it.
type ViewResponse struct {
	Filter          string     `json:"filter"`
	FilterAvailable bool       `json:"filter_available"`
	Rows            []view.Row `json:"rows"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status       string `json:"status"`
	TrackedTasks int    `json:"tracked_tasks"`
}

func taskToResponse(task domain.Task) TaskResponse {
	resp := TaskResponse{
		TaskID:    task.ID,
		Status:    task.Status,
		PollError: task.PollError,
	}
	if !task.CreatedAt.IsZero() {
		created := task.CreatedAt
		resp.CreatedAt = &created
	}
	if task.HasOutcome() {
		resp.Result = task.Outcome.Result
		resp.Error = task.Outcome.Error
	}
	return resp
}

func tasksToResponse(tasks []domain.Task) TaskListResponse {
	out := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		out.Tasks = append(out.Tasks, taskToResponse(task))
	}
	return out
}
