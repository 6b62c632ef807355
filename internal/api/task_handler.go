package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskwatch/internal/api/shared"
	"github.com/phrazzld/taskwatch/internal/domain"
)

// TaskTracker is the subset of the tracker the control API drives.
type TaskTracker interface {
	Create(ctx context.Context) (domain.Task, error)
	Adopt(ctx context.Context, filter domain.Filter) ([]domain.Task, error)
	Cancel(ctx context.Context, taskID string) error
	Delete(ctx context.Context, taskID string) error
	Get(taskID string) (domain.Task, error)
	Visible(filter domain.Filter) []domain.Task
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	tracker TaskTracker
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tracker TaskTracker, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tracker: tracker,
		logger:  logger.With("component", "task_handler"),
	}
}

// CreateTask handles POST /tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tracker.Create(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	h.logger.Info("task created via API",
		"task_id", task.ID,
		"trace_id", shared.GetTraceID(r.Context()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks?status=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	req := StatusFilterRequest{Status: r.URL.Query().Get("status")}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(h.tracker.Visible(req.Filter())))
}

// GetTask handles GET /tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.tracker.Get(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CancelTask handles PATCH /tasks/{id}/status. The response carries the
// status recorded after the immediate re-check.
func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if err := h.tracker.Cancel(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.tracker.Get(taskID)
	if err != nil {
		// Deleted while the re-check was running
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	if _, err := h.tracker.Get(taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := h.tracker.Delete(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskIDResponse{TaskID: taskID})
}

// AdoptTasks handles POST /tasks/adopt with an optional {"status": ...} body
func (h *TaskHandler) AdoptTasks(w http.ResponseWriter, r *http.Request) {
	var req StatusFilterRequest
	if err := shared.DecodeOptionalJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	adopted, err := h.tracker.Adopt(r.Context(), req.Filter())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to adopt server tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(adopted))
}
