package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskwatch/internal/domain"
)

// EventType identifies the kind of lifecycle change.
type EventType string

// Event type values
const (
	TaskCreated   EventType = "task_created"
	StatusChanged EventType = "status_changed"
	OutcomeReady  EventType = "outcome_ready"
	TaskRemoved   EventType = "task_removed"
	PollFailed    EventType = "poll_failed"
	PollRecovered EventType = "poll_recovered"
)

// TaskEvent describes one lifecycle change of a tracked task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what changed
	Type EventType `json:"type"`

	// TaskID is the server-assigned id of the task
	TaskID string `json:"task_id"`

	// Status is the task status after the change
	Status domain.TaskStatus `json:"status,omitempty"`

	// Outcome is set for OutcomeReady events only
	Outcome *domain.Outcome `json:"outcome,omitempty"`

	// Reason explains a PollFailed event
	Reason string `json:"reason,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskEvent creates a TaskEvent of the given type for a task.
func NewTaskEvent(eventType EventType, taskID string, status domain.TaskStatus) *TaskEvent {
	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

// NewOutcomeEvent creates an OutcomeReady event carrying a copy of the outcome.
func NewOutcomeEvent(taskID string, status domain.TaskStatus, outcome domain.Outcome) *TaskEvent {
	event := NewTaskEvent(OutcomeReady, taskID, status)
	event.Outcome = &outcome
	return event
}

// NewPollFailedEvent creates a PollFailed event for a task whose status
// check failed while it was in the given status.
func NewPollFailedEvent(taskID string, status domain.TaskStatus, reason string) *TaskEvent {
	event := NewTaskEvent(PollFailed, taskID, status)
	event.Reason = reason
	return event
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Handlers must not call back into the component that emitted the event.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// View is the callback surface a renderer implements.
type View interface {
	OnTaskCreated(taskID string)
	OnStatusChanged(taskID string, status domain.TaskStatus)
	OnOutcomeReady(taskID string, outcome domain.Outcome)
	OnTaskRemoved(taskID string)
	OnPollFailed(taskID string, reason string)
	OnPollRecovered(taskID string)
}

// ViewHandler adapts a View to the EventHandler interface.
func ViewHandler(v View) EventHandler {
	return viewHandler{view: v}
}

type viewHandler struct {
	view View
}

func (h viewHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	switch event.Type {
	case TaskCreated:
		h.view.OnTaskCreated(event.TaskID)
	case StatusChanged:
		h.view.OnStatusChanged(event.TaskID, event.Status)
	case OutcomeReady:
		var outcome domain.Outcome
		if event.Outcome != nil {
			outcome = *event.Outcome
		}
		h.view.OnOutcomeReady(event.TaskID, outcome)
	case TaskRemoved:
		h.view.OnTaskRemoved(event.TaskID)
	case PollFailed:
		h.view.OnPollFailed(event.TaskID, event.Reason)
	case PollRecovered:
		h.view.OnPollRecovered(event.TaskID)
	}
	return nil
}
