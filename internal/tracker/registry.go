package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/events"
)

// entry is the registry's record for one task.
type entry struct {
	task domain.Task
	loop *PollLoop
}

// Registry is the authoritative client-side store of task state.
//
// Every method runs under a single mutex and emits its event before
// releasing it, so handlers observe events for a task in the order the
// mutations happened and never see a status or outcome event after the
// task's removal event. Handlers must not call back into the Registry.
type Registry struct {
	mu      sync.Mutex
	tasks   map[string]*entry
	order   []string
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewRegistry creates an empty Registry that publishes lifecycle events to emitter.
func NewRegistry(emitter events.EventEmitter, logger *slog.Logger) *Registry {
	return &Registry{
		tasks:   make(map[string]*entry),
		emitter: emitter,
		logger:  logger.With("component", "task_registry"),
	}
}

// Register adds a task in the PENDING state with no outcome.
func (r *Registry) Register(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := domain.NewTask(taskID)
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[taskID]; exists {
		r.logger.Error("task registered twice", "task_id", taskID)
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrDuplicateTask, taskID)
	}

	r.tasks[taskID] = &entry{task: *task}
	r.order = append(r.order, taskID)

	r.emit(ctx, events.NewTaskEvent(events.TaskCreated, taskID, task.Status))
	return copyTask(*task), nil
}

// Get returns a copy of the task with the given id.
func (r *Registry) Get(taskID string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	return copyTask(e.task), nil
}

// UpdateStatus records a new status for a task and emits a status-changed
// event. Writing the current status again changes nothing beyond clearing a
// reported polling failure. A terminal status is never replaced by a
// different one.
func (r *Registry) UpdateStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}

	// A successful check ends any reported polling failure
	if e.task.PollError != "" {
		e.task.PollError = ""
		r.emit(ctx, events.NewTaskEvent(events.PollRecovered, taskID, e.task.Status))
	}

	current := e.task.Status
	if current == status {
		return nil
	}
	if current.IsTerminal() {
		return fmt.Errorf("%w: task %s is already %s, cannot become %s",
			domain.ErrInvalidState, taskID, current, status)
	}

	e.task.Status = status
	r.logger.Debug("task status changed",
		"task_id", taskID,
		"from", current,
		"to", status)

	r.emit(ctx, events.NewTaskEvent(events.StatusChanged, taskID, status))
	return nil
}

// ReportPollFailure records that a status check for the task failed and
// emits a poll-failed event. Repeating the same reason emits nothing, and
// failures reported after the status became terminal are ignored.
func (r *Registry) ReportPollFailure(ctx context.Context, taskID string, reason string) error {
	if reason == "" {
		reason = "status check failed"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	if e.task.Status.IsTerminal() || e.task.PollError == reason {
		return nil
	}

	e.task.PollError = reason
	r.emit(ctx, events.NewPollFailedEvent(taskID, e.task.Status, reason))
	return nil
}

// SetOutcome records the one-shot outcome of a terminal task.
func (r *Registry) SetOutcome(ctx context.Context, taskID string, outcome domain.Outcome) error {
	if err := outcome.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	if !e.task.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is %s, outcome requires a terminal status",
			domain.ErrInvalidState, taskID, e.task.Status)
	}
	if e.task.Outcome != nil {
		return fmt.Errorf("%w: outcome of task %s already set", domain.ErrInvalidState, taskID)
	}

	stored := outcome
	e.task.Outcome = &stored

	r.emit(ctx, events.NewOutcomeEvent(taskID, e.task.Status, outcome))
	return nil
}

// Remove deletes a task and stops its poll loop. Removing an unknown id is a no-op.
func (r *Registry) Remove(ctx context.Context, taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return
	}

	delete(r.tasks, taskID)
	for i, id := range r.order {
		if id == taskID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if e.loop != nil {
		e.loop.stop()
	}

	r.emit(ctx, events.NewTaskEvent(events.TaskRemoved, taskID, e.task.Status))
}

// List returns copies of all tasks in creation order.
func (r *Registry) List() []domain.Task {
	return r.Visible(domain.NoFilter)
}

// Visible returns copies of the tasks the filter matches, in creation order.
func (r *Registry) Visible(filter domain.Filter) []domain.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		e := r.tasks[id]
		if filter.Matches(e.task.Status) {
			tasks = append(tasks, copyTask(e.task))
		}
	}
	return tasks
}

// Len returns the number of tracked tasks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// IsPolling reports whether the task's poll loop is still querying the server.
func (r *Registry) IsPolling(taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok || e.loop == nil {
		return false
	}
	return e.loop.Active()
}

// attach binds a poll loop to a registered task.
func (r *Registry) attach(taskID string, loop *PollLoop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	if e.loop != nil {
		return fmt.Errorf("%w: task %s already has a poll loop", domain.ErrInvalidState, taskID)
	}
	e.loop = loop
	return nil
}

// loopFor returns the poll loop of a task.
func (r *Registry) loopFor(taskID string) (*PollLoop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.tasks[taskID]
	if !ok || e.loop == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	return e.loop, nil
}

// loops returns every attached poll loop.
func (r *Registry) loops() []*PollLoop {
	r.mu.Lock()
	defer r.mu.Unlock()

	loops := make([]*PollLoop, 0, len(r.tasks))
	for _, id := range r.order {
		if l := r.tasks[id].loop; l != nil {
			loops = append(loops, l)
		}
	}
	return loops
}

// emit publishes an event; callers hold r.mu.
func (r *Registry) emit(ctx context.Context, event *events.TaskEvent) {
	if r.emitter == nil {
		return
	}
	if err := r.emitter.EmitEvent(ctx, event); err != nil {
		r.logger.Warn("event handler failed",
			"task_id", event.TaskID,
			"event_type", event.Type,
			"error", err)
	}
}

func copyTask(t domain.Task) domain.Task {
	if t.Outcome != nil {
		o := *t.Outcome
		t.Outcome = &o
	}
	return t
}
