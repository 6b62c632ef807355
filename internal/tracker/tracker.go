package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskwatch/internal/domain"
)

// Config holds the timing settings of the tracker.
type Config struct {
	// PollInterval is the delay between two status queries of the same task
	PollInterval time.Duration

	// RequestTimeout bounds every call to the remote API
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config with a one second poll cadence.
func DefaultConfig() Config {
	return Config{
		PollInterval:   time.Second,
		RequestTimeout: 10 * time.Second,
	}
}

// Tracker turns user actions into remote calls, Registry updates and poll loops.
type Tracker struct {
	api       TaskAPI
	registry  *Registry
	scheduler Scheduler
	config    Config
	logger    *slog.Logger
}

// NewTracker creates a Tracker. Zero durations in config fall back to DefaultConfig.
func NewTracker(api TaskAPI, registry *Registry, scheduler Scheduler, config Config, logger *slog.Logger) *Tracker {
	defaults := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}

	return &Tracker{
		api:       api,
		registry:  registry,
		scheduler: scheduler,
		config:    config,
		logger:    logger.With("component", "task_tracker"),
	}
}

// Registry returns the registry backing the tracker.
func (t *Tracker) Registry() *Registry {
	return t.registry
}

// Create asks the server for a new task and starts tracking it.
func (t *Tracker) Create(ctx context.Context) (domain.Task, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.config.RequestTimeout)
	taskID, err := t.api.CreateTask(callCtx)
	cancel()
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	t.logger.Info("task created", "task_id", taskID)
	return t.Track(ctx, taskID)
}

// Track registers an existing server task and starts its poll loop.
func (t *Tracker) Track(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := t.registry.Register(ctx, taskID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to register task: %w", err)
	}

	loop := newPollLoop(taskID, t.api, t.registry, t.scheduler, t.config, t.logger)
	if err := t.registry.attach(taskID, loop); err != nil {
		// Deleted before polling could start
		t.logger.Debug("task removed before its poll loop started", "task_id", taskID, "error", err)
		return task, nil
	}
	loop.Start()

	return task, nil
}

// Adopt starts tracking every server task, optionally restricted by filter,
// that is not tracked yet. It returns the newly tracked tasks.
func (t *Tracker) Adopt(ctx context.Context, filter domain.Filter) ([]domain.Task, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.config.RequestTimeout)
	summaries, err := t.api.ListTasks(callCtx, filter.Status())
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	adopted := make([]domain.Task, 0, len(summaries))
	for _, summary := range summaries {
		if _, err := t.registry.Get(summary.ID); err == nil {
			continue
		}
		task, err := t.Track(ctx, summary.ID)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateTask) {
				continue
			}
			return adopted, err
		}
		adopted = append(adopted, task)
	}

	t.logger.Info("adopted server tasks",
		"listed_count", len(summaries),
		"adopted_count", len(adopted))
	return adopted, nil
}

// Cancel asks the server to cancel a task, then re-checks its status once.
// The poll loop keeps running and fetches the outcome once the terminal
// status is recorded. A failed re-check is reported as a polling failure
// rather than returned, since the cancel itself was accepted.
func (t *Tracker) Cancel(ctx context.Context, taskID string) error {
	loop, err := t.registry.loopFor(taskID)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, t.config.RequestTimeout)
	err = t.api.CancelTask(callCtx, taskID)
	cancel()
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to cancel task %s: %w", taskID, err)
		}
		// Already finished or cancelled on the server side
		t.logger.Debug("server did not cancel task", "task_id", taskID, "error", err)
	}

	if err := loop.Recheck(ctx); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidState):
			t.logger.Error("status re-check conflicts with recorded status", "task_id", taskID, "error", err)
			return nil
		case errors.Is(err, domain.ErrRemote):
			// The server accepted the cancel; the poll loop picks up the new status
			t.logger.Warn("status re-check after cancel failed", "task_id", taskID, "error", err)
			loop.reportFailure(ctx, err)
			return nil
		}
		return fmt.Errorf("failed to re-check status of task %s: %w", taskID, err)
	}

	t.logger.Info("task cancel requested", "task_id", taskID)
	return nil
}

// Delete removes a task on the server and stops tracking it. A task the
// server no longer knows is still removed locally.
func (t *Tracker) Delete(ctx context.Context, taskID string) error {
	callCtx, cancel := context.WithTimeout(ctx, t.config.RequestTimeout)
	err := t.api.DeleteTask(callCtx, taskID)
	cancel()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}

	t.registry.Remove(ctx, taskID)
	t.logger.Info("task deleted", "task_id", taskID)
	return nil
}

// Get returns one tracked task.
func (t *Tracker) Get(taskID string) (domain.Task, error) {
	return t.registry.Get(taskID)
}

// Tasks returns every tracked task in creation order.
func (t *Tracker) Tasks() []domain.Task {
	return t.registry.List()
}

// Visible returns the tracked tasks the filter matches.
func (t *Tracker) Visible(filter domain.Filter) []domain.Task {
	return t.registry.Visible(filter)
}

// Wait blocks until every loop that exists when it is called has finished.
func (t *Tracker) Wait(ctx context.Context) error {
	for _, loop := range t.registry.loops() {
		select {
		case <-loop.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops every active poll loop without removing any task.
func (t *Tracker) Close() {
	for _, loop := range t.registry.loops() {
		loop.stop()
	}
	t.logger.Info("task tracker closed")
}
