package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/redact"
)

// PollState is the lifecycle state of a PollLoop.
type PollState int

// Poll loop states
const (
	StateIdle PollState = iota
	StatePolling
	StateFetchingOutcome
	StateDone
	StateStopped
)

func (s PollState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateFetchingOutcome:
		return "fetching_outcome"
	case StateDone:
		return "done"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsFinal reports whether no further queries will be issued.
func (s PollState) IsFinal() bool {
	return s == StateDone || s == StateStopped
}

// PollLoop synchronizes one task with the server. It queries the status
// every interval until the status is terminal, then fetches the outcome
// once. A loop that is stopped ignores any step or response that arrives
// afterwards.
type PollLoop struct {
	taskID    string
	api       TaskAPI
	registry  *Registry
	scheduler Scheduler
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	state    PollState
	timer    Timer
	finished chan struct{}

	// queryMu keeps status queries for this task strictly sequential
	queryMu sync.Mutex
}

func newPollLoop(taskID string, api TaskAPI, registry *Registry, scheduler Scheduler, cfg Config, logger *slog.Logger) *PollLoop {
	return &PollLoop{
		taskID:    taskID,
		api:       api,
		registry:  registry,
		scheduler: scheduler,
		interval:  cfg.PollInterval,
		timeout:   cfg.RequestTimeout,
		logger:    logger.With("task_id", taskID),
		state:     StateIdle,
		finished:  make(chan struct{}),
	}
}

// State returns the current state of the loop.
func (l *PollLoop) State() PollState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Active reports whether the loop still issues status queries.
func (l *PollLoop) Active() bool {
	s := l.State()
	return s == StateIdle || s == StatePolling
}

// Done is closed when the loop reaches Done or Stopped.
func (l *PollLoop) Done() <-chan struct{} {
	return l.finished
}

// Start moves an idle loop to Polling and schedules the first query immediately.
func (l *PollLoop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle {
		return
	}
	l.state = StatePolling
	l.timer = l.scheduler.After(0, l.step)
	l.logger.Debug("poll loop started")
}

// stop moves an idle or polling loop to Stopped. Loops already fetching the
// outcome or finished are left alone; their writes to the Registry fail once
// the task is gone.
func (l *PollLoop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle && l.state != StatePolling {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.state = StateStopped
	close(l.finished)
	l.logger.Debug("poll loop stopped")
}

// Recheck issues a single immediate status query and records the answer.
// It does not change the loop's state: a terminal answer is picked up by
// the loop's next step.
func (l *PollLoop) Recheck(ctx context.Context) error {
	if l.State() == StateStopped {
		return nil
	}

	status, err := l.queryStatus(ctx)
	if err != nil {
		return err
	}

	if l.State() == StateStopped {
		return nil
	}

	if err := l.registry.UpdateStatus(ctx, l.taskID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// step runs one Polling iteration. It is the only function handed to the scheduler.
func (l *PollLoop) step() {
	defer l.recoverStep()

	if l.State() != StatePolling {
		return
	}

	ctx := context.Background()

	// A re-check after cancel may already have recorded a terminal status
	current, err := l.registry.Get(l.taskID)
	if err != nil {
		l.finish(StateStopped)
		return
	}
	if current.Status.IsTerminal() {
		l.fetchOutcome(ctx)
		return
	}

	status, err := l.queryStatus(ctx)

	// The task may have been removed while the query was in flight
	if l.State() != StatePolling {
		return
	}

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.logger.Warn("task no longer exists on the server, stopping poll loop", "error", err)
			l.finish(StateStopped)
			return
		}
		l.logger.Warn("status query failed, retrying next cycle",
			"error", err,
			"retry_in", l.interval)
		l.reportFailure(ctx, err)
		l.scheduleNext()
		return
	}

	if err := l.registry.UpdateStatus(ctx, l.taskID, status); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			l.finish(StateStopped)
		case errors.Is(err, domain.ErrInvalidState):
			// Already terminal locally; the recorded status wins
			if status.IsTerminal() {
				l.logger.Error("server reported a different terminal status",
					"reported_status", status,
					"error", err)
			} else {
				// Answer to a query sent before a cancel re-check recorded the terminal status
				l.logger.Debug("ignoring stale status",
					"reported_status", status)
			}
			l.fetchOutcome(ctx)
		default:
			l.logger.Error("failed to record task status", "status", status, "error", err)
			l.scheduleNext()
		}
		return
	}

	if status.IsTerminal() {
		l.fetchOutcome(ctx)
		return
	}
	l.scheduleNext()
}

// fetchOutcome performs the one-shot outcome query. Failures leave the outcome empty.
func (l *PollLoop) fetchOutcome(ctx context.Context) {
	if !l.transition(StatePolling, StateFetchingOutcome) {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	outcome, err := l.api.GetOutcome(callCtx, l.taskID)
	cancel()

	if err != nil {
		l.logger.Warn("outcome fetch failed, leaving outcome empty", "error", err)
		l.finish(StateDone)
		return
	}

	if err := l.registry.SetOutcome(ctx, l.taskID, outcome); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.logger.Debug("task removed before its outcome was recorded")
		} else {
			l.logger.Error("failed to record task outcome", "error", err)
		}
	}
	l.finish(StateDone)
}

// reportFailure makes a failed status query visible through the Registry.
func (l *PollLoop) reportFailure(ctx context.Context, err error) {
	if rerr := l.registry.ReportPollFailure(ctx, l.taskID, redact.Error(err)); rerr != nil {
		l.logger.Debug("poll failure not recorded", "error", rerr)
	}
}

// recoverStep ends the loop when a step panics so that waiters are released.
func (l *PollLoop) recoverStep() {
	if r := recover(); r != nil {
		l.logger.Error("poll step panicked, ending poll loop", "panic", r)
		l.finish(StateDone)
	}
}

// queryStatus issues one status query, bounded by the request timeout.
func (l *PollLoop) queryStatus(ctx context.Context) (domain.TaskStatus, error) {
	l.queryMu.Lock()
	defer l.queryMu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.api.GetStatus(callCtx, l.taskID)
}

func (l *PollLoop) scheduleNext() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StatePolling {
		return
	}
	l.timer = l.scheduler.After(l.interval, l.step)
}

func (l *PollLoop) transition(from, to PollState) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != from {
		return false
	}
	l.state = to
	return true
}

func (l *PollLoop) finish(final PollState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.IsFinal() {
		return
	}
	l.state = final
	l.timer = nil
	close(l.finished)
	l.logger.Debug("poll loop finished", "state", final)
}
