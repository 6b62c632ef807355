package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNilEvent is returned when EmitEvent is called without an event.
var ErrNilEvent = errors.New("nil task event")

// InMemoryEventEmitter delivers task events to its handlers synchronously, on
// the emitting goroutine, in registration order. EmitEvent returns only after
// every handler has seen the event.
//
// The emitter does not order events from different goroutines. Callers that
// need a per-task order, such as the tracker's Registry, emit while holding
// the lock that serializes their mutations.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter delivering to handlers.
func NewInMemoryEventEmitter(logger *slog.Logger, handlers ...EventHandler) *InMemoryEventEmitter {
	e := &InMemoryEventEmitter{
		logger: logger.With("component", "task_event_emitter"),
	}
	for _, h := range handlers {
		e.RegisterHandler(h)
	}
	return e
}

// RegisterHandler appends a handler. Events emitted before registration are
// not replayed.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	if handler == nil {
		return
	}

	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("registered task event handler", "handler_count", count)
}

// EmitEvent delivers event to every handler. A failing handler does not stop
// delivery to the others; all handler errors are joined in the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	e.mu.RLock()
	handlers := e.handlers
	e.mu.RUnlock()

	e.logger.Debug("emitting task event",
		"event_type", event.Type,
		"task_id", event.TaskID,
		"status", event.Status)

	var errs []error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("task event handler failed",
				"error", err,
				"handler_index", i,
				"event_type", event.Type,
				"task_id", event.TaskID)
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)
