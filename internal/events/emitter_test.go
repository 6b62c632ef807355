package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceHandler appends "<name>:<type>:<task>" to a shared log
type sequenceHandler struct {
	name string
	log  *[]string
	err  error
}

func (h sequenceHandler) HandleEvent(_ context.Context, event *TaskEvent) error {
	*h.log = append(*h.log, h.name+":"+string(event.Type)+":"+event.TaskID)
	return h.err
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(TaskCreated, "t1", domain.TaskStatusPending)))
	})

	t.Run("nil event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		assert.ErrorIs(t, emitter.EmitEvent(ctx, nil), ErrNilEvent)
	})

	t.Run("delivers each event to every handler in registration order", func(t *testing.T) {
		var seen []string
		emitter := NewInMemoryEventEmitter(logger, sequenceHandler{name: "board", log: &seen}, nil)
		emitter.RegisterHandler(sequenceHandler{name: "text", log: &seen})

		require.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(TaskCreated, "t1", domain.TaskStatusPending)))
		require.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(StatusChanged, "t1", domain.TaskStatusRunning)))
		require.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(TaskRemoved, "t1", domain.TaskStatusRunning)))

		assert.Equal(t, []string{
			"board:task_created:t1",
			"text:task_created:t1",
			"board:status_changed:t1",
			"text:status_changed:t1",
			"board:task_removed:t1",
			"text:task_removed:t1",
		}, seen)
	})

	t.Run("late handlers miss earlier events", func(t *testing.T) {
		var seen []string
		emitter := NewInMemoryEventEmitter(logger)

		require.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(TaskCreated, "t1", domain.TaskStatusPending)))
		emitter.RegisterHandler(sequenceHandler{name: "late", log: &seen})
		require.NoError(t, emitter.EmitEvent(ctx, NewTaskEvent(TaskCreated, "t2", domain.TaskStatusPending)))

		assert.Equal(t, []string{"late:task_created:t2"}, seen)
	})

	t.Run("failing handlers do not stop delivery", func(t *testing.T) {
		var seen []string
		errBoard := errors.New("board closed")
		errText := errors.New("write failed")
		emitter := NewInMemoryEventEmitter(logger,
			sequenceHandler{name: "board", log: &seen, err: errBoard},
			sequenceHandler{name: "audit", log: &seen},
			sequenceHandler{name: "text", log: &seen, err: errText},
		)

		err := emitter.EmitEvent(ctx, NewPollFailedEvent("t1", domain.TaskStatusRunning, "timeout"))
		assert.ErrorIs(t, err, errBoard)
		assert.ErrorIs(t, err, errText)
		assert.Len(t, seen, 3)
	})
}
