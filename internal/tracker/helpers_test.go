package tracker_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/phrazzld/taskwatch/internal/events"
	"github.com/phrazzld/taskwatch/internal/mocks"
	"github.com/phrazzld/taskwatch/internal/testutils"
	"github.com/phrazzld/taskwatch/internal/tracker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventRecorder captures every event the registry emits
type eventRecorder struct {
	mu     sync.Mutex
	events []*events.TaskEvent
}

func (r *eventRecorder) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// forTask returns "type:status" entries for one task, in emission order
func (r *eventRecorder) forTask(taskID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		if e.TaskID != taskID {
			continue
		}
		entry := string(e.Type) + ":" + string(e.Status)
		if e.Outcome != nil {
			entry += ":" + e.Outcome.Text()
		}
		out = append(out, entry)
	}
	return out
}

type harness struct {
	api       *mocks.MockTaskAPI
	scheduler *testutils.ManualScheduler
	recorder  *eventRecorder
	logs      *testutils.LogCapture
	registry  *tracker.Registry
	tracker   *tracker.Tracker
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logs, logger := testutils.NewLogCapture()
	emitter := events.NewInMemoryEventEmitter(logger)
	recorder := &eventRecorder{}
	emitter.RegisterHandler(recorder)

	api := &mocks.MockTaskAPI{}
	scheduler := testutils.NewManualScheduler()
	registry := tracker.NewRegistry(emitter, logger)

	h := &harness{
		api:       api,
		scheduler: scheduler,
		recorder:  recorder,
		logs:      logs,
		registry:  registry,
		tracker:   tracker.NewTracker(api, registry, scheduler, tracker.DefaultConfig(), logger),
	}
	t.Cleanup(func() { api.AssertExpectations(t) })
	return h
}
