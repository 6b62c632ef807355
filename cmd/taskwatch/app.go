package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskwatch/internal/config"
	"github.com/phrazzld/taskwatch/internal/events"
	"github.com/phrazzld/taskwatch/internal/platform/taskapi"
	"github.com/phrazzld/taskwatch/internal/tracker"
	"github.com/phrazzld/taskwatch/internal/view"
	"github.com/phrazzld/taskwatch/internal/worker"
)

// application holds the shared dependencies of one taskwatch process
type application struct {
	config *config.Config
	logger *slog.Logger

	client    *taskapi.Client
	emitter   *events.InMemoryEventEmitter
	board     *view.Board
	registry  *tracker.Registry
	scheduler *worker.Scheduler
	tracker   *tracker.Tracker
}

// newApplication wires the task API client, registry, views and poll
// scheduler. When out is non-nil every task event is also printed to it.
func newApplication(cfg *config.Config, logger *slog.Logger, out io.Writer) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.client, err = taskapi.NewClient(cfg.Remote.BaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task API client: %w", err)
	}

	app.board = view.NewBoard()
	app.emitter = events.NewInMemoryEventEmitter(logger, events.ViewHandler(app.board))
	if out != nil {
		app.emitter.RegisterHandler(events.ViewHandler(view.NewTextRenderer(out)))
	}

	app.registry = tracker.NewRegistry(app.emitter, logger)

	app.scheduler = worker.NewScheduler(worker.Config{
		WorkerCount: cfg.Poll.WorkerCount,
		QueueSize:   cfg.Poll.QueueSize,
	}, logger)
	app.scheduler.Start()

	app.tracker = tracker.NewTracker(app.client, app.registry, app.scheduler, tracker.Config{
		PollInterval:   cfg.Poll.Interval,
		RequestTimeout: cfg.Remote.RequestTimeout,
	}, logger)

	logger.Info("application initialized",
		"remote_url", cfg.Remote.BaseURL,
		"poll_interval", cfg.Poll.Interval,
		"workers", cfg.Poll.WorkerCount)
	return app, nil
}

// checkRemote logs whether the task server answers its health check.
func (app *application) checkRemote(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, app.config.Remote.RequestTimeout)
	defer cancel()

	if err := app.client.Health(ctx); err != nil {
		app.logger.Warn("task server health check failed", "error", err)
		return
	}
	app.logger.Info("task server is reachable")
}

// cleanup stops every poll loop, then the workers running them.
func (app *application) cleanup() {
	app.tracker.Close()
	app.scheduler.Stop()
	app.logger.Info("application cleanup completed", "failed_jobs", app.scheduler.Failed())
}
