package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskwatch/internal/config"
	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/platform/logger"
)

type watchOptions struct {
	create int
	adopt  bool
	status string
}

// runWatch prints task progress to out until every tracked task has its
// outcome or the process is signalled. Logs go to stderr.
func runWatch(ctx context.Context, cfg *config.Config, opts watchOptions, out io.Writer) error {
	filter, err := domain.NewFilter(opts.status)
	if err != nil {
		return err
	}

	log, err := logger.SetupWithWriter(cfg.Server, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app, err := newApplication(cfg, log, out)
	if err != nil {
		return err
	}
	defer app.cleanup()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.watch(ctx, opts.create, opts.adopt, filter)
}

// watch creates count tasks, optionally adopts existing ones, and waits for
// all of them to finish polling.
func (app *application) watch(ctx context.Context, count int, adopt bool, filter domain.Filter) error {
	if adopt {
		if _, err := app.tracker.Adopt(ctx, filter); err != nil {
			return err
		}
	}

	for i := 0; i < count; i++ {
		if _, err := app.tracker.Create(ctx); err != nil {
			return err
		}
	}

	if err := app.tracker.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			app.logger.Info("watch interrupted", "tracked_tasks", app.registry.Len())
			return nil
		}
		return err
	}
	return nil
}
