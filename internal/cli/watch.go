package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Watcher emits the name of a lexicon list whenever it changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// WatchOptions configures RunWatch.
type WatchOptions struct {
	// Debounce collapses bursts of change events into one run.
	Debounce time.Duration
	Logger   *slog.Logger
}

// RunWatch calls run once, then again after each change reported by w, until ctx ends.
// A failing run is logged and the watcher keeps waiting for a fix.
func RunWatch(ctx context.Context, w Watcher, run func(ctx context.Context) error, opts WatchOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	runOnce := func() {
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Run failed, waiting for changes", "err", err)
		}
	}
	runOnce()

	for {
		select {
		case <-ctx.Done():
			return nil
		case list, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, re-running", "list", list)
			if opts.Debounce > 0 && !drain(ctx, events, opts.Debounce) {
				return nil
			}
			runOnce()
		}
	}
}

// drain discards events until none arrive for d. It returns false when ctx ends
// or the channel closes.
func drain(ctx context.Context, events <-chan string, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			timer.Reset(d)
		case <-timer.C:
			return true
		}
	}
}
