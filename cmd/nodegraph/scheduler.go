package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// runScheduled calls job on every tick of the cron spec until ctx is done.
// A tick is skipped while the previous run is still going.
func runScheduled(ctx context.Context, logger *slog.Logger, spec string, job func(context.Context)) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression '%s': %w", spec, err)
	}

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := scheduler.AddFunc(spec, func() {
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule graph: %w", err)
	}

	logger.InfoContext(ctx, "Scheduler started", "schedule", spec)
	scheduler.Start()

	<-ctx.Done()

	<-scheduler.Stop().Done()
	logger.InfoContext(ctx, "Scheduler stopped")

	return nil
}
