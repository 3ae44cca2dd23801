package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/audit"
	"github.com/ternarybob/tabcheck/internal/browser"
	"github.com/ternarybob/tabcheck/internal/common"
	"github.com/ternarybob/tabcheck/internal/scheduler"
)

// runWatch audits the configured URLs on a cron schedule until interrupted.
func runWatch(ctx context.Context, config *common.Config, logger arbor.ILogger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	expression := fs.String("schedule", "", "Cron expression (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scheduleConfig := config.Schedule
	if *expression != "" {
		scheduleConfig.Expression = *expression
	}
	if urls := fs.Args(); len(urls) > 0 {
		scheduleConfig.URLs = urls
	}
	if len(scheduleConfig.URLs) == 0 {
		return fmt.Errorf("watch requires URLs (via [schedule] config or arguments)")
	}
	if scheduleConfig.Expression == "" {
		return fmt.Errorf("watch requires a cron expression (via [schedule] config or -schedule)")
	}

	// One browser pool shared across all scheduled runs.
	pool, err := browser.NewPool(ctx, config.Browser, logger)
	if err != nil {
		return fmt.Errorf("failed to start browser pool: %w", err)
	}
	defer pool.Shutdown()

	handler := func() error {
		session, err := pool.Get()
		if err != nil {
			return err
		}
		runner := audit.NewRunner(session, config.Audit, logger)
		reports, err := runner.RunAll(ctx, scheduleConfig.URLs)
		if err != nil {
			return err
		}
		if err := storeReports(ctx, config, logger, reports); err != nil {
			return err
		}
		return writeReports(config, logger, reports)
	}

	svc := scheduler.NewService(scheduleConfig, handler, logger)
	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	logger.Info().
		Str("schedule", scheduleConfig.Expression).
		Strs("urls", scheduleConfig.URLs).
		Msg("Watch mode running - Press Ctrl+C to stop")

	<-ctx.Done()
	logger.Info().Msg("Interrupt received, stopping watch mode")
	return nil
}
