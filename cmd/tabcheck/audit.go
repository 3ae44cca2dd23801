package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/audit"
	"github.com/ternarybob/tabcheck/internal/browser"
	"github.com/ternarybob/tabcheck/internal/common"
	"github.com/ternarybob/tabcheck/internal/report"
	storage "github.com/ternarybob/tabcheck/internal/storage/badger"
)

// runAudit audits the tab order of each URL, stores the reports, and writes
// rendered report files.
func runAudit(ctx context.Context, config *common.Config, logger arbor.ILogger, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	noStore := fs.Bool("no-store", false, "Skip persisting reports to the database")
	noReport := fs.Bool("no-report", false, "Skip writing rendered report files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	urls := fs.Args()
	if len(urls) == 0 {
		return fmt.Errorf("audit requires at least one URL")
	}

	session, err := browser.NewSession(ctx, config.Browser, logger)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	runner := audit.NewRunner(session, config.Audit, logger)
	reports, runErr := runner.RunAll(ctx, urls)

	// Persist and render whatever completed, even on partial failure.
	if len(reports) > 0 {
		if !*noStore {
			if err := storeReports(ctx, config, logger, reports); err != nil {
				return err
			}
		}
		if !*noReport {
			if err := writeReports(config, logger, reports); err != nil {
				return err
			}
		}
	}

	for _, r := range reports {
		fmt.Printf("%s  %s  stops=%d unnamed=%d cycled=%t\n",
			r.ID, r.URL, len(r.Steps), r.UnnamedCount(), r.Cycled)
	}

	return runErr
}

func storeReports(ctx context.Context, config *common.Config, logger arbor.ILogger, reports []*audit.Report) error {
	db, err := storage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer db.Close()

	reportStorage := storage.NewReportStorage(db, logger)
	for _, r := range reports {
		if err := reportStorage.Save(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func writeReports(config *common.Config, logger arbor.ILogger, reports []*audit.Report) error {
	writer := report.NewWriter(config.Report, logger)
	for _, r := range reports {
		if _, err := writer.Write(r); err != nil {
			return err
		}
	}
	if len(reports) > 1 {
		if _, err := writer.WriteSummary(reports); err != nil {
			return err
		}
	}
	return nil
}
