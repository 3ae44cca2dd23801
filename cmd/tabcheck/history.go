package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/audit"
	"github.com/ternarybob/tabcheck/internal/common"
	"github.com/ternarybob/tabcheck/internal/report"
	storage "github.com/ternarybob/tabcheck/internal/storage/badger"
)

// runHistory lists stored audit reports, shows a single report, or prunes
// old reports.
func runHistory(ctx context.Context, config *common.Config, logger arbor.ILogger, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	url := fs.String("url", "", "Only show reports for this URL")
	limit := fs.Int("limit", 20, "Max reports to list")
	show := fs.String("show", "", "Print one report (by run ID) as markdown")
	asJSON := fs.Bool("json", false, "Print the report named by -show as JSON instead of markdown")
	prune := fs.Duration("prune", 0, "Delete reports older than this duration (e.g. 720h)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := storage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}
	defer db.Close()

	reportStorage := storage.NewReportStorage(db, logger)

	if *prune > 0 {
		deleted, err := reportStorage.DeleteOlderThan(ctx, time.Now().Add(-*prune))
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d report(s)\n", deleted)
		return nil
	}

	if *show != "" {
		r, err := reportStorage.GetByID(ctx, *show)
		if err != nil {
			return err
		}
		if *asJSON {
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode report: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Print(report.RenderMarkdown(r))
		return nil
	}

	list, err := listReports(ctx, reportStorage, *url, *limit)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("no reports stored")
		return nil
	}

	for _, r := range list {
		fmt.Printf("%s  %s  %s  stops=%d unnamed=%d cycled=%t\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.URL,
			len(r.Steps),
			r.UnnamedCount(),
			r.Cycled)
	}
	return nil
}

func listReports(ctx context.Context, reportStorage *storage.ReportStorage, url string, limit int) ([]*audit.Report, error) {
	if url != "" {
		return reportStorage.ListByURL(ctx, url, limit)
	}
	return reportStorage.List(ctx, limit)
}
