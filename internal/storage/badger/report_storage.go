package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/tabcheck/internal/audit"
)

// ReportStorage persists audit reports keyed by run ID.
type ReportStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReportStorage creates a new ReportStorage instance
func NewReportStorage(db *BadgerDB, logger arbor.ILogger) *ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

// Save stores an audit report
func (s *ReportStorage) Save(ctx context.Context, report *audit.Report) error {
	if report.ID == "" {
		return fmt.Errorf("report has no ID")
	}

	if err := s.db.Store().Upsert(report.ID, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug().
		Str("run_id", report.ID).
		Str("url", report.URL).
		Int("steps", len(report.Steps)).
		Msg("Audit report saved")

	return nil
}

// GetByID retrieves a report by its run ID
func (s *ReportStorage) GetByID(ctx context.Context, id string) (*audit.Report, error) {
	var report audit.Report
	err := s.db.Store().Get(id, &report)
	if err == badgerhold.ErrNotFound {
		return nil, fmt.Errorf("report %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// List returns reports ordered newest first, optionally limited
func (s *ReportStorage) List(ctx context.Context, limit int) ([]*audit.Report, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reports []*audit.Report
	if err := s.db.Store().Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ListByURL returns reports for a single URL ordered newest first
func (s *ReportStorage) ListByURL(ctx context.Context, url string, limit int) ([]*audit.Report, error) {
	query := badgerhold.Where("URL").Eq(url).SortBy("StartedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reports []*audit.Report
	if err := s.db.Store().Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports for %s: %w", url, err)
	}
	return reports, nil
}

// DeleteOlderThan removes reports started before the cutoff and returns how
// many were deleted
func (s *ReportStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	count, err := s.db.Store().Count(&audit.Report{}, badgerhold.Where("StartedAt").Lt(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to count old reports: %w", err)
	}

	if err := s.db.Store().DeleteMatching(&audit.Report{}, badgerhold.Where("StartedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to delete old reports: %w", err)
	}

	if count > 0 {
		s.logger.Info().
			Int("deleted", int(count)).
			Str("cutoff", cutoff.Format(time.RFC3339)).
			Msg("Pruned old audit reports")
	}

	return int(count), nil
}

// Count returns the total number of stored reports
func (s *ReportStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&audit.Report{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return int(count), nil
}
