package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/audit"
	"github.com/ternarybob/tabcheck/internal/common"
)

// Writer saves rendered reports to the configured output directory.
type Writer struct {
	config common.ReportConfig
	logger arbor.ILogger
}

// NewWriter creates a report writer
func NewWriter(config common.ReportConfig, logger arbor.ILogger) *Writer {
	if config.OutputDir == "" {
		config.OutputDir = "reports"
	}
	if len(config.Formats) == 0 {
		config.Formats = []string{"markdown"}
	}
	return &Writer{config: config, logger: logger}
}

// Write renders a single report in every configured format and returns the
// paths of the files written.
func (w *Writer) Write(r *audit.Report) ([]string, error) {
	if err := os.MkdirAll(w.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	markdown := RenderMarkdown(r)

	var paths []string
	for _, format := range w.config.Formats {
		path, err := w.writeFormat(r.ID, markdown, "Tab Order Audit: "+r.URL, format)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	w.logger.Info().
		Str("run_id", r.ID).
		Strs("files", paths).
		Msg("Audit report written")

	return paths, nil
}

// WriteSummary renders a combined report for a batch of audits.
func (w *Writer) WriteSummary(reports []*audit.Report) ([]string, error) {
	if err := os.MkdirAll(w.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	markdown := RenderSummaryMarkdown(reports)

	var paths []string
	for _, format := range w.config.Formats {
		path, err := w.writeFormat("summary", markdown, "Tab Order Audit Summary", format)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFormat(baseName, markdown, title, format string) (string, error) {
	// Formats are validated case-insensitively, so match that here.
	switch strings.ToLower(format) {
	case "markdown":
		path := filepath.Join(w.config.OutputDir, baseName+".md")
		if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
			return "", fmt.Errorf("failed to write markdown report: %w", err)
		}
		return path, nil
	case "html":
		rendered, err := RenderHTML(markdown, title)
		if err != nil {
			return "", err
		}
		path := filepath.Join(w.config.OutputDir, baseName+".html")
		if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
			return "", fmt.Errorf("failed to write HTML report: %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}
