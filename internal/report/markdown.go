// Package report renders audit reports to markdown and HTML files.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/audit"
)

// RenderMarkdown produces a GFM document summarizing a single audit report.
// Unnamed focus stops are flagged so they stand out in review.
func RenderMarkdown(r *audit.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Tab Order Audit: %s\n\n", r.URL))
	sb.WriteString(fmt.Sprintf("- **Run ID:** %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("- **Started:** %s\n", r.StartedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- **Duration:** %s\n", r.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("- **Focus stops:** %d\n", len(r.Steps)))
	sb.WriteString(fmt.Sprintf("- **Unnamed stops:** %d\n", r.UnnamedCount()))
	if r.Cycled {
		sb.WriteString("- **Tab order:** cycles back to the first element\n")
	} else {
		sb.WriteString("- **Tab order:** does not cycle (focus left the page or budget hit)\n")
	}
	sb.WriteString("\n")

	if len(r.Steps) == 0 {
		sb.WriteString("No tabbable elements were found on this page.\n")
		return sb.String()
	}

	sb.WriteString("| # | Tag | Role | Name | ID | Flags |\n")
	sb.WriteString("|---|-----|------|------|----|-------|\n")
	for _, step := range r.Steps {
		flags := ""
		if step.Name == a11y.NameFallback {
			flags = "⚠ unnamed"
		}
		sb.WriteString(fmt.Sprintf("| %d | `%s` | %s | %s | %s | %s |\n",
			step.Index+1,
			step.Tag,
			step.Role,
			escapeCell(a11y.Truncate(step.Name, a11y.DefaultNameLimit)),
			escapeCell(step.ID),
			flags,
		))
	}

	return sb.String()
}

// RenderSummaryMarkdown produces a combined document for a batch of reports.
func RenderSummaryMarkdown(reports []*audit.Report) string {
	var sb strings.Builder

	sb.WriteString("# Tab Order Audit Summary\n\n")
	sb.WriteString(fmt.Sprintf("Audited %d page(s) at %s.\n\n", len(reports), time.Now().Format(time.RFC3339)))

	sb.WriteString("| URL | Stops | Unnamed | Cycles |\n")
	sb.WriteString("|-----|-------|---------|--------|\n")
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %t |\n",
			escapeCell(r.URL), len(r.Steps), r.UnnamedCount(), r.Cycled))
	}
	sb.WriteString("\n")

	for _, r := range reports {
		sb.WriteString("---\n\n")
		sb.WriteString(RenderMarkdown(r))
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeCell keeps pipes and newlines from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
