// Package audit walks the full Tab cycle of a page and records the focus
// order, producing reports that can be stored and rendered.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/common"
	"github.com/ternarybob/tabcheck/internal/navigator"
)

// Browser is the subset of the browser session the audit runner needs.
type Browser interface {
	navigator.Page

	// Navigate loads url and waits for the page to settle.
	Navigate(ctx context.Context, url string) error
}

// Runner executes tab-order audits.
type Runner struct {
	browser Browser
	config  common.AuditConfig
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewRunner creates an audit runner. A RatePerSecond of 0 disables pacing.
func NewRunner(browser Browser, config common.AuditConfig, logger arbor.ILogger) *Runner {
	if config.MaxSteps <= 0 {
		config.MaxSteps = 100
	}
	if config.StepDelay <= 0 {
		config.StepDelay = 100 * time.Millisecond
	}

	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), 1)
	}

	return &Runner{
		browser: browser,
		config:  config,
		limiter: limiter,
		logger:  logger,
	}
}

// Run audits a single page: navigate, then press Tab repeatedly, recording
// each focused element until the focus order cycles back to its first
// element, focus stops moving, or the step budget is exhausted.
func (r *Runner) Run(ctx context.Context, url string) (*Report, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("audit pacing interrupted: %w", err)
		}
	}

	r.logger.Info().Str("url", url).Int("max_steps", r.config.MaxSteps).Msg("Starting tab-order audit")

	if err := r.browser.Navigate(ctx, url); err != nil {
		return nil, err
	}

	report := &Report{
		ID:        common.NewRunID(),
		URL:       url,
		StartedAt: time.Now(),
	}

	var firstKey, prevKey string
	for i := 0; i < r.config.MaxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("audit aborted after %d steps: %w", i, err)
		}

		if err := r.browser.PressTab(ctx); err != nil {
			return nil, fmt.Errorf("audit failed on step %d: %w", i+1, err)
		}
		if err := sleep(ctx, r.config.StepDelay); err != nil {
			return nil, fmt.Errorf("audit aborted after %d steps: %w", i+1, err)
		}

		facts, err := r.browser.FocusFacts(ctx)
		if err != nil {
			return nil, fmt.Errorf("audit failed to inspect focus on step %d: %w", i+1, err)
		}

		step := FocusStep{
			Index: len(report.Steps),
			Tag:   facts.Tag,
			Role:  a11y.Role(facts),
			Name:  a11y.Name(facts),
			ID:    facts.ID,
		}
		key := step.key()

		// Focus left the tab order (back on body) or stopped moving.
		if step.Tag == "body" || key == prevKey {
			break
		}
		// Focus wrapped around to the first tabbable element.
		if firstKey != "" && key == firstKey {
			report.Cycled = true
			break
		}

		report.Steps = append(report.Steps, step)
		if firstKey == "" {
			firstKey = key
		}
		prevKey = key
	}

	report.Duration = time.Since(report.StartedAt)

	r.logger.Info().
		Str("run_id", report.ID).
		Str("url", url).
		Int("steps", len(report.Steps)).
		Bool("cycled", report.Cycled).
		Int("unnamed", report.UnnamedCount()).
		Dur("duration", report.Duration).
		Msg("Tab-order audit complete")

	return report, nil
}

// RunAll audits each URL in order, pacing runs with the configured rate
// limiter. It returns the reports collected before the first failure.
func (r *Runner) RunAll(ctx context.Context, urls []string) ([]*Report, error) {
	reports := make([]*Report, 0, len(urls))
	for _, url := range urls {
		report, err := r.Run(ctx, url)
		if err != nil {
			return reports, fmt.Errorf("audit of %s failed: %w", url, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
