// Package navigator implements keyboard-navigation checks against a live
// browser page: focus inspection, focus assertion, and tab-to-element.
package navigator

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/common"
)

// Page is the browser surface the navigator drives. *browser.Session
// implements it; tests substitute a scripted fake.
type Page interface {
	// FocusFacts returns raw facts about the currently focused element.
	FocusFacts(ctx context.Context) (a11y.ElementFacts, error)

	// PressTab dispatches a single Tab key press.
	PressTab(ctx context.Context) error

	// QueryRoleNames returns the accessible names of elements matching the
	// given role, optionally narrowed by accessible name.
	QueryRoleNames(ctx context.Context, role, accessibleName string) ([]string, error)
}

// FocusInfo describes the element that currently holds focus.
type FocusInfo struct {
	Tag  string
	Role string
	Name string
	ID   string
}

// String renders the diagnostic form used in errors and logs. The name is
// truncated so long link texts do not flood the output.
func (f FocusInfo) String() string {
	return fmt.Sprintf("<%s role=%q name=%q>", f.Tag, f.Role, a11y.Truncate(f.Name, a11y.DefaultNameLimit))
}

// Service exposes the keyboard-navigation helpers over a Page.
type Service struct {
	page   Page
	config common.NavigatorConfig
	logger arbor.ILogger
}

// NewService creates a navigator service. Zero values in config fall back to
// the package defaults.
func NewService(page Page, config common.NavigatorConfig, logger arbor.ILogger) *Service {
	if config.MaxTabs <= 0 {
		config.MaxTabs = 30
	}
	if config.StepDelay <= 0 {
		config.StepDelay = 150 * time.Millisecond
	}
	if config.AttachTimeout <= 0 {
		config.AttachTimeout = 2 * time.Second
	}
	return &Service{
		page:   page,
		config: config,
		logger: logger,
	}
}

// FocusedElement reports the currently focused element with its computed
// accessible role and name.
func (s *Service) FocusedElement(ctx context.Context) (FocusInfo, error) {
	facts, err := s.page.FocusFacts(ctx)
	if err != nil {
		return FocusInfo{}, err
	}
	return FocusInfo{
		Tag:  facts.Tag,
		Role: a11y.Role(facts),
		Name: a11y.Name(facts),
		ID:   facts.ID,
	}, nil
}

// LogFocus logs the currently focused element for debugging. Inspection
// errors are logged rather than returned so a failed log line never sinks a
// test run.
func (s *Service) LogFocus(ctx context.Context) {
	info, err := s.FocusedElement(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not inspect focused element")
		return
	}
	s.logger.Info().
		Str("tag", info.Tag).
		Str("role", info.Role).
		Str("name", a11y.Truncate(info.Name, a11y.DefaultNameLimit)).
		Msg("Currently focused element")
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
