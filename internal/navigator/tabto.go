package navigator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TabToOptions override the configured limits for a single TabTo call. Zero
// values keep the service configuration.
type TabToOptions struct {
	MaxTabs       int
	StepDelay     time.Duration
	AttachTimeout time.Duration
}

// TabTo presses Tab until the element identified by role and matcher holds
// focus, or the tab budget is exhausted. Each iteration presses Tab once,
// waits for the step delay, and re-runs the focus assertion. At most MaxTabs
// key presses are ever dispatched.
func (s *Service) TabTo(ctx context.Context, role string, matcher NameMatcher, opts TabToOptions) error {
	if role == "" {
		return fmt.Errorf("tab-to requires a role")
	}

	maxTabs := opts.MaxTabs
	if maxTabs <= 0 {
		maxTabs = s.config.MaxTabs
	}
	stepDelay := opts.StepDelay
	if stepDelay <= 0 {
		stepDelay = s.config.StepDelay
	}
	attachTimeout := opts.AttachTimeout
	if attachTimeout <= 0 {
		attachTimeout = s.config.AttachTimeout
	}

	for i := 0; i < maxTabs; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tab-to aborted after %d tabs: %w", i, err)
		}

		if err := s.page.PressTab(ctx); err != nil {
			return fmt.Errorf("tab-to failed on tab %d: %w", i+1, err)
		}

		if err := sleep(ctx, stepDelay); err != nil {
			return fmt.Errorf("tab-to aborted after %d tabs: %w", i+1, err)
		}

		err := s.assertFocused(ctx, role, matcher, attachTimeout)
		if err == nil {
			s.logger.Debug().
				Str("role", role).
				Str("name", matcher.String()).
				Int("tabs", i+1).
				Msg("Reached target element")
			return nil
		}
		if errors.Is(err, ErrTargetNotFound) {
			// The element is not on the page at all; tabbing further
			// cannot succeed.
			return fmt.Errorf("tab-to failed after %d tabs: %w", i+1, err)
		}
	}

	// Exhausted the budget: report where focus ended up.
	focused, focusErr := s.FocusedElement(ctx)
	if focusErr != nil {
		return fmt.Errorf("element with role=%q name=%s not reached after %d tabs (focused element unavailable: %v)",
			role, matcher, maxTabs, focusErr)
	}
	return fmt.Errorf("element with role=%q name=%s not reached after %d tabs; focus ended on %s",
		role, matcher, maxTabs, focused)
}
