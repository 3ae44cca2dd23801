package navigator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/tabcheck/internal/a11y"
)

// ErrTargetNotFound is returned when the asserted element never attaches to
// the document within the attach timeout.
var ErrTargetNotFound = errors.New("target not found")

// attachPollInterval is how often AssertFocused re-queries the accessibility
// tree while waiting for the target element to attach.
const attachPollInterval = 100 * time.Millisecond

// AssertFocused verifies that the element identified by role and name matcher
// currently holds focus. It first waits (bounded by the configured attach
// timeout) for such an element to exist in the accessibility tree, then
// compares the focused element's computed role and name.
func (s *Service) AssertFocused(ctx context.Context, role string, matcher NameMatcher) error {
	return s.assertFocused(ctx, role, matcher, s.config.AttachTimeout)
}

func (s *Service) assertFocused(ctx context.Context, role string, matcher NameMatcher, attachTimeout time.Duration) error {
	if role == "" {
		return fmt.Errorf("focus assertion requires a role")
	}

	if err := s.waitForTarget(ctx, role, matcher, attachTimeout); err != nil {
		return err
	}

	focused, err := s.FocusedElement(ctx)
	if err != nil {
		return err
	}

	if focused.Role != role || !matcher.Match(focused.Name) {
		return fmt.Errorf("focus assertion failed: expected role=%q name=%s, but focused element is %s",
			role, matcher, focused)
	}

	return nil
}

// waitForTarget polls the accessibility tree until an element with the given
// role and matching name attaches, or the attach timeout elapses.
func (s *Service) waitForTarget(ctx context.Context, role string, matcher NameMatcher, attachTimeout time.Duration) error {
	deadline := time.Now().Add(attachTimeout)

	for {
		found, err := s.targetExists(ctx, role, matcher)
		if err != nil {
			return err
		}
		if found {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: no element with role=%q name=%s attached within %v",
				ErrTargetNotFound, role, matcher, attachTimeout)
		}

		if err := sleep(ctx, attachPollInterval); err != nil {
			return err
		}
	}
}

// targetExists queries the accessibility tree for the target element. Literal
// names use the tree's built-in accessible-name matching; patterns query by
// role and filter the returned names.
func (s *Service) targetExists(ctx context.Context, role string, matcher NameMatcher) (bool, error) {
	if literal, ok := matcher.Literal(); ok && literal != a11y.NameFallback {
		names, err := s.page.QueryRoleNames(ctx, role, literal)
		if err != nil {
			return false, err
		}
		return len(names) > 0, nil
	}

	// Pattern matchers and the unnamed sentinel cannot use the tree's
	// accessible-name matching: query by role and filter here.
	if literal, ok := matcher.Literal(); ok && literal == a11y.NameFallback {
		names, err := s.page.QueryRoleNames(ctx, role, "")
		if err != nil {
			return false, err
		}
		for _, name := range names {
			if name == "" || name == a11y.NameFallback {
				return true, nil
			}
		}
		return false, nil
	}

	names, err := s.page.QueryRoleNames(ctx, role, "")
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if matcher.Match(name) {
			return true, nil
		}
	}
	return false, nil
}
