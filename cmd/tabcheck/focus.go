package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/browser"
	"github.com/ternarybob/tabcheck/internal/common"
	"github.com/ternarybob/tabcheck/internal/navigator"
)

// focusFlags are shared by the assert and tabto commands.
type focusFlags struct {
	url     string
	role    string
	name    string
	pattern string
}

func (f *focusFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.url, "url", "", "Page URL to open")
	fs.StringVar(&f.role, "role", "", "Expected accessible role (e.g. \"button\", \"link\")")
	fs.StringVar(&f.name, "name", "", "Expected accessible name (exact match)")
	fs.StringVar(&f.pattern, "pattern", "", "Expected accessible name as a regular expression (overrides -name)")
}

func (f *focusFlags) matcher() (navigator.NameMatcher, error) {
	if f.pattern != "" {
		re, err := regexp.Compile(f.pattern)
		if err != nil {
			return navigator.NameMatcher{}, fmt.Errorf("invalid name pattern: %w", err)
		}
		return navigator.NamePattern(re), nil
	}
	// Computed names are never empty (unnamed elements get a sentinel), so
	// an empty exact matcher could never succeed.
	if strings.TrimSpace(f.name) == "" {
		return navigator.NameMatcher{}, fmt.Errorf("one of -name or -pattern is required")
	}
	return navigator.ExactName(f.name), nil
}

// openNavigator starts a browser session, navigates to the URL, and wraps the
// session in a navigator service.
func openNavigator(ctx context.Context, config *common.Config, logger arbor.ILogger, url string) (*navigator.Service, *browser.Session, error) {
	if url == "" {
		return nil, nil, fmt.Errorf("-url is required")
	}

	session, err := browser.NewSession(ctx, config.Browser, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}

	if err := session.Navigate(ctx, url); err != nil {
		session.Close()
		return nil, nil, err
	}

	return navigator.NewService(session, config.Navigator, logger), session, nil
}

// runAssert reports which element holds focus after the page loads, and
// optionally verifies it against an expected role and name.
func runAssert(ctx context.Context, config *common.Config, logger arbor.ILogger, args []string) error {
	fs := flag.NewFlagSet("assert", flag.ContinueOnError)
	var flags focusFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	nav, session, err := openNavigator(ctx, config, logger, flags.url)
	if err != nil {
		return err
	}
	defer session.Close()

	focused, err := nav.FocusedElement(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("focused: %s\n", focused)

	if flags.role == "" {
		return nil
	}

	matcher, err := flags.matcher()
	if err != nil {
		return err
	}
	return nav.AssertFocused(ctx, flags.role, matcher)
}

// runTabTo presses Tab until the target element holds focus.
func runTabTo(ctx context.Context, config *common.Config, logger arbor.ILogger, args []string) error {
	fs := flag.NewFlagSet("tabto", flag.ContinueOnError)
	var flags focusFlags
	flags.register(fs)
	maxTabs := fs.Int("max-tabs", 0, "Max Tab presses before giving up (0 = use config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	matcher, err := flags.matcher()
	if err != nil {
		return err
	}

	nav, session, err := openNavigator(ctx, config, logger, flags.url)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := nav.TabTo(ctx, flags.role, matcher, navigator.TabToOptions{MaxTabs: *maxTabs}); err != nil {
		return err
	}

	fmt.Printf("reached: role=%s name=%s\n", flags.role, matcher)
	return nil
}
