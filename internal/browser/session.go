// Package browser manages the Chrome instances that tabcheck drives
// through chromedp.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/accessibility"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/common"
)

// focusScript extracts raw facts about document.activeElement. Role and name
// derivation happens in Go (internal/a11y) so the rules stay testable.
const focusScript = `
(() => {
	const el = document.activeElement || document.body;
	const attrs = {};
	for (const a of el.attributes) {
		attrs[a.name.toLowerCase()] = a.value;
	}
	let labelledByText = '';
	const ref = el.getAttribute('aria-labelledby');
	if (ref) {
		const parts = [];
		for (const id of ref.split(/\s+/)) {
			const target = document.getElementById(id);
			if (target) {
				const text = (target.textContent || '').trim().replace(/\s+/g, ' ');
				if (text) parts.push(text);
			}
		}
		labelledByText = parts.join(' ');
	}
	return {
		tag: el.tagName.toLowerCase(),
		id: el.id || '',
		attrs: attrs,
		text: (el.textContent || '').trim().replace(/\s+/g, ' '),
		labelledByText: labelledByText
	};
})()`

// Session owns a single Chrome instance and exposes the primitives the
// navigator and audit layers need.
type Session struct {
	ctx           context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	logger        arbor.ILogger
	settleWait    time.Duration
	axEnabled     bool
}

// NewSession launches a Chrome instance with the configured flags and
// verifies it responds before returning.
func NewSession(parent context.Context, config common.BrowserConfig, logger arbor.ILogger) (*Session, error) {
	if parent == nil {
		parent = context.Background()
	}

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.DisableGPU),
		chromedp.Flag("no-sandbox", config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
		chromedp.UserAgent(config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:           browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		logger:        logger,
		settleWait:    config.SettleWait,
	}

	// Startup test: the browser must navigate and answer a Title query
	// before we hand it out.
	startupTimeout := config.StartupTimeout
	if startupTimeout <= 0 {
		startupTimeout = 30 * time.Second
	}
	testCtx, testCancel := context.WithTimeout(browserCtx, startupTimeout)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser failed startup test: %w", err)
	}
	var title string
	if err := chromedp.Run(testCtx, chromedp.Title(&title)); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser failed responsiveness test: %w", err)
	}

	logger.Debug().
		Bool("headless", config.Headless).
		Str("user_agent", config.UserAgent).
		Msg("Browser session started")

	return s, nil
}

// Context returns the chromedp browser context for direct chromedp.Run use.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Navigate loads url and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if s.settleWait > 0 {
		if err := s.run(ctx, chromedp.Sleep(s.settleWait)); err != nil {
			return fmt.Errorf("page did not settle at %s: %w", url, err)
		}
	}
	return nil
}

// FocusFacts reads the raw facts about the currently focused element.
func (s *Session) FocusFacts(ctx context.Context) (a11y.ElementFacts, error) {
	var facts a11y.ElementFacts
	if err := s.run(ctx, chromedp.Evaluate(focusScript, &facts)); err != nil {
		return a11y.ElementFacts{}, fmt.Errorf("failed to inspect focused element: %w", err)
	}
	return facts, nil
}

// PressTab dispatches a Tab key press to the page.
func (s *Session) PressTab(ctx context.Context) error {
	if err := s.run(ctx, chromedp.KeyEvent(kb.Tab)); err != nil {
		return fmt.Errorf("failed to dispatch Tab key: %w", err)
	}
	return nil
}

// QueryRoleNames queries the browser's accessibility tree for nodes with the
// given role, optionally narrowed by accessible name, and returns the
// accessible names of the matches. An empty accessibleName matches any name.
func (s *Session) QueryRoleNames(ctx context.Context, role, accessibleName string) ([]string, error) {
	var names []string
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if !s.axEnabled {
			if err := accessibility.Enable().Do(ctx); err != nil {
				return fmt.Errorf("failed to enable accessibility domain: %w", err)
			}
			s.axEnabled = true
		}

		params := accessibility.QueryAXTree().WithRole(role)
		if accessibleName != "" {
			params = params.WithAccessibleName(accessibleName)
		}
		nodes, err := params.Do(ctx)
		if err != nil {
			return fmt.Errorf("accessibility tree query failed: %w", err)
		}

		for _, node := range nodes {
			if node == nil || node.Ignored {
				continue
			}
			names = append(names, axValueString(node.Name))
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Close shuts down the browser instance.
func (s *Session) Close() {
	if err := chromedp.Cancel(s.ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Browser cancel returned error")
	}
	s.browserCancel()
	s.allocCancel()
}

// run executes chromedp actions against the session's browser target while
// honoring the caller's cancellation and deadline.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if ctx == nil {
		return chromedp.Run(s.ctx, actions...)
	}
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		// Surface the caller's context error over the derived one.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// axValueString extracts the string payload from an AX value.
func axValueString(v *accessibility.Value) string {
	if v == nil || len(v.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v.Value, &s); err != nil {
		return ""
	}
	return s
}
