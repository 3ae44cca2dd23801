package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/common"
)

// fakeBrowser cycles focus through a fixed tab order, starting at body.
type fakeBrowser struct {
	order      []a11y.ElementFacts
	pos        int // -1 = body, before any Tab press
	navigated  []string
	pressCount int
}

func newFakeBrowser(order ...a11y.ElementFacts) *fakeBrowser {
	return &fakeBrowser{order: order, pos: -1}
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.navigated = append(b.navigated, url)
	b.pos = -1
	return nil
}

func (b *fakeBrowser) FocusFacts(ctx context.Context) (a11y.ElementFacts, error) {
	if b.pos < 0 || len(b.order) == 0 {
		return a11y.ElementFacts{Tag: "body"}, nil
	}
	return b.order[b.pos%len(b.order)], nil
}

func (b *fakeBrowser) PressTab(ctx context.Context) error {
	b.pressCount++
	b.pos++
	return nil
}

func (b *fakeBrowser) QueryRoleNames(ctx context.Context, role, accessibleName string) ([]string, error) {
	return nil, nil
}

func link(name, href string) a11y.ElementFacts {
	return a11y.ElementFacts{
		Tag:   "a",
		Attrs: map[string]string{"href": href},
		Text:  name,
	}
}

func unnamedInput(id string) a11y.ElementFacts {
	return a11y.ElementFacts{
		Tag:   "input",
		ID:    id,
		Attrs: map[string]string{"type": "text", "id": id},
	}
}

func auditConfig(maxSteps int) common.AuditConfig {
	return common.AuditConfig{
		MaxSteps:  maxSteps,
		StepDelay: time.Millisecond,
	}
}

func TestRun_RecordsFocusOrderAndCycles(t *testing.T) {
	browser := newFakeBrowser(
		link("Home", "/"),
		link("Docs", "/docs"),
		unnamedInput("search"),
	)
	runner := NewRunner(browser, auditConfig(20), arbor.NewLogger())

	report, err := runner.Run(context.Background(), "http://example.test/")
	require.NoError(t, err)

	assert.Equal(t, []string{"http://example.test/"}, browser.navigated)
	assert.True(t, report.Cycled)
	require.Len(t, report.Steps, 3)
	assert.Equal(t, "link", report.Steps[0].Role)
	assert.Equal(t, "Home", report.Steps[0].Name)
	assert.Equal(t, "textbox", report.Steps[2].Role)
	assert.Equal(t, a11y.NameFallback, report.Steps[2].Name)
	assert.Equal(t, 1, report.UnnamedCount())
	assert.Contains(t, report.ID, "run_")
}

func TestRun_BoundedByMaxSteps(t *testing.T) {
	// 5 distinct elements but only 3 steps allowed
	browser := newFakeBrowser(
		link("A", "/a"), link("B", "/b"), link("C", "/c"), link("D", "/d"), link("E", "/e"),
	)
	runner := NewRunner(browser, auditConfig(3), arbor.NewLogger())

	report, err := runner.Run(context.Background(), "http://example.test/")
	require.NoError(t, err)

	assert.Equal(t, 3, browser.pressCount)
	assert.Len(t, report.Steps, 3)
	assert.False(t, report.Cycled)
}

func TestRun_EmptyTabOrder(t *testing.T) {
	// No tabbable elements: focus stays on body
	browser := newFakeBrowser()
	runner := NewRunner(browser, auditConfig(10), arbor.NewLogger())

	report, err := runner.Run(context.Background(), "http://example.test/")
	require.NoError(t, err)
	assert.Empty(t, report.Steps)
	assert.False(t, report.Cycled)
	assert.Equal(t, 1, browser.pressCount)
}

func TestRun_ContextCancelled(t *testing.T) {
	browser := newFakeBrowser(link("Home", "/"))
	runner := NewRunner(browser, auditConfig(10), arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, "http://example.test/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll_AuditsEveryURL(t *testing.T) {
	browser := newFakeBrowser(link("Home", "/"), link("Docs", "/docs"))
	runner := NewRunner(browser, auditConfig(10), arbor.NewLogger())

	reports, err := runner.RunAll(context.Background(), []string{
		"http://example.test/a",
		"http://example.test/b",
	})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "http://example.test/a", reports[0].URL)
	assert.Equal(t, "http://example.test/b", reports[1].URL)
}

func TestNewRunner_Defaults(t *testing.T) {
	runner := NewRunner(newFakeBrowser(), common.AuditConfig{}, arbor.NewLogger())
	assert.Equal(t, 100, runner.config.MaxSteps)
	assert.Greater(t, runner.config.StepDelay, time.Duration(0))
	assert.Nil(t, runner.limiter)
}

func TestNewRunner_RateLimiter(t *testing.T) {
	runner := NewRunner(newFakeBrowser(), common.AuditConfig{
		MaxSteps:      10,
		StepDelay:     time.Millisecond,
		RatePerSecond: 2,
	}, arbor.NewLogger())
	assert.NotNil(t, runner.limiter)
}
