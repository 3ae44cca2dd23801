package navigator

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/a11y"
	"github.com/ternarybob/tabcheck/internal/common"
)

// fakePage scripts a focus order: each PressTab advances focus to the next
// element in the sequence, sticking on the last one.
type fakePage struct {
	sequence   []a11y.ElementFacts
	pos        int
	axNames    map[string][]string
	pressCount int
}

func (p *fakePage) FocusFacts(ctx context.Context) (a11y.ElementFacts, error) {
	if len(p.sequence) == 0 {
		return a11y.ElementFacts{Tag: "body"}, nil
	}
	if p.pos >= len(p.sequence) {
		return p.sequence[len(p.sequence)-1], nil
	}
	return p.sequence[p.pos], nil
}

func (p *fakePage) PressTab(ctx context.Context) error {
	p.pressCount++
	if p.pos < len(p.sequence)-1 {
		p.pos++
	}
	return nil
}

func (p *fakePage) QueryRoleNames(ctx context.Context, role, accessibleName string) ([]string, error) {
	names := p.axNames[role]
	if accessibleName == "" {
		return names, nil
	}
	var matched []string
	for _, name := range names {
		if name == accessibleName {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

func elementFacts(tag string, attrs map[string]string, text string) a11y.ElementFacts {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return a11y.ElementFacts{
		Tag:   tag,
		ID:    attrs["id"],
		Attrs: attrs,
		Text:  text,
	}
}

func testService(page Page) *Service {
	return NewService(page, common.NavigatorConfig{
		MaxTabs:       3,
		StepDelay:     time.Millisecond,
		AttachTimeout: 50 * time.Millisecond,
	}, arbor.NewLogger())
}

func TestFocusedElement_DerivesRoleAndName(t *testing.T) {
	page := &fakePage{sequence: []a11y.ElementFacts{
		elementFacts("button", map[string]string{"id": "save"}, "Save draft"),
	}}
	svc := testService(page)

	info, err := svc.FocusedElement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "button", info.Tag)
	assert.Equal(t, "button", info.Role)
	assert.Equal(t, "Save draft", info.Name)
	assert.Equal(t, "save", info.ID)
}

func TestFocusedElement_BodyFallback(t *testing.T) {
	page := &fakePage{}
	svc := testService(page)

	info, err := svc.FocusedElement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "body", info.Tag)
	assert.Equal(t, a11y.RoleGeneric, info.Role)
	assert.Equal(t, a11y.NameFallback, info.Name)
}

func TestFocusInfo_StringTruncatesName(t *testing.T) {
	info := FocusInfo{
		Tag:  "a",
		Role: "link",
		Name: "This is an extremely long link text that keeps going and going",
	}
	s := info.String()
	assert.Contains(t, s, `<a role="link"`)
	assert.Contains(t, s, "…")
	assert.Less(t, len(s), 80)
}

func TestAssertFocused_LiteralSuccess(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("button", nil, "Save"),
		},
		axNames: map[string][]string{"button": {"Save", "Cancel"}},
	}
	svc := testService(page)

	err := svc.AssertFocused(context.Background(), "button", ExactName("Save"))
	assert.NoError(t, err)
}

func TestAssertFocused_PatternSuccess(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("a", map[string]string{"href": "/item/7"}, "Item 7"),
		},
		axNames: map[string][]string{"link": {"Item 7", "Home"}},
	}
	svc := testService(page)

	err := svc.AssertFocused(context.Background(), "link", NamePattern(regexp.MustCompile(`^Item \d+$`)))
	assert.NoError(t, err)
}

func TestAssertFocused_Mismatch(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("a", map[string]string{"href": "/"}, "Home"),
		},
		axNames: map[string][]string{"button": {"Save"}},
	}
	svc := testService(page)

	err := svc.AssertFocused(context.Background(), "button", ExactName("Save"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "focus assertion failed")
	assert.Contains(t, err.Error(), `role="button"`)
	assert.Contains(t, err.Error(), `"Home"`)
}

func TestAssertFocused_TargetNeverAttaches(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{elementFacts("body", nil, "")},
		axNames:  map[string][]string{},
	}
	svc := testService(page)

	start := time.Now()
	err := svc.AssertFocused(context.Background(), "button", ExactName("Missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotFound)
	// The wait is bounded by the attach timeout
	assert.Less(t, time.Since(start), time.Second)
}

func TestAssertFocused_EmptyRole(t *testing.T) {
	svc := testService(&fakePage{})
	err := svc.AssertFocused(context.Background(), "", ExactName("Save"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a role")
}

func TestAssertFocused_UnnamedSentinel(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("input", map[string]string{"type": "text"}, ""),
		},
		axNames: map[string][]string{"textbox": {""}},
	}
	svc := testService(page)

	err := svc.AssertFocused(context.Background(), "textbox", ExactName(a11y.NameFallback))
	assert.NoError(t, err)
}

func TestTabTo_ReachesTarget(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("body", nil, ""),
			elementFacts("a", map[string]string{"href": "/"}, "Home"),
			elementFacts("button", nil, "Save"),
		},
		axNames: map[string][]string{
			"link":   {"Home"},
			"button": {"Save"},
		},
	}
	svc := testService(page)

	err := svc.TabTo(context.Background(), "button", ExactName("Save"), TabToOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.pressCount)
}

func TestTabTo_ExhaustsBudget(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("body", nil, ""),
			elementFacts("a", map[string]string{"href": "/a"}, "First link"),
			elementFacts("a", map[string]string{"href": "/b"}, "Second link"),
		},
		// Target exists on the page but never receives focus
		axNames: map[string][]string{
			"button": {"Save"},
			"link":   {"First link", "Second link"},
		},
	}
	svc := testService(page)

	err := svc.TabTo(context.Background(), "button", ExactName("Save"), TabToOptions{})
	require.Error(t, err)
	// Bounded termination: exactly MaxTabs presses
	assert.Equal(t, 3, page.pressCount)
	assert.Contains(t, err.Error(), "not reached after 3 tabs")
	assert.Contains(t, err.Error(), "Second link")
}

func TestTabTo_TargetNotOnPage(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{elementFacts("body", nil, "")},
		axNames:  map[string][]string{},
	}
	svc := testService(page)

	err := svc.TabTo(context.Background(), "button", ExactName("Ghost"), TabToOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetNotFound)
	// The loop stops as soon as the target is known to be absent
	assert.Equal(t, 1, page.pressCount)
}

func TestTabTo_ContextCancelled(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{elementFacts("body", nil, "")},
		axNames:  map[string][]string{"button": {"Save"}},
	}
	svc := testService(page)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.TabTo(ctx, "button", ExactName("Save"), TabToOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, page.pressCount)
}

func TestTabTo_OptionsOverrideConfig(t *testing.T) {
	page := &fakePage{
		sequence: []a11y.ElementFacts{
			elementFacts("body", nil, ""),
			elementFacts("a", map[string]string{"href": "/a"}, "Only link"),
		},
		axNames: map[string][]string{
			"button": {"Save"},
			"link":   {"Only link"},
		},
	}
	svc := testService(page)

	err := svc.TabTo(context.Background(), "button", ExactName("Save"), TabToOptions{MaxTabs: 1})
	require.Error(t, err)
	assert.Equal(t, 1, page.pressCount)
}

func TestLogFocus_DoesNotPanic(t *testing.T) {
	page := &fakePage{sequence: []a11y.ElementFacts{
		elementFacts("button", nil, "Save"),
	}}
	svc := testService(page)
	svc.LogFocus(context.Background())
}
