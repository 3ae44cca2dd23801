package a11y

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFixture parses an HTML fixture and returns facts for the first match
// of selector.
func parseFixture(t *testing.T, html, selector string) ElementFacts {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	facts, ok := FactsFromSelection(doc, doc.Find(selector).First())
	require.True(t, ok, "selector %q matched nothing", selector)
	return facts
}

func TestRole_ExplicitAttributeWins(t *testing.T) {
	facts := parseFixture(t, `<div role="button">Go</div>`, "div")
	assert.Equal(t, "button", Role(facts))
}

func TestRole_ExplicitAttributeFirstTokenUsed(t *testing.T) {
	// A role attribute may carry fallback roles
	facts := parseFixture(t, `<div role="switch checkbox">On</div>`, "div")
	assert.Equal(t, "switch", Role(facts))
}

func TestRole_ExplicitAttributeEmptyFallsThrough(t *testing.T) {
	facts := parseFixture(t, `<button role="  ">Go</button>`, "button")
	assert.Equal(t, "button", Role(facts))
}

func TestRole_AnchorWithHref(t *testing.T) {
	facts := parseFixture(t, `<a href="/home">Home</a>`, "a")
	assert.Equal(t, "link", Role(facts))
}

func TestRole_AnchorWithoutHref(t *testing.T) {
	facts := parseFixture(t, `<a>placeholder</a>`, "a")
	assert.Equal(t, RoleGeneric, Role(facts))
}

func TestRole_InputTypes(t *testing.T) {
	tests := []struct {
		html     string
		expected string
	}{
		{`<input type="text">`, "textbox"},
		{`<input>`, "textbox"},
		{`<input type="UNKNOWN">`, "textbox"},
		{`<input type="search">`, "searchbox"},
		{`<input type="checkbox">`, "checkbox"},
		{`<input type="radio">`, "radio"},
		{`<input type="range">`, "slider"},
		{`<input type="number">`, "spinbutton"},
		{`<input type="submit">`, "button"},
		{`<input type="reset">`, "button"},
		{`<input type="image">`, "button"},
	}

	for _, tt := range tests {
		facts := parseFixture(t, tt.html, "input")
		assert.Equal(t, tt.expected, Role(facts), "fixture: %s", tt.html)
	}
}

func TestRole_SelectVariants(t *testing.T) {
	assert.Equal(t, "combobox", Role(parseFixture(t, `<select><option>A</option></select>`, "select")))
	assert.Equal(t, "listbox", Role(parseFixture(t, `<select multiple><option>A</option></select>`, "select")))
	assert.Equal(t, "listbox", Role(parseFixture(t, `<select size="4"><option>A</option></select>`, "select")))
	assert.Equal(t, "combobox", Role(parseFixture(t, `<select size="1"><option>A</option></select>`, "select")))
}

func TestRole_ImplicitTable(t *testing.T) {
	tests := []struct {
		html     string
		selector string
		expected string
	}{
		{`<button>Go</button>`, "button", "button"},
		{`<textarea></textarea>`, "textarea", "textbox"},
		{`<h1>Title</h1>`, "h1", "heading"},
		{`<h4>Title</h4>`, "h4", "heading"},
		{`<nav></nav>`, "nav", "navigation"},
		{`<main></main>`, "main", "main"},
		{`<header></header>`, "header", "banner"},
		{`<footer></footer>`, "footer", "contentinfo"},
		{`<form></form>`, "form", "form"},
		{`<img src="x.png">`, "img", "img"},
		{`<table></table>`, "table", "table"},
		{`<ul><li>x</li></ul>`, "ul", "list"},
		{`<ul><li>x</li></ul>`, "li", "listitem"},
		{`<dialog>Hi</dialog>`, "dialog", "dialog"},
		{`<details><summary>More</summary></details>`, "summary", "button"},
		{`<progress></progress>`, "progress", "progressbar"},
		{`<section></section>`, "section", "region"},
	}

	for _, tt := range tests {
		facts := parseFixture(t, tt.html, tt.selector)
		assert.Equal(t, tt.expected, Role(facts), "fixture: %s", tt.html)
	}
}

func TestRole_UnknownTagIsGeneric(t *testing.T) {
	assert.Equal(t, RoleGeneric, Role(parseFixture(t, `<div>text</div>`, "div")))
	assert.Equal(t, RoleGeneric, Role(parseFixture(t, `<span>text</span>`, "span")))
}
