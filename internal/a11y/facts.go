// Package a11y derives accessible roles and names from raw element facts.
// The same derivation rules are applied to elements inspected in a live
// browser and to synthetic DOM fixtures parsed with goquery, so the logic
// can be tested without driving Chrome.
package a11y

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NameFallback is reported when no accessible name source yields text.
const NameFallback = "(unnamed)"

// DefaultNameLimit caps accessible names in diagnostic output.
const DefaultNameLimit = 40

// ElementFacts holds the raw facts about a DOM element that role and name
// derivation operate on. Attrs keys are lowercase attribute names.
type ElementFacts struct {
	Tag            string            `json:"tag"`
	ID             string            `json:"id"`
	Attrs          map[string]string `json:"attrs"`
	Text           string            `json:"text"`
	LabelledByText string            `json:"labelledByText"`
}

// Attr returns the named attribute value and whether it is present.
func (f ElementFacts) Attr(name string) (string, bool) {
	v, ok := f.Attrs[strings.ToLower(name)]
	return v, ok
}

// FactsFromSelection builds ElementFacts for the first node of sel,
// resolving aria-labelledby references against doc. Returns false when the
// selection is empty.
func FactsFromSelection(doc *goquery.Document, sel *goquery.Selection) (ElementFacts, bool) {
	if sel == nil || sel.Length() == 0 {
		return ElementFacts{}, false
	}

	node := sel.Nodes[0]
	attrs := make(map[string]string, len(node.Attr))
	for _, a := range node.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	facts := ElementFacts{
		Tag:   strings.ToLower(node.Data),
		ID:    attrs["id"],
		Attrs: attrs,
		Text:  NormalizeText(sel.Text()),
	}

	if labelledBy, ok := attrs["aria-labelledby"]; ok {
		facts.LabelledByText = resolveLabelledBy(doc, labelledBy)
	}

	return facts, true
}

// resolveLabelledBy concatenates the trimmed text of each element referenced
// by an aria-labelledby attribute, in the order the IDs appear.
func resolveLabelledBy(doc *goquery.Document, labelledBy string) string {
	var parts []string
	for _, id := range strings.Fields(labelledBy) {
		ref := doc.Find("#" + id)
		if ref.Length() == 0 {
			continue
		}
		if text := NormalizeText(ref.First().Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeText trims s and collapses internal whitespace runs to a single
// space, matching how browsers flatten text content for accessible names.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most limit runes, appending an ellipsis when
// text was removed. Used for diagnostic output only.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		limit = DefaultNameLimit
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
