package a11y

import (
	"strings"
)

// Name computes the accessible name for an element using the precedence:
// aria-labelledby text, aria-label, text content, title attribute,
// placeholder attribute. When every source is empty the NameFallback
// sentinel is returned so diagnostics always have something to print.
func Name(facts ElementFacts) string {
	if text := NormalizeText(facts.LabelledByText); text != "" {
		return text
	}

	if label, ok := facts.Attr("aria-label"); ok {
		if text := NormalizeText(label); text != "" {
			return text
		}
	}

	// Text content of form controls is their value, not a label.
	if !isValueControl(facts.Tag) {
		if text := NormalizeText(facts.Text); text != "" {
			return text
		}
	}

	if title, ok := facts.Attr("title"); ok {
		if text := NormalizeText(title); text != "" {
			return text
		}
	}

	if placeholder, ok := facts.Attr("placeholder"); ok {
		if text := NormalizeText(placeholder); text != "" {
			return text
		}
	}

	return NameFallback
}

func isValueControl(tag string) bool {
	switch strings.ToLower(tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}
