package a11y

import (
	"strings"
)

// RoleGeneric is reported for elements with no explicit or implicit role.
const RoleGeneric = "generic"

// implicitRoles maps tag names to their implicit ARIA role. Tags whose role
// depends on attributes (a, input) are handled separately in Role.
var implicitRoles = map[string]string{
	"article":  "article",
	"aside":    "complementary",
	"body":     "generic",
	"button":   "button",
	"datalist": "listbox",
	"dd":       "definition",
	"dialog":   "dialog",
	"dt":       "term",
	"fieldset": "group",
	"figure":   "figure",
	"footer":   "contentinfo",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"header":   "banner",
	"hr":       "separator",
	"img":      "img",
	"li":       "listitem",
	"main":     "main",
	"menu":     "list",
	"nav":      "navigation",
	"ol":       "list",
	"option":   "option",
	"output":   "status",
	"progress": "progressbar",
	"search":   "search",
	"section":  "region",
	"select":   "combobox",
	"summary":  "button",
	"table":    "table",
	"tbody":    "rowgroup",
	"td":       "cell",
	"textarea": "textbox",
	"tfoot":    "rowgroup",
	"th":       "columnheader",
	"thead":    "rowgroup",
	"tr":       "row",
	"ul":       "list",
}

// inputRoles maps input type values to roles. The default (missing or
// unknown type) is textbox.
var inputRoles = map[string]string{
	"button":   "button",
	"checkbox": "checkbox",
	"email":    "textbox",
	"image":    "button",
	"number":   "spinbutton",
	"password": "textbox",
	"radio":    "radio",
	"range":    "slider",
	"reset":    "button",
	"search":   "searchbox",
	"submit":   "button",
	"tel":      "textbox",
	"text":     "textbox",
	"url":      "textbox",
}

// Role computes the accessible role for an element. An explicit role
// attribute wins; otherwise the implicit role for the tag applies.
func Role(facts ElementFacts) string {
	if explicit, ok := facts.Attr("role"); ok {
		// A role attribute may list fallback roles; the first token is used.
		if fields := strings.Fields(explicit); len(fields) > 0 {
			return strings.ToLower(fields[0])
		}
	}

	tag := strings.ToLower(facts.Tag)
	switch tag {
	case "a", "area":
		if _, ok := facts.Attr("href"); ok {
			return "link"
		}
		return RoleGeneric
	case "input":
		inputType, _ := facts.Attr("type")
		if role, ok := inputRoles[strings.ToLower(inputType)]; ok {
			return role
		}
		return "textbox"
	case "select":
		// A select with size > 1 or multiple renders as a listbox.
		if _, ok := facts.Attr("multiple"); ok {
			return "listbox"
		}
		if size, ok := facts.Attr("size"); ok && size != "" && size != "0" && size != "1" {
			return "listbox"
		}
		return "combobox"
	}

	if role, ok := implicitRoles[tag]; ok {
		return role
	}
	return RoleGeneric
}
