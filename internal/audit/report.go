package audit

import (
	"time"

	"github.com/ternarybob/tabcheck/internal/a11y"
)

// FocusStep is one stop in a page's tab order.
type FocusStep struct {
	Index int    `json:"index"`
	Tag   string `json:"tag"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
}

// key identifies an element well enough for cycle detection within a page.
func (s FocusStep) key() string {
	return s.Tag + "|" + s.Role + "|" + s.Name + "|" + s.ID
}

// Report is the result of a tab-order audit of a single page.
type Report struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Steps     []FocusStep   `json:"steps"`
	Cycled    bool          `json:"cycled"`
}

// UnnamedCount returns how many focus stops had no accessible name. These
// are the elements a screen reader announces with nothing useful.
func (r *Report) UnnamedCount() int {
	count := 0
	for _, step := range r.Steps {
		if step.Name == a11y.NameFallback {
			count++
		}
	}
	return count
}
