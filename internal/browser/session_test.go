package browser

import (
	"testing"

	"github.com/chromedp/cdproto/accessibility"
	"github.com/stretchr/testify/assert"
)

func TestAxValueString(t *testing.T) {
	assert.Equal(t, "", axValueString(nil))
	assert.Equal(t, "", axValueString(&accessibility.Value{}))

	// Node names arrive as JSON-encoded string payloads
	assert.Equal(t, "Save draft", axValueString(&accessibility.Value{
		Value: []byte(`"Save draft"`),
	}))

	// Non-string payloads decode to empty rather than erroring
	assert.Equal(t, "", axValueString(&accessibility.Value{
		Value: []byte(`42`),
	}))
}
