package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		locator    string
		wantReason string
	}{
		{name: "simple class", locator: "button.submit"},
		{name: "id", locator: "#login-btn"},
		{name: "find marker", locator: `[data-webpilot-find-id="5"]`},
		{name: "chained", locator: "div.container >> a"},
		{name: "comma in double quotes", locator: `button:has-text("Save, continue")`},
		{name: "comma in single quotes", locator: `a:has-text('Jobs, internships')`},
		{name: "comma in attribute brackets", locator: `input[placeholder=City,State]`},
		{name: "comma in parens", locator: `li:nth-child(2n+1,odd)`},
		{name: "escaped quote keeps quoting", locator: `text="say \"hi, there\""`},
		{name: "escaped comma", locator: `#a\,b`},
		{name: "nested brackets and quotes", locator: `div[title="a,[b]"] >> span:has-text('c,d')`},
		{name: "apostrophe in text selector", locator: `text=Don't have an account, sign up`},
		{name: "empty", locator: "", wantReason: ReasonEmpty},
		{name: "whitespace", locator: "   \t", wantReason: ReasonEmpty},
		{name: "wildcard", locator: "*", wantReason: ReasonTooBroad},
		{name: "body", locator: " BODY ", wantReason: ReasonTooBroad},
		{name: "html", locator: "html", wantReason: ReasonTooBroad},
		{name: "selector list", locator: "input, button", wantReason: ReasonComma},
		{name: "comma after quoted part", locator: `a:has-text("x,y"), b`, wantReason: ReasonComma},
		{name: "comma after bracket closes", locator: `input[name="q"],button`, wantReason: ReasonComma},
		{name: "escaped quote does not close", locator: `text="a\"", b`, wantReason: ReasonComma},
		{name: "double comma", locator: "a,,b", wantReason: ReasonDoubleComma},
		{name: "chain mixed with comma", locator: "iframe >> a, b", wantReason: ReasonComma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.locator)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantReason, verr.Reason)
			assert.Equal(t, tt.locator, verr.Locator)
		})
	}
}

// Every comma hidden behind quotes or brackets passes, and adding one bare
// comma at the top level always fails.
func TestValidateCommaInterleavings(t *testing.T) {
	safe := []string{
		`a[title="1,2"]`,
		`a:has-text('1,2')`,
		`a:is(.x,.y)`,
		`a[data-x='[1,2]']`,
		`a:has([title="p,q"])`,
	}

	for _, s := range safe {
		t.Run(s, func(t *testing.T) {
			assert.NoError(t, Validate(s))
			assert.Error(t, Validate(s+", b"))
			assert.Error(t, Validate("b ,"+s))
		})
	}
}

func TestCheck(t *testing.T) {
	assert.Empty(t, Check("button.primary", "click"))

	msg := Check("", "click")
	assert.Contains(t, msg, "Error: Empty selector provided to click")

	msg = Check("a, b", "hover")
	assert.Contains(t, msg, "Error: Invalid selector 'a, b' for hover")
	assert.Contains(t, msg, "comma-separated")

	msg = Check("body", "get_element_details")
	assert.Contains(t, msg, "too broad")
}
