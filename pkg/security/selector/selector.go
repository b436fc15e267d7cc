// Package selector validates element locators before they reach the browser.
// It refuses locators that would silently act on the wrong element, such as
// comma-joined selector lists or document-wide targets.
package selector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid selector")

// Reasons reported by Validate.
const (
	ReasonEmpty       = "Selector cannot be empty"
	ReasonTooBroad    = "Selector is too broad - use a more specific selector like '.container', '#main-content' or 'nav.header'"
	ReasonComma       = "Selector contains comma outside quotes/brackets - use a single specific selector instead of multiple fragments"
	ReasonDoubleComma = "Selector contains double comma - invalid syntax"
)

// broadTargets match the whole document rather than one element.
var broadTargets = map[string]bool{
	"*":     true,
	"html":  true,
	"body":  true,
	":root": true,
}

// ValidationError describes why a locator was rejected.
type ValidationError struct {
	Locator string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Locator, e.Reason)
}

// Unwrap lets callers match ErrInvalid with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Validate checks a locator for syntactic hazards. It returns nil when the
// locator is safe to hand to the browser and a *ValidationError otherwise.
//
// Commas are allowed inside quoted strings ('a,b' or "a,b"), attribute
// brackets ([title="a,b"]) and pseudo-class arguments (:has-text("a, b")).
// Escaped quotes do not toggle quoting.
func Validate(locator string) error {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return &ValidationError{Locator: locator, Reason: ReasonEmpty}
	}

	if broadTargets[strings.ToLower(trimmed)] {
		return &ValidationError{Locator: locator, Reason: ReasonTooBroad}
	}

	if hasTopLevelComma(trimmed) {
		if strings.Contains(trimmed, ",,") {
			return &ValidationError{Locator: locator, Reason: ReasonDoubleComma}
		}
		return &ValidationError{Locator: locator, Reason: ReasonComma}
	}

	return nil
}

// hasTopLevelComma walks the locator one rune at a time tracking quote state
// and bracket depth, and reports whether a comma appears outside both. An
// unterminated quote (text=Don't) swallows the rest of the locator.
func hasTopLevelComma(s string) bool {
	var quote rune
	depth := 0
	escaped := false

	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}

		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// Check validates a locator on behalf of a tool and renders the failure as
// the message shown to the model. It returns "" for a valid locator.
func Check(locator, toolName string) string {
	err := Validate(locator)
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		return fmt.Sprintf("Error: invalid selector for %s: %v", toolName, err)
	}

	switch verr.Reason {
	case ReasonEmpty:
		return fmt.Sprintf("Error: Empty selector provided to %s. Copy the value after 'Selector:' from a find_element_by_text result, for example [data-webpilot-find-id=\"5\"].", toolName)
	case ReasonComma:
		return fmt.Sprintf("Error: Invalid selector '%s' for %s. Contains comma-separated selectors. Use a single specific selector instead. Examples: 'button.submit', 'div.container >> a', 'input[name=\"email\"]'.", locator, toolName)
	default:
		return fmt.Sprintf("Error: Invalid selector '%s' for %s. %s.", locator, toolName, verr.Reason)
	}
}
