package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webpilot/pkg/security/selector"
)

// supportedKeys is the full set of keys PressKey forwards to the page.
var supportedKeys = map[string]bool{
	"Enter":      true,
	"Escape":     true,
	"Tab":        true,
	"Space":      true,
	"ArrowUp":    true,
	"ArrowDown":  true,
	"ArrowLeft":  true,
	"ArrowRight": true,
	"Backspace":  true,
	"Delete":     true,
	"Home":       true,
	"End":        true,
	"PageUp":     true,
	"PageDown":   true,
}

// SupportedKeys returns the keys accepted by PressKey in sorted order.
func SupportedKeys() []string {
	keys := make([]string, 0, len(supportedKeys))
	for k := range supportedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scroll directions.
const (
	ScrollDown     = "down"
	ScrollUp       = "up"
	ScrollPageDown = "page_down"
	ScrollPageUp   = "page_up"
	ScrollBottom   = "bottom"
	ScrollTop      = "top"
)

// ScrollDirections lists the accepted Scroll directions.
var ScrollDirections = []string{ScrollDown, ScrollUp, ScrollPageDown, ScrollPageUp, ScrollBottom, ScrollTop}

// locate resolves locator against the page or the frame scope. Only the first
// match is used so that an ambiguous locator never trips strict mode.
func locate(page playwright.Page, frame, locator string) playwright.Locator {
	if frame == "" {
		return page.Locator(locator).First()
	}
	return page.FrameLocator(frame).Locator(locator).First()
}

// target validates locator and resolves it in the current scope.
func (s *Session) target(op, locator string) (playwright.Locator, error) {
	if err := selector.Validate(locator); err != nil {
		return nil, validationError(op, locator, ErrInvalidSelector, err)
	}
	page, frame, err := s.current()
	if err != nil {
		return nil, &ActionError{Op: op, Locator: locator, Kind: KindEngine, Err: err}
	}
	return locate(page, frame, locator), nil
}

// evaluate runs fn, a one-argument arrow function, in the current scope.
func evaluate(page playwright.Page, frame, fn string, arg interface{}) (interface{}, error) {
	if frame == "" {
		return page.Evaluate(fn, arg)
	}
	root := locate(page, frame, ":root")
	return root.Evaluate("(root, arg) => ("+fn+")(arg)", arg)
}

// Click clicks the element, escalating through a forced click and a script
// click when the standard click fails.
func (s *Session) Click(locator string, timeout time.Duration) error {
	loc, err := s.target("click", locator)
	if err != nil {
		return err
	}
	ms := millis(s.timeout(timeout))

	normalErr := loc.Click(playwright.LocatorClickOptions{Timeout: ms})
	if normalErr == nil {
		return nil
	}
	sessionLog.Debugf("Standard click on %s failed, forcing: %v", locator, normalErr)

	forceErr := loc.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateAttached, Timeout: ms})
	if forceErr == nil {
		forceErr = loc.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true), Timeout: ms})
	}
	if forceErr == nil {
		return nil
	}
	sessionLog.Debugf("Forced click on %s failed, using script click: %v", locator, forceErr)

	scriptErr := loc.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateAttached, Timeout: ms})
	if scriptErr == nil {
		_, scriptErr = loc.Evaluate("el => el.click()", nil)
	}
	if scriptErr == nil {
		return nil
	}

	cause := fmt.Errorf("all click attempts failed (normal: %v; force: %v; script: %v)", normalErr, forceErr, scriptErr)
	if IsTimeout(normalErr) || IsTimeout(forceErr) || IsTimeout(scriptErr) {
		return &ActionError{Op: "click", Locator: locator, Kind: KindTimeout, Err: fmt.Errorf("%w: %w", ErrTimeout, cause)}
	}
	return &ActionError{Op: "click", Locator: locator, Kind: KindEngine, Err: cause}
}

// TypeText waits for the element to be visible and replaces its value.
func (s *Session) TypeText(locator, text string, timeout time.Duration) error {
	loc, err := s.target("type_text", locator)
	if err != nil {
		return err
	}
	ms := millis(s.timeout(timeout))

	if err := loc.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible, Timeout: ms}); err != nil {
		return wrapEngine("type_text", locator, err)
	}
	if err := loc.Fill(text, playwright.LocatorFillOptions{Timeout: ms}); err != nil {
		return wrapEngine("type_text", locator, err)
	}
	return nil
}

// Hover waits for the element to be visible and moves the pointer over it.
func (s *Session) Hover(locator string, timeout time.Duration) error {
	loc, err := s.target("hover", locator)
	if err != nil {
		return err
	}
	ms := millis(s.timeout(timeout))

	if err := loc.WaitFor(playwright.LocatorWaitForOptions{State: playwright.WaitForSelectorStateVisible, Timeout: ms}); err != nil {
		return wrapEngine("hover", locator, err)
	}
	if err := loc.Hover(playwright.LocatorHoverOptions{Timeout: ms}); err != nil {
		return wrapEngine("hover", locator, err)
	}
	return nil
}

// WaitFor waits for the element to become visible. A timeout is reported as
// false with a nil error.
func (s *Session) WaitFor(locator string, timeout time.Duration) (bool, error) {
	loc, err := s.target("wait_for_element", locator)
	if err != nil {
		return false, err
	}

	err = loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(s.timeout(timeout)),
	})
	if err == nil {
		return true, nil
	}
	if IsTimeout(err) {
		return false, nil
	}
	return false, wrapEngine("wait_for_element", locator, err)
}

// PressKey presses one of SupportedKeys on the active page.
func (s *Session) PressKey(key string) error {
	if !supportedKeys[key] {
		return validationError("press_key", "", ErrInvalidKey,
			fmt.Errorf("%q is not supported; supported keys: %s", key, strings.Join(SupportedKeys(), ", ")))
	}

	page, _, err := s.current()
	if err != nil {
		return &ActionError{Op: "press_key", Kind: KindEngine, Err: err}
	}
	if err := page.Keyboard().Press(key); err != nil {
		return wrapEngine("press_key", "", err)
	}
	return nil
}

// Scroll moves the viewport. Amount applies to up and down and defaults to
// DefaultScrollAmount.
func (s *Session) Scroll(direction string, amount int) error {
	if amount <= 0 {
		amount = DefaultScrollAmount
	}

	page, frame, err := s.current()
	if err != nil {
		return &ActionError{Op: "scroll", Kind: KindEngine, Err: err}
	}

	switch direction {
	case ScrollDown:
		_, err = evaluate(page, frame, "(dy) => window.scrollBy(0, dy)", amount)
	case ScrollUp:
		_, err = evaluate(page, frame, "(dy) => window.scrollBy(0, -dy)", amount)
	case ScrollPageDown:
		err = page.Keyboard().Press("PageDown")
	case ScrollPageUp:
		err = page.Keyboard().Press("PageUp")
	case ScrollBottom:
		_, err = evaluate(page, frame, "() => window.scrollTo(0, document.body ? document.body.scrollHeight : 0)", nil)
	case ScrollTop:
		_, err = evaluate(page, frame, "() => window.scrollTo(0, 0)", nil)
	default:
		return validationError("scroll", "", ErrInvalidDirection,
			fmt.Errorf("%q; use one of %s", direction, strings.Join(ScrollDirections, ", ")))
	}

	return wrapEngine("scroll", "", err)
}

// Screenshot captures the active page. When path is non-empty the image is
// also written there.
func (s *Session) Screenshot(path string, fullPage bool) ([]byte, error) {
	page, _, err := s.current()
	if err != nil {
		return nil, &ActionError{Op: "screenshot", Kind: KindEngine, Err: err}
	}

	opts := playwright.PageScreenshotOptions{FullPage: playwright.Bool(fullPage)}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
		}
		opts.Path = playwright.String(path)
	}

	data, err := page.Screenshot(opts)
	if err != nil {
		return nil, wrapEngine("screenshot", "", err)
	}
	return data, nil
}
