package browser

import (
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webpilot/pkg/security/selector"
)

// SwitchToFrame scopes later actions to the iframe matched by locator. The
// iframe must be attached within DefaultFrameTimeout.
func (s *Session) SwitchToFrame(locator string) error {
	if err := selector.Validate(locator); err != nil {
		return validationError("switch_to_frame", locator, ErrInvalidSelector, err)
	}

	page, _, err := s.current()
	if err != nil {
		return &ActionError{Op: "switch_to_frame", Locator: locator, Kind: KindEngine, Err: err}
	}

	err = page.Locator(locator).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(DefaultFrameTimeout),
	})
	if err != nil {
		if IsTimeout(err) {
			return notFoundError("switch_to_frame", locator, "iframe not found on page")
		}
		return wrapEngine("switch_to_frame", locator, err)
	}

	s.mu.Lock()
	s.frameScope = locator
	s.mu.Unlock()
	return nil
}

// SwitchToMainContent leaves any frame scope.
func (s *Session) SwitchToMainContent() {
	s.mu.Lock()
	s.frameScope = ""
	s.mu.Unlock()
}

// FrameScope returns the iframe locator actions are scoped to, or "".
func (s *Session) FrameScope() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameScope
}
