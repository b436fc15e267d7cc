package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webpilot/pkg/security/urlguard"
)

// Navigate loads address in the active tab after checking it against the
// navigation guard and the session policy. Addresses without a scheme get
// https://. The frame scope is cleared because the old document is gone.
func (s *Session) Navigate(address string, timeout time.Duration) (string, error) {
	if err := s.opts.Policy.Check(address); err != nil {
		return "", validationError("navigate", address, ErrUnsafeURL, err)
	}

	page, _, err := s.current()
	if err != nil {
		return "", &ActionError{Op: "navigate", Locator: address, Kind: KindEngine, Err: err}
	}

	if timeout <= 0 {
		timeout = s.opts.NavigationTimeout
	}
	target := urlguard.Normalize(address)

	sessionLog.Infof("Navigating to %s", target)
	if _, err := page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(timeout),
	}); err != nil {
		return "", wrapEngine("navigate", target, err)
	}

	s.mu.Lock()
	if s.active == page {
		s.frameScope = ""
	}
	s.mu.Unlock()

	return page.URL(), nil
}

// PageInfo returns the URL and title of the active tab.
func (s *Session) PageInfo() (url, title string, err error) {
	page, _, err := s.current()
	if err != nil {
		return "", "", err
	}
	title, err = page.Title()
	if err != nil {
		return page.URL(), "", wrapEngine("title", "", err)
	}
	return page.URL(), title, nil
}
