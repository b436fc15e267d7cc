package browser

import (
	"fmt"
)

// TabInfo describes one open tab.
type TabInfo struct {
	Index  int
	Title  string
	URL    string
	Active bool
}

// ListTabs returns every open tab in browser order.
func (s *Session) ListTabs() ([]TabInfo, error) {
	if _, _, err := s.current(); err != nil {
		return nil, &ActionError{Op: "list_tabs", Kind: KindEngine, Err: err}
	}

	s.mu.Lock()
	pages := s.browserCtx.Pages()
	active := s.active
	s.mu.Unlock()

	tabs := make([]TabInfo, 0, len(pages))
	for i, page := range pages {
		title, err := page.Title()
		if err != nil {
			title = ""
		}
		tabs = append(tabs, TabInfo{
			Index:  i,
			Title:  title,
			URL:    page.URL(),
			Active: page == active,
		})
	}
	return tabs, nil
}

// ActiveTab returns the index of the active tab.
func (s *Session) ActiveTab() (int, error) {
	if _, _, err := s.current(); err != nil {
		return -1, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.browserCtx.Pages(), s.active), nil
}

// SwitchToTab makes tab i active and leaves any frame scope.
func (s *Session) SwitchToTab(i int) error {
	if _, _, err := s.current(); err != nil {
		return &ActionError{Op: "switch_to_tab", Kind: KindEngine, Err: err}
	}

	s.mu.Lock()
	pages := s.browserCtx.Pages()
	if i < 0 || i >= len(pages) {
		s.mu.Unlock()
		return notFoundError("switch_to_tab", "", "invalid tab index %d; available tabs: 0-%d", i, len(pages)-1)
	}
	page := pages[i]
	s.active = page
	s.frameScope = ""
	s.mu.Unlock()

	if err := page.BringToFront(); err != nil {
		sessionLog.Debugf("Could not bring tab %d to front: %v", i, err)
	}
	return nil
}

// CloseTab closes tab i. The last remaining tab can never be closed. When the
// active tab is closed the next tab becomes active, or the previous one if
// it was the last.
func (s *Session) CloseTab(i int) error {
	if _, _, err := s.current(); err != nil {
		return &ActionError{Op: "close_tab", Kind: KindEngine, Err: err}
	}

	s.mu.Lock()
	pages := s.browserCtx.Pages()

	if len(pages) <= 1 {
		s.mu.Unlock()
		return &ActionError{Op: "close_tab", Kind: KindValidation, Err: fmt.Errorf("%w: at least one tab must remain open", ErrLastTab)}
	}
	if i < 0 || i >= len(pages) {
		s.mu.Unlock()
		return notFoundError("close_tab", "", "invalid tab index %d; available tabs: 0-%d", i, len(pages)-1)
	}

	victim := pages[i]
	prevActive, prevScope := s.active, s.frameScope
	var promoted bool
	if victim == s.active {
		next := i + 1
		if i == len(pages)-1 {
			next = i - 1
		}
		s.active = pages[next]
		s.frameScope = ""
		promoted = true
	}
	active := s.active
	s.mu.Unlock()

	if promoted {
		if err := active.BringToFront(); err != nil {
			sessionLog.Debugf("Could not bring tab to front: %v", err)
		}
	}

	if err := victim.Close(); err != nil {
		if promoted {
			s.mu.Lock()
			if s.active == active {
				s.active, s.frameScope = prevActive, prevScope
			}
			s.mu.Unlock()
			if err := prevActive.BringToFront(); err != nil {
				sessionLog.Debugf("Could not bring tab to front: %v", err)
			}
		}
		return wrapEngine("close_tab", "", fmt.Errorf("failed to close tab %d: %w", i, err))
	}
	return nil
}
