package browser

import (
	"errors"
	"time"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/browser"
)

// stubBrowser records calls and returns canned answers.
type stubBrowser struct {
	calls []string

	err        error
	appeared   bool
	waited     time.Duration
	scrolled   int
	detail     string
	candidates []browser.ElementCandidate
	tabs       []browser.TabInfo
	shotPath   string
}

func (s *stubBrowser) record(call string) { s.calls = append(s.calls, call) }

func (s *stubBrowser) Navigate(address string, _ time.Duration) (string, error) {
	s.record("navigate:" + address)
	return "https://" + address, s.err
}

func (s *stubBrowser) Click(locator string, _ time.Duration) error {
	s.record("click:" + locator)
	return s.err
}

func (s *stubBrowser) Hover(locator string, _ time.Duration) error {
	s.record("hover:" + locator)
	return s.err
}

func (s *stubBrowser) TypeText(locator, text string, _ time.Duration) error {
	s.record("type:" + locator + "=" + text)
	return s.err
}

func (s *stubBrowser) Scroll(direction string, amount int) error {
	s.record("scroll:" + direction)
	s.scrolled = amount
	return s.err
}

func (s *stubBrowser) PressKey(key string) error {
	s.record("key:" + key)
	return s.err
}

func (s *stubBrowser) WaitFor(locator string, timeout time.Duration) (bool, error) {
	s.record("wait:" + locator)
	s.waited = timeout
	return s.appeared, s.err
}

func (s *stubBrowser) ElementDetail(locator string, _ int) (string, error) {
	s.record("detail:" + locator)
	return s.detail, s.err
}

func (s *stubBrowser) FindByText(query, role string) ([]browser.ElementCandidate, error) {
	s.record("find:" + query + "/" + role)
	return s.candidates, s.err
}

func (s *stubBrowser) ListTabs() ([]browser.TabInfo, error) {
	return s.tabs, nil
}

func (s *stubBrowser) SwitchToTab(i int) error {
	s.record("switch_tab")
	return s.err
}

func (s *stubBrowser) CloseTab(i int) error {
	s.record("close_tab")
	if len(s.tabs) <= 1 {
		return browser.ErrLastTab
	}
	return s.err
}

func (s *stubBrowser) SwitchToFrame(locator string) error {
	s.record("frame:" + locator)
	return s.err
}

func (s *stubBrowser) SwitchToMainContent() {
	s.record("main")
}

func (s *stubBrowser) Screenshot(path string, _ bool) ([]byte, error) {
	s.record("screenshot")
	s.shotPath = path
	return []byte("png"), s.err
}

type stubSnapshots struct {
	snap *agentcontext.Snapshot
	err  error
}

func (s stubSnapshots) Current() (*agentcontext.Snapshot, error) {
	return s.snap, s.err
}

var errBoom = errors.New("boom")
