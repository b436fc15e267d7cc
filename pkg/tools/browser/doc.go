// Package browser exposes browser actions to the agent as tools.
//
// Every tool wraps one primitive of a Browser (normally a *browser.Session)
// and renders its outcome as the text the model reads next turn. Expected
// failures such as a missing element or a refused URL come back as failed
// Results with a "Failed ..." or "Error: ..." message rather than as Go
// errors, so the agent can react to them.
//
// Locator arguments are checked by the selector package before they reach
// the page, and tool arguments are validated against each tool's schema by
// the tools.Registry before Execute runs.
//
// # Tool sets
//
// CoordinatorTools returns the full set used by the top-level agent. The
// delegate roles get narrower sets from NavigatorTools, FormFillerTools and
// DataReaderTools; their press_key tools come from NewRestrictedKeyTool and
// only accept the keys the role needs.
package browser

import (
	"time"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/browser"
)

// Browser is the set of browser primitives the tools drive.
type Browser interface {
	Navigate(address string, timeout time.Duration) (string, error)
	Click(locator string, timeout time.Duration) error
	Hover(locator string, timeout time.Duration) error
	TypeText(locator, text string, timeout time.Duration) error
	Scroll(direction string, amount int) error
	PressKey(key string) error
	WaitFor(locator string, timeout time.Duration) (bool, error)
	ElementDetail(locator string, maxLen int) (string, error)
	FindByText(query, role string) ([]browser.ElementCandidate, error)
	ListTabs() ([]browser.TabInfo, error)
	SwitchToTab(i int) error
	CloseTab(i int) error
	SwitchToFrame(locator string) error
	SwitchToMainContent()
	Screenshot(path string, fullPage bool) ([]byte, error)
}

// Snapshotter produces the budgeted page overview.
type Snapshotter interface {
	Current() (*agentcontext.Snapshot, error)
}

var _ Browser = (*browser.Session)(nil)
