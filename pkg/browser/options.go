package browser

import (
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/webpilot/pkg/security/urlguard"
)

// Supported browser engines.
const (
	Chromium = "chromium"
	Firefox  = "firefox"
	WebKit   = "webkit"
)

// Default values for sessions and primitives.
const (
	DefaultActionTimeout     = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultFrameTimeout      = 5 * time.Second
	DefaultScrollAmount      = 500
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 720
	DefaultDetailLength      = 2000
	MaxFindResults           = 10
	MaxGroupItems            = 10
	MaxNameLength            = 100
)

// Viewport is the browser window size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Options configures a Session.
type Options struct {
	// BrowserType is one of Chromium, Firefox or WebKit.
	BrowserType string

	// ProfileDir holds cookies and storage between runs.
	ProfileDir string

	Headless bool
	Viewport Viewport

	// ActionTimeout bounds click, type, hover and wait primitives.
	ActionTimeout time.Duration

	// NavigationTimeout bounds Navigate.
	NavigationTimeout time.Duration

	// Policy restricts navigation beyond the built-in scheme and host checks.
	// Nil allows every public http(s) address.
	Policy *urlguard.Policy
}

// DefaultProfileDir returns ~/.webpilot/browser_data, or a temp directory
// when the home directory cannot be determined.
func DefaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "webpilot", "browser_data")
	}
	return filepath.Join(home, ".webpilot", "browser_data")
}

func (o Options) withDefaults() Options {
	if o.BrowserType == "" {
		o.BrowserType = Chromium
	}
	if o.ProfileDir == "" {
		o.ProfileDir = DefaultProfileDir()
	}
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.ActionTimeout <= 0 {
		o.ActionTimeout = DefaultActionTimeout
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	return o
}

// millis converts a duration to the float milliseconds Playwright expects.
func millis(d time.Duration) *float64 {
	ms := float64(d) / float64(time.Millisecond)
	return &ms
}
