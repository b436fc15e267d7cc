package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webpilot/pkg/logging"
)

var sessionLog *logging.Logger

func init() {
	var err error
	sessionLog, err = logging.NewLogger("browser")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		sessionLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}

// Launcher starts a persistent browser context. The returned stop function
// shuts down whatever driver backs the context.
type Launcher interface {
	Launch(ctx context.Context, opts Options) (playwright.BrowserContext, func() error, error)
}

// ProcessKiller terminates stale browser processes bound to a profile dir.
type ProcessKiller func(ctx context.Context, profileDir string)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLauncher replaces the Playwright launcher.
func WithLauncher(l Launcher) SessionOption {
	return func(s *Session) {
		s.launcher = l
	}
}

// WithProcessKiller replaces the stale process cleanup run by Start.
func WithProcessKiller(k ProcessKiller) SessionOption {
	return func(s *Session) {
		s.killer = k
	}
}

// Session is the single browser the agent controls. Its zero value is not
// usable; create one with NewSession.
type Session struct {
	mu sync.Mutex

	opts     Options
	launcher Launcher
	killer   ProcessKiller

	browserCtx playwright.BrowserContext
	stopDriver func() error
	active     playwright.Page
	frameScope string
	findSeq    int
	running    bool
}

// NewSession creates a stopped session.
func NewSession(opts Options, options ...SessionOption) *Session {
	s := &Session{
		opts:     opts.withDefaults(),
		launcher: playwrightLauncher{},
		killer:   killStaleProcesses,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Options returns the effective session options.
func (s *Session) Options() Options {
	return s.opts
}

// Running reports whether Start has succeeded and Stop has not been called.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start launches the browser. Calling it on a running session returns the
// active page without relaunching.
func (s *Session) Start(ctx context.Context) (playwright.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running && s.browserCtx != nil && s.active != nil {
		sessionLog.Infof("Browser already running, reusing existing instance")
		return s.active, nil
	}

	switch s.opts.BrowserType {
	case Chromium, Firefox, WebKit:
	default:
		return nil, fmt.Errorf("unknown browser type: %s", s.opts.BrowserType)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessionLog.Infof("Starting %s (headless=%v, profile=%s)", s.opts.BrowserType, s.opts.Headless, s.opts.ProfileDir)

	if err := os.MkdirAll(s.opts.ProfileDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	if s.killer != nil {
		s.killer(ctx, s.opts.ProfileDir)
	}

	browserCtx, stop, err := s.launcher.Launch(ctx, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	var page playwright.Page
	if pages := browserCtx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = browserCtx.NewPage()
		if err != nil {
			_ = browserCtx.Close()
			if stop != nil {
				_ = stop()
			}
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	s.browserCtx = browserCtx
	s.stopDriver = stop
	s.active = page
	s.frameScope = ""
	s.running = true

	sessionLog.Infof("Browser started successfully")
	return page, nil
}

// Stop closes the browser and resets the session. It is safe to call on a
// session that is not running.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		sessionLog.Debugf("Browser not running, nothing to stop")
		return nil
	}

	sessionLog.Infof("Stopping browser")

	var errs []error
	if s.browserCtx != nil {
		if err := s.browserCtx.Close(); err != nil {
			sessionLog.Warnf("Error closing browser context: %v", err)
			errs = append(errs, err)
		}
	}
	if s.stopDriver != nil {
		if err := s.stopDriver(); err != nil {
			sessionLog.Warnf("Error stopping playwright: %v", err)
			errs = append(errs, err)
		}
	}

	s.browserCtx = nil
	s.stopDriver = nil
	s.active = nil
	s.frameScope = ""
	s.findSeq = 0
	s.running = false

	if len(errs) > 0 {
		return fmt.Errorf("errors stopping browser: %v", errs)
	}
	return nil
}

// Page returns the active page.
func (s *Session) Page() (playwright.Page, error) {
	page, _, err := s.current()
	return page, err
}

// current returns the active page and frame scope. A page that was closed
// from outside the agent is replaced by the last remaining tab.
func (s *Session) current() (playwright.Page, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.browserCtx == nil {
		return nil, "", ErrNotStarted
	}

	pages := s.browserCtx.Pages()
	if indexOf(pages, s.active) < 0 {
		if len(pages) == 0 {
			return nil, "", fmt.Errorf("%w: no open tabs", ErrNotFound)
		}
		s.active = pages[len(pages)-1]
		s.frameScope = ""
	}
	return s.active, s.frameScope, nil
}

func (s *Session) nextFindID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findSeq++
	return s.findSeq
}

func (s *Session) timeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return s.opts.ActionTimeout
}

func indexOf(pages []playwright.Page, page playwright.Page) int {
	if page == nil {
		return -1
	}
	for i, p := range pages {
		if p == page {
			return i
		}
	}
	return -1
}

// playwrightLauncher installs the driver and launches a persistent context.
type playwrightLauncher struct{}

func (playwrightLauncher) Launch(ctx context.Context, opts Options) (playwright.BrowserContext, func() error, error) {
	// Driver output would interleave with the console UI
	runOpts := &playwright.RunOptions{
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Browsers: []string{opts.BrowserType},
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.BrowserType {
	case Firefox:
		browserType = pw.Firefox
	case WebKit:
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	browserCtx, err := browserType.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, nil, fmt.Errorf("failed to launch persistent context: %w", err)
	}

	return browserCtx, pw.Stop, nil
}

// killStaleProcesses kills browsers left running against the same profile by
// an earlier run, which would otherwise hold the profile lock. Failures are
// logged and ignored.
func killStaleProcesses(ctx context.Context, profileDir string) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		return
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(lookupCtx, "pgrep", "-f", profileDir).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches
		sessionLog.Debugf("No stale browser processes found: %v", err)
		return
	}

	self := os.Getpid()
	pids := strings.Fields(string(out))
	for _, field := range pids {
		pid, convErr := strconv.Atoi(field)
		if convErr != nil || pid == self {
			continue
		}
		killCtx, killCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := exec.CommandContext(killCtx, "kill", "-9", field).Run(); err != nil {
			sessionLog.Debugf("Could not kill process %d: %v", pid, err)
		} else {
			sessionLog.Infof("Killed stale browser process %d", pid)
		}
		killCancel()
	}
}
