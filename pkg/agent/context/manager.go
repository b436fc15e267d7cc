// Package context turns the live page into the bounded text the agent sees.
package context

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("context")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		debugLog.Warnf("Failed to initialize context logger, using stderr fallback: %v", err)
	}
}

// DefaultTokenBudget bounds the overview injected into the conversation.
const DefaultTokenBudget = 3000

// PageSource produces page overviews. *browser.Session satisfies it.
type PageSource interface {
	Overview() (*browser.PageOverview, error)
}

// Snapshot is the page context at one point in time.
type Snapshot struct {
	URL             string
	Title           string
	Overview        string
	EstimatedTokens int
	Truncated       bool
	Counts          map[string]int
}

// Manager builds budgeted snapshots of the active page.
type Manager struct {
	source    PageSource
	budget    int
	estimator Estimator
}

// NewManager creates a manager. A non-positive budget means
// DefaultTokenBudget and a nil estimator means CharEstimator.
func NewManager(source PageSource, budget int, est Estimator) *Manager {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	if est == nil {
		est = CharEstimator{}
	}
	return &Manager{source: source, budget: budget, estimator: est}
}

// Budget returns the token budget of an overview.
func (m *Manager) Budget() int {
	return m.budget
}

// Current captures the page overview, truncated to the budget.
func (m *Manager) Current() (*Snapshot, error) {
	overview, err := m.source.Overview()
	if err != nil {
		return nil, fmt.Errorf("failed to read page overview: %w", err)
	}

	text := overview.String()
	before := m.estimator.Estimate(text)
	text, truncated := Truncate(text, m.budget, m.estimator)
	after := m.estimator.Estimate(text)
	if truncated {
		debugLog.Warnf("Context truncated: %d tokens -> %d tokens", before, after)
	}

	snap := &Snapshot{
		URL:             overview.URL,
		Title:           overview.Title,
		Overview:        text,
		EstimatedTokens: after,
		Truncated:       truncated,
		Counts:          overview.Counts(),
	}
	debugLog.Debugf("Snapshot %s", Summary(snap))
	return snap, nil
}

// Summary renders a snapshot as one log line: the URL cut to 50 characters
// followed by element counts per role.
func Summary(snap *Snapshot) string {
	if snap == nil {
		return "(no snapshot)"
	}

	url := snap.URL
	if utf8.RuneCountInString(url) > 50 {
		url = string([]rune(url)[:47]) + "..."
	}

	roles := make([]string, 0, len(snap.Counts))
	for role := range snap.Counts {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	parts := []string{url}
	for _, role := range roles {
		parts = append(parts, fmt.Sprintf("%s=%d", role, snap.Counts[role]))
	}
	if snap.Truncated {
		parts = append(parts, "truncated")
	}
	return strings.Join(parts, " ")
}
