package context

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/browser"
)

type stubSource struct {
	overview *browser.PageOverview
	err      error
}

func (s *stubSource) Overview() (*browser.PageOverview, error) {
	return s.overview, s.err
}

func TestManagerCurrent(t *testing.T) {
	overview := browser.BuildOverview("https://example.com/login", "Log in", []browser.OverviewElement{
		{Tag: "button", Name: "Sign in", ID: "go"},
		{Tag: "a", Name: "Forgot password?"},
	})
	m := NewManager(&stubSource{overview: overview}, 0, nil)

	snap, err := m.Current()
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenBudget, m.Budget())
	assert.Equal(t, "https://example.com/login", snap.URL)
	assert.Equal(t, "Log in", snap.Title)
	assert.Equal(t, overview.String(), snap.Overview)
	assert.False(t, snap.Truncated)
	assert.Equal(t, len(snap.Overview)/4, snap.EstimatedTokens)
	assert.Equal(t, map[string]int{"button": 1, "link": 1}, snap.Counts)
}

func TestManagerCurrentTruncates(t *testing.T) {
	var elements []browser.OverviewElement
	for i := 0; i < 200; i++ {
		elements = append(elements, browser.OverviewElement{Tag: "button", Name: fmt.Sprintf("Action %d", i)})
		elements = append(elements, browser.OverviewElement{Tag: "h2", Name: fmt.Sprintf("Section %d", i)})
	}
	m := NewManager(&stubSource{overview: browser.BuildOverview("u", "t", elements)}, 20, CharEstimator{})

	snap, err := m.Current()
	require.NoError(t, err)
	assert.True(t, snap.Truncated)
	assert.LessOrEqual(t, snap.EstimatedTokens, 20)
	assert.Contains(t, snap.Overview, "lines omitted)")
}

func TestManagerCurrentError(t *testing.T) {
	m := NewManager(&stubSource{err: errors.New("browser not started")}, 0, nil)

	_, err := m.Current()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser not started")
}

func TestSummary(t *testing.T) {
	snap := &Snapshot{
		URL:    "https://example.com/" + strings.Repeat("a", 80),
		Counts: map[string]int{"link": 4, "button": 2},
	}

	got := Summary(snap)
	url, rest, _ := strings.Cut(got, " ")
	assert.Len(t, url, 50)
	assert.True(t, strings.HasSuffix(url, "..."))
	assert.Equal(t, "button=2 link=4", rest)

	snap.URL = "https://short.example"
	snap.Truncated = true
	assert.Equal(t, "https://short.example button=2 link=4 truncated", Summary(snap))
	assert.Equal(t, "(no snapshot)", Summary(nil))
}

func TestSummaryCutsOnRuneBoundary(t *testing.T) {
	snap := &Snapshot{URL: "https://例え.jp/" + strings.Repeat("日本", 40)}

	url, _, _ := strings.Cut(Summary(snap), " ")
	assert.True(t, utf8.ValidString(url))
	assert.Equal(t, 50, utf8.RuneCountInString(url))
	assert.True(t, strings.HasSuffix(url, "..."))
}
