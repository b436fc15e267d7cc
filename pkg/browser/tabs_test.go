package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTabs(t *testing.T) {
	s, _ := startedSession(t, "one", "two")

	tabs, err := s.ListTabs()
	require.NoError(t, err)
	assert.Equal(t, []TabInfo{
		{Index: 0, Title: "one", URL: "https://example.com/one", Active: true},
		{Index: 1, Title: "two", URL: "https://example.com/two", Active: false},
	}, tabs)
}

func TestSwitchToTab(t *testing.T) {
	s, fc := startedSession(t, "one", "two")
	require.NoError(t, s.SwitchToFrame("iframe#checkout"))

	require.NoError(t, s.SwitchToTab(1))

	active, err := s.ActiveTab()
	require.NoError(t, err)
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, fc.pages[1].fronted)
	assert.Empty(t, s.FrameScope(), "switching tabs leaves the frame")

	err = s.SwitchToTab(2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "available tabs: 0-1")

	err = s.SwitchToTab(-1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseTabRefusesSoleTab(t *testing.T) {
	s, fc := startedSession(t, "only")

	for _, index := range []int{0, 5, -1} {
		err := s.CloseTab(index)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLastTab, "the sole-tab check runs before index validation")

		var actionErr *ActionError
		require.True(t, errors.As(err, &actionErr))
		assert.Equal(t, KindValidation, actionErr.Kind)
	}

	assert.Len(t, fc.pages, 1)
	assert.False(t, fc.pages[0].closed)
}

func TestCloseTabInvalidIndex(t *testing.T) {
	s, fc := startedSession(t, "one", "two")

	err := s.CloseTab(2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, fc.pages, 2)
}

func TestCloseActiveTabPromotesNeighbour(t *testing.T) {
	tests := []struct {
		name       string
		active     int
		close      int
		wantActive string
	}{
		{name: "first tab promotes next", active: 0, close: 0, wantActive: "b"},
		{name: "middle tab promotes next", active: 1, close: 1, wantActive: "c"},
		{name: "last tab promotes previous", active: 2, close: 2, wantActive: "b"},
		{name: "inactive tab keeps active", active: 0, close: 2, wantActive: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fc := startedSession(t, "a", "b", "c")
			require.NoError(t, s.SwitchToTab(tt.active))
			victim := fc.pages[tt.close]

			require.NoError(t, s.CloseTab(tt.close))

			assert.True(t, victim.closed)
			assert.Len(t, fc.pages, 2)

			page, err := s.Page()
			require.NoError(t, err)
			title, _ := page.Title()
			assert.Equal(t, tt.wantActive, title)
		})
	}
}

func TestCloseTabFailureKeepsActiveTab(t *testing.T) {
	s, fc := startedSession(t, "a", "b")
	require.NoError(t, s.SwitchToFrame("iframe#pay"))
	fc.pages[0].closeErr = errEngine

	err := s.CloseTab(0)
	require.Error(t, err)

	active, err := s.ActiveTab()
	require.NoError(t, err)
	assert.Equal(t, 0, active)
	assert.Equal(t, "iframe#pay", s.FrameScope())
	assert.False(t, fc.pages[0].closed)
	assert.Len(t, fc.pages, 2)
}

func TestFrameScope(t *testing.T) {
	s, fc := startedSession(t, "home")

	require.NoError(t, s.SwitchToFrame("iframe#pay"))
	assert.Equal(t, "iframe#pay", s.FrameScope())
	assert.Equal(t, []string{"wait:attached"}, fc.pages[0].locators["iframe#pay"].calls)

	s.SwitchToMainContent()
	assert.Empty(t, s.FrameScope())

	fc.pages[0].Locator("iframe#gone").(*fakeLocator).waitErr = timeoutErr
	err := s.SwitchToFrame("iframe#gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.FrameScope())

	err = s.SwitchToFrame("iframe, frame")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestNavigateClearsFrameScope(t *testing.T) {
	s, _ := startedSession(t, "home")
	require.NoError(t, s.SwitchToFrame("iframe#pay"))

	_, err := s.Navigate("https://example.com/next", 0)
	require.NoError(t, err)
	assert.Empty(t, s.FrameScope())
}
