package browser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFor(t *testing.T) {
	tests := []struct {
		tag, inputType, explicit string
		want                     string
	}{
		{tag: "a", want: "link"},
		{tag: "input", inputType: "checkbox", want: "checkbox"},
		{tag: "input", inputType: "radio", want: "radio"},
		{tag: "input", inputType: "email", want: "textbox"},
		{tag: "input", want: "textbox"},
		{tag: "h2", want: "heading"},
		{tag: "select", want: "combobox"},
		{tag: "textarea", want: "textbox"},
		{tag: "button", want: "button"},
		{tag: "div", explicit: "menuitem", want: "menuitem"},
		{tag: "a", explicit: "Button", want: "button"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s/%s", tt.tag, tt.inputType, tt.explicit), func(t *testing.T) {
			assert.Equal(t, tt.want, roleFor(tt.tag, tt.inputType, tt.explicit))
		})
	}
}

func TestOverviewString(t *testing.T) {
	elements := []OverviewElement{
		{Tag: "button", Name: "Sign in", ID: "login", Classes: "btn primary wide"},
		{Tag: "a", Name: "Docs"},
		{Tag: "input", Type: "text", Name: "Search", Value: "golang", Classes: "search"},
		{Tag: "button", Name: "Register"},
	}

	o := BuildOverview("https://example.com", "Example", elements)
	want := strings.Join([]string{
		"URL: https://example.com",
		"Title: Example",
		"",
		"Interactive Elements:",
		"",
		"BUTTONS:",
		"  - Sign in (button#login.btn.primary)",
		"  - Register (button)",
		"",
		"LINKS:",
		"  - Docs (a)",
		"",
		"TEXTBOXS:",
		"  - Search (value: golang) (input.search)",
	}, "\n")

	assert.Equal(t, want, o.String())
	assert.Equal(t, map[string]int{"button": 2, "link": 1, "textbox": 1}, o.Counts())
}

func TestOverviewCapsGroups(t *testing.T) {
	var elements []OverviewElement
	for i := 0; i < 13; i++ {
		elements = append(elements, OverviewElement{Tag: "a", Name: fmt.Sprintf("Link %d", i)})
	}

	out := BuildOverview("u", "t", elements).String()
	assert.Contains(t, out, "  - Link 9 (a)")
	assert.NotContains(t, out, "Link 10")
	assert.True(t, strings.HasSuffix(out, "  ... and 3 more"))
}

func TestBuildOverviewTruncatesNames(t *testing.T) {
	long := strings.Repeat("é", 150)
	o := BuildOverview("u", "t", []OverviewElement{
		{Tag: "h1", Name: "  " + long + "  "},
		{Tag: "a", Name: "   "},
	})

	require.Len(t, o.Groups, 1)
	assert.Equal(t, "heading", o.Groups[0].Role)
	assert.Equal(t, strings.Repeat("é", MaxNameLength), o.Groups[0].Elements[0].Name)
}

func TestSessionOverviewUsesProbe(t *testing.T) {
	s, fc := startedSession(t, "home")
	page := fc.pages[0]
	page.evalFn = func(expr string, arg interface{}) (interface{}, error) {
		require.Equal(t, overviewScript, expr)
		return []interface{}{
			map[string]interface{}{"tag": "button", "type": "", "role": "", "name": "Go", "value": "", "id": "go", "classes": ""},
			map[string]interface{}{"tag": "a", "type": "", "role": "", "name": "Home", "value": "", "id": "", "classes": "nav"},
		}, nil
	}

	o, err := s.Overview()
	require.NoError(t, err)
	assert.False(t, o.Static)
	assert.Equal(t, "https://example.com/home", o.URL)
	assert.Equal(t, "home", o.Title)
	assert.Contains(t, o.String(), "  - Go (button#go)")
	assert.Contains(t, o.String(), "  - Home (a.nav)")
}

func TestSessionOverviewFallsBackToStaticParse(t *testing.T) {
	s, fc := startedSession(t, "home")
	page := fc.pages[0]
	page.evalErr = errors.New("Execution context was destroyed")
	page.content = `<html><body>
		<button class="primary">Buy now</button>
		<button style="display: none">Hidden</button>
		<input type="hidden" name="csrf" value="abc">
		<input name="q" placeholder="Search products">
	</body></html>`

	o, err := s.Overview()
	require.NoError(t, err)
	assert.True(t, o.Static)

	out := o.String()
	assert.Contains(t, out, "  - Buy now (button.primary)")
	assert.Contains(t, out, "  - Search products (input)")
	assert.NotContains(t, out, "Hidden")
	assert.NotContains(t, out, "csrf")
}
