package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticOverview(t *testing.T) {
	page := `<html><body>
		<nav aria-hidden="true"><a href="/skip">Skip</a></nav>
		<h1>Welcome</h1>
		<a href="/docs" id="docs">Read the docs</a>
		<input type="checkbox" aria-label="Remember me">
		<select name="lang"><option>Go</option></select>
		<div role="button" class="chip">Filter</div>
		<textarea placeholder="Message"></textarea>
		<button hidden>Secret</button>
		<script>document.write("<button>Injected</button>")</script>
	</body></html>`

	elements, err := StaticOverview(page)
	require.NoError(t, err)

	var names []string
	for _, el := range elements {
		names = append(names, el.Name)
	}
	assert.Equal(t, []string{"Welcome", "Read the docs", "Remember me", "Go", "Filter", "Message"}, names)

	o := BuildOverview("u", "t", elements)
	counts := o.Counts()
	assert.Equal(t, 1, counts["heading"])
	assert.Equal(t, 1, counts["link"])
	assert.Equal(t, 1, counts["checkbox"])
	assert.Equal(t, 1, counts["combobox"])
	assert.Equal(t, 1, counts["button"])
	assert.Equal(t, 1, counts["textbox"])
}

func TestCandidatesFromHTMLRoleFilter(t *testing.T) {
	page := `<html><body>
		<a href="/a">Pricing</a>
		<div role="link">Pricing plans</div>
		<p>Pricing</p>
	</body></html>`

	raws, err := CandidatesFromHTML(page, "Pricing", "link")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "div", raws[0].Tag)
	assert.Equal(t, "link", raws[0].Role)

	raws, err = CandidatesFromHTML(page, "Pricing", "a")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "a", raws[0].Tag)
	assert.Equal(t, "html > body > a", raws[0].Locator)
}

func TestCandidatesFromHTMLSkipsHidden(t *testing.T) {
	page := `<html><body>
		<div style="display:none"><button>Delete</button></div>
		<button style="opacity: 0">Delete</button>
		<button>Delete</button>
	</body></html>`

	raws, err := CandidatesFromHTML(page, "Delete", "button")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "html > body > button:nth-of-type(2)", raws[0].Locator)
	assert.Equal(t, 0, raws[0].Order)
}

func TestCandidatesFromHTMLIsCaseSensitive(t *testing.T) {
	raws, err := CandidatesFromHTML(`<html><body><button>Login</button></body></html>`, "login", "")
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestStructuralLocatorNthOfType(t *testing.T) {
	page := `<html><body><ul><li>One</li><li>Two</li><li>Three</li></ul></body></html>`

	raws, err := CandidatesFromHTML(page, "Two", "li")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "html > body > ul > li:nth-of-type(2)", raws[0].Locator)
	assert.Equal(t, "in <ul>", raws[0].Context)
}
