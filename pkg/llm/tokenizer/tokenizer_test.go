package tokenizer

import (
	"testing"

	"github.com/entrhq/webpilot/pkg/types"
	"github.com/stretchr/testify/assert"
)

// newOrSkip loads the encoding, which may need network access on first use.
func newOrSkip(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New()
	if err != nil {
		t.Skipf("encoding %s unavailable: %v", Encoding, err)
	}
	return tok
}

func TestCountTokens(t *testing.T) {
	tok := newOrSkip(t)

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Greater(t, tok.CountTokens("Click the Sign in button"), 0)
	assert.Less(t,
		tok.CountTokens("short"),
		tok.CountTokens("a considerably longer sentence about navigating a web page"),
	)
}

func TestCountMessagesTokens(t *testing.T) {
	tok := newOrSkip(t)

	msgs := []*types.Message{
		types.NewSystemMessage("You drive a browser."),
		types.NewUserMessage("Open example.com"),
	}

	total := tok.CountMessagesTokens(msgs)
	content := tok.CountTokens("You drive a browser.") + tok.CountTokens("Open example.com")
	assert.Greater(t, total, content, "per-message overhead is counted")
	assert.Equal(t, 3, tok.CountMessagesTokens(nil))
}
