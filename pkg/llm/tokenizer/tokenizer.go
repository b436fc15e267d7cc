// Package tokenizer counts tokens the way OpenAI chat models do.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/webpilot/pkg/types"
)

// Encoding is the BPE used by current OpenAI chat models.
const Encoding = "cl100k_base"

// Per-message framing overhead in the chat format.
const (
	tokensPerMessage = 4
	tokensPerReply   = 3
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// Tokenizer counts tokens with tiktoken.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads the encoding. The encoding is loaded once per process.
func New() (*Tokenizer, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(Encoding)
	})
	if encodingErr != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", Encoding, encodingErr)
	}
	return &Tokenizer{enc: encoding}, nil
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// CountMessagesTokens returns the prompt size of a conversation including
// the per-message framing.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		total += tokensPerMessage
		total += t.CountTokens(string(msg.Role))
		total += t.CountTokens(msg.Content)
	}
	return total + tokensPerReply
}
