// Package memory holds the conversation of one agent loop.
package memory

import (
	"sync"

	"github.com/entrhq/webpilot/pkg/types"
)

// ConversationMemory is an ordered, append-only message history. It is safe
// for concurrent use; the agent loop itself only touches it from one goroutine,
// but event consumers may read it while a prompt is pending.
type ConversationMemory struct {
	mu       sync.RWMutex
	messages []*types.Message
}

// NewConversationMemory creates an empty conversation.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{}
}

// Add appends a message.
func (c *ConversationMemory) Add(msg *types.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// GetAll returns a copy of the messages in order.
func (c *ConversationMemory) GetAll() []*types.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*types.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the newest message, or nil when empty.
func (c *ConversationMemory) Last() *types.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Len returns the number of messages.
func (c *ConversationMemory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Update replaces the content of msg in place. Messages are matched by
// pointer identity; it reports whether msg was found.
func (c *ConversationMemory) Update(msg *types.Message, content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.messages {
		if m == msg {
			m.Content = content
			return true
		}
	}
	return false
}
