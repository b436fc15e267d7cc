package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/types"
)

func TestConversationMemory(t *testing.T) {
	c := NewConversationMemory()
	assert.Nil(t, c.Last())
	assert.Zero(t, c.Len())

	first := types.NewUserMessage("task")
	c.Add(first)
	c.Add(types.NewAssistantMessage("reply"))

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "reply", c.Last().Content)

	all := c.GetAll()
	all[0] = types.NewUserMessage("changed")
	assert.Equal(t, "task", c.GetAll()[0].Content, "GetAll returns a copy")
}

func TestConversationMemoryUpdate(t *testing.T) {
	c := NewConversationMemory()
	msg := types.NewUserMessage("long overview")
	c.Add(msg)

	assert.True(t, c.Update(msg, "short"))
	assert.Equal(t, "short", c.GetAll()[0].Content)

	assert.False(t, c.Update(types.NewUserMessage("long overview"), "x"), "matches by identity")
}
