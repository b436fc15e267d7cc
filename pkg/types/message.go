package types

// MessageRole identifies the author of a conversation turn.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem carries instructions for the model.
	RoleUser      MessageRole = "user"      // RoleUser carries task text, tool results and hints.
	RoleAssistant MessageRole = "assistant" // RoleAssistant carries model output.
)

// Message is one turn of a conversation.
type Message struct {
	// Metadata holds optional information that is never sent to the model,
	// such as the id of the tool call a result answers.
	Metadata map[string]interface{}

	Role    MessageRole
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// WithMetadata sets a metadata key and returns the message for chaining.
func (m *Message) WithMetadata(key string, value interface{}) *Message {
	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	m.Metadata[key] = value
	return m
}

// ModelInfo describes the model behind an LLM provider.
type ModelInfo struct {
	Metadata map[string]interface{}

	Provider  string
	Name      string
	MaxTokens int
}
