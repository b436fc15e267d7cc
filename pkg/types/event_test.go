package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructorsInitializeMetadata(t *testing.T) {
	events := []*AgentEvent{
		NewAPICallStartEvent(1, 3),
		NewReasoningEvent("thinking"),
		NewToolCallEvent("click", map[string]interface{}{"selector": "#a"}),
		NewToolResultEvent("click", "ok"),
		NewToolResultErrorEvent("click", "Error"),
		NewNoToolCallEvent(2),
		NewHintEvent("try again"),
		NewContextRefreshEvent("navigate_to", "https://example.com | 3 links"),
		NewConfirmationRequestEvent("id", "buy", "financial"),
		NewConfirmationGrantedEvent("id"),
		NewConfirmationRejectedEvent("id"),
		NewConfirmationTimeoutEvent("id"),
		NewInterventionRequestEvent("id", "solve captcha"),
		NewInterventionResumedEvent("id", false),
		NewDelegateStartEvent("navigator", "open jobs"),
		NewDelegateEndEvent("navigator", "done"),
		NewTurnEndEvent(4),
		NewTaskCompleteEvent("summary"),
		NewTaskExhaustedEvent("limit"),
		NewErrorEvent(errors.New("boom")),
	}

	for _, e := range events {
		t.Run(string(e.Type), func(t *testing.T) {
			assert.NotNil(t, e.Metadata)
			assert.NotEmpty(t, e.Type)
		})
	}
}

func TestEventClassification(t *testing.T) {
	tests := []struct {
		event    *AgentEvent
		name     string
		tool     bool
		human    bool
		terminal bool
	}{
		{name: "tool call", event: NewToolCallEvent("x", nil), tool: true},
		{name: "tool error", event: NewToolResultErrorEvent("x", "Error"), tool: true},
		{name: "confirmation", event: NewConfirmationRequestEvent("id", "d", "deletion"), human: true},
		{name: "resumed", event: NewInterventionResumedEvent("id", true), human: true},
		{name: "complete", event: NewTaskCompleteEvent("s"), terminal: true},
		{name: "exhausted", event: NewTaskExhaustedEvent("r"), terminal: true},
		{name: "hint", event: NewHintEvent("h")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tool, tt.event.IsToolEvent())
			assert.Equal(t, tt.human, tt.event.IsHumanEvent())
			assert.Equal(t, tt.terminal, tt.event.IsTerminal())
		})
	}
}

func TestEventPayloads(t *testing.T) {
	e := NewConfirmationRequestEvent("req-1", "Delete email", "deletion")
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "Delete email", e.Content)
	assert.Equal(t, "deletion", e.Metadata["risk"])

	r := NewInterventionResumedEvent("req-2", true)
	assert.Equal(t, true, r.Metadata["timed_out"])

	n := NewNoToolCallEvent(2)
	assert.Equal(t, 2, n.Metadata["attempt"])
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, RoleSystem, NewSystemMessage("s").Role)
	assert.Equal(t, RoleUser, NewUserMessage("u").Role)
	assert.Equal(t, RoleAssistant, NewAssistantMessage("a").Role)

	m := NewUserMessage("Tool 'click' result:\nok").WithMetadata("tool_call_id", "abc")
	assert.Equal(t, "abc", m.Metadata["tool_call_id"])
}
