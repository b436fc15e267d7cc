package prompts

import (
	"strings"

	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/types"
)

// DelegateToolName is the tool the coordinator uses to hand off subtasks.
const DelegateToolName = "delegate_to_subagent"

// PromptBuilder constructs the system prompt for one agent loop. Without a
// role it builds the coordinator prompt; WithRole builds a sub-agent prompt.
type PromptBuilder struct {
	tools              []tools.Tool
	customInstructions string
	role               string
}

// NewPromptBuilder creates a new prompt builder with default settings
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tools: []tools.Tool{},
	}
}

// WithTools sets the available tools for the agent
func (pb *PromptBuilder) WithTools(toolsList []tools.Tool) *PromptBuilder {
	pb.tools = toolsList
	return pb
}

// WithCustomInstructions adds user-provided instructions ahead of the
// built-in sections.
func (pb *PromptBuilder) WithCustomInstructions(instructions string) *PromptBuilder {
	pb.customInstructions = instructions
	return pb
}

// WithRole switches the builder to a sub-agent prompt for role. Unknown
// roles fall back to the generic delegate rules.
func (pb *PromptBuilder) WithRole(role string) *PromptBuilder {
	pb.role = role
	return pb
}

// Build constructs the complete system prompt by assembling all sections
func (pb *PromptBuilder) Build() string {
	var sections []string

	if pb.customInstructions != "" {
		sections = append(sections, "<custom_instructions>\n"+pb.customInstructions+"\n</custom_instructions>")
	}

	if pb.role == "" {
		sections = append(sections, SystemCapabilitiesPrompt, AgentLoopPrompt)
		if pb.hasTool(DelegateToolName) {
			sections = append(sections, DelegationPrompt)
		}
		sections = append(sections, ElementDiscoveryPrompt, ErrorRecoveryPrompt, InteractionsPrompt, SecurityPrompt)
	} else {
		if rp, ok := RolePrompt(pb.role); ok {
			sections = append(sections, rp)
		}
		sections = append(sections, DelegateRulesPrompt, ElementDiscoveryPrompt)
	}

	sections = append(sections, ToolCallingPrompt)

	if len(pb.tools) > 0 {
		sections = append(sections, "<available_tools>\n"+FormatToolSchemas(pb.tools)+"</available_tools>")
	}

	if pb.role == "" {
		sections = append(sections, ToolUseRulesPrompt)
	}

	return strings.Join(sections, "\n\n")
}

func (pb *PromptBuilder) hasTool(name string) bool {
	for _, t := range pb.tools {
		if t.Name() == name {
			return true
		}
	}
	return false
}

// BuildMessages prepends the system prompt to the conversation. System
// messages already in history are dropped so only one is ever sent.
func BuildMessages(systemPrompt string, history []*types.Message) []*types.Message {
	messages := make([]*types.Message, 0, len(history)+1)
	messages = append(messages, types.NewSystemMessage(systemPrompt))

	for _, msg := range history {
		if msg.Role != types.RoleSystem {
			messages = append(messages, msg)
		}
	}

	return messages
}
