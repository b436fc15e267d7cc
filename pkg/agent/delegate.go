package agent

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/entrhq/webpilot/pkg/agent/memory"
	"github.com/entrhq/webpilot/pkg/agent/prompts"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/llm"
	"github.com/entrhq/webpilot/pkg/types"
)

// DefaultDelegateSteps caps the turns of one delegated subtask.
const DefaultDelegateSteps = 10

// Delegate is a specialist sub-agent: a short loop with its own prompt and a
// narrower tool set. It has no human in the loop and ends as soon as the
// model replies without a tool call.
type Delegate struct {
	name         string
	provider     llm.Provider
	registry     *tools.Registry
	pages        Snapshotter
	handler      EventHandler
	systemPrompt string
	maxSteps     int
}

// DelegateOption configures a Delegate.
type DelegateOption func(*Delegate)

// WithDelegateSteps sets the step budget. Values below 1 are ignored.
func WithDelegateSteps(n int) DelegateOption {
	return func(d *Delegate) {
		if n > 0 {
			d.maxSteps = n
		}
	}
}

// WithDelegateEvents sets the receiver of the delegate's events.
func WithDelegateEvents(h EventHandler) DelegateOption {
	return func(d *Delegate) {
		d.handler = h
	}
}

// NewDelegate creates the sub-agent for role with the tools in registry.
func NewDelegate(role string, provider llm.Provider, registry *tools.Registry, pages Snapshotter, opts ...DelegateOption) *Delegate {
	d := &Delegate{
		name:     role,
		provider: provider,
		registry: registry,
		pages:    pages,
		maxSteps: DefaultDelegateSteps,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.systemPrompt = prompts.NewPromptBuilder().
		WithRole(role).
		WithTools(registry.All()).
		Build()
	return d
}

// Name returns the role name.
func (d *Delegate) Name() string {
	return d.name
}

// Execute runs subtask and returns the sub-agent's report. It never fails:
// model errors and cancellation come back as "Error: ..." text, and an
// exhausted step budget as a fixed message.
func (d *Delegate) Execute(ctx context.Context, subtask string) string {
	agentLog.Infof("Sub-agent %s starting: %s", d.name, subtask)

	conv := memory.NewConversationMemory()
	conv.Add(types.NewUserMessage(prompts.DelegateSubtaskMessage(subtask, d.pageContext())))

	for step := 1; step <= d.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return fmt.Sprintf("Error: sub-agent %s interrupted: %v", d.name, err)
		}

		messages := prompts.BuildMessages(d.systemPrompt, conv.GetAll())
		d.emitEvent(types.NewAPICallStartEvent(step, len(messages)))

		reply, err := d.provider.Complete(ctx, messages)
		if err != nil {
			agentLog.Errorf("Sub-agent %s model call failed: %v", d.name, err)
			return fmt.Sprintf("Error: sub-agent %s failed: %v", d.name, err)
		}
		conv.Add(types.NewAssistantMessage(reply.Content))

		calls, text, parseErr := tools.ParseToolCalls(reply.Content)
		if len(calls) == 0 && parseErr == nil {
			agentLog.Infof("Sub-agent %s finished after %d steps", d.name, step)
			return text
		}
		if parseErr != nil {
			conv.Add(types.NewUserMessage(prompts.ParseErrorMessage(parseErr)))
		}

		for _, call := range calls {
			d.emitEvent(types.NewToolCallEvent(call.ToolName, tools.ArgumentsMap(call)))
			res := d.registry.Execute(ctx, call)
			if res.IsFailure() {
				d.emitEvent(types.NewToolResultErrorEvent(call.ToolName, res.Text))
			} else {
				d.emitEvent(types.NewToolResultEvent(call.ToolName, res.Text))
			}
			conv.Add(types.NewUserMessage(prompts.ToolResultMessage(call.ToolName, res.Text)).
				WithMetadata("tool_call_id", call.ID))
		}
	}

	agentLog.Warnf("Sub-agent %s reached max steps (%d)", d.name, d.maxSteps)
	return prompts.DelegateBudgetExhausted(d.name)
}

func (d *Delegate) pageContext() string {
	if d.pages == nil {
		return prompts.PageContextUnavailable
	}
	snap, err := d.pages.Current()
	if err != nil {
		agentLog.Errorf("Sub-agent %s could not read the page: %v", d.name, err)
		return prompts.PageContextUnavailable
	}
	return snap.Overview
}

func (d *Delegate) emitEvent(event *types.AgentEvent) {
	event.Agent = d.name
	if d.handler != nil {
		d.handler(event)
	}
}

// DelegateTool exposes a set of delegates to the coordinator as
// delegate_to_subagent.
type DelegateTool struct {
	delegates map[string]*Delegate
	handler   EventHandler
}

// NewDelegateTool creates the tool. handler receives start and end events.
func NewDelegateTool(handler EventHandler, delegates ...*Delegate) *DelegateTool {
	t := &DelegateTool{delegates: make(map[string]*Delegate), handler: handler}
	for _, d := range delegates {
		t.delegates[d.Name()] = d
	}
	return t
}

func (t *DelegateTool) roles() []string {
	roles := make([]string, 0, len(t.delegates))
	for role := range t.delegates {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

func (t *DelegateTool) Name() string {
	return prompts.DelegateToolName
}

func (t *DelegateTool) Description() string {
	return "Hand a self-contained subtask to a specialist sub-agent and receive its report. " +
		"navigator reaches pages and sections, form_filler fills and submits forms, " +
		"data_reader extracts information without changing the page."
}

func (t *DelegateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"subagent": tools.EnumProperty("The sub-agent to run.", t.roles()...),
			"subtask":  tools.StringProperty("Precise description of the subtask, including any values to enter."),
		},
		[]string{"subagent", "subtask"},
	)
}

func (t *DelegateTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		Subagent string   `xml:"subagent"`
		Subtask  string   `xml:"subtask"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	role := strings.TrimSpace(input.Subagent)
	d, ok := t.delegates[role]
	if !ok {
		return tools.Failure(fmt.Sprintf("Unknown sub-agent: %s", role)), nil
	}

	t.emitEvent(types.NewDelegateStartEvent(role, input.Subtask))
	report := d.Execute(ctx, input.Subtask)
	t.emitEvent(types.NewDelegateEndEvent(role, report))

	if strings.HasPrefix(report, "Error") {
		return tools.Failure(report), nil
	}
	return tools.OK(report), nil
}

func (t *DelegateTool) emitEvent(event *types.AgentEvent) {
	if t.handler != nil {
		t.handler(event)
	}
}
