package types

// AgentEventType defines the type of event emitted by the agent.
type AgentEventType string

const (
	EventTypeAPICallStart         AgentEventType = "api_call_start"        // EventTypeAPICallStart indicates the agent is asking the model for a decision.
	EventTypeReasoning            AgentEventType = "reasoning"             // EventTypeReasoning carries free text the model sent alongside its tool calls.
	EventTypeToolCall             AgentEventType = "tool_call"             // EventTypeToolCall indicates the agent is calling a tool.
	EventTypeToolResult           AgentEventType = "tool_result"           // EventTypeToolResult indicates a successful tool call result.
	EventTypeToolResultError      AgentEventType = "tool_result_error"     // EventTypeToolResultError indicates a tool call produced a failure result.
	EventTypeNoToolCall           AgentEventType = "no_tool_call"          // EventTypeNoToolCall indicates the model answered without requesting an action.
	EventTypeHint                 AgentEventType = "hint"                  // EventTypeHint indicates the agent injected guidance into the conversation.
	EventTypeContextRefresh       AgentEventType = "context_refresh"       // EventTypeContextRefresh indicates a fresh page overview was appended.
	EventTypeConfirmationRequest  AgentEventType = "confirmation_request"  // EventTypeConfirmationRequest indicates a risky action is waiting for a yes/no.
	EventTypeConfirmationGranted  AgentEventType = "confirmation_granted"  // EventTypeConfirmationGranted indicates the human approved.
	EventTypeConfirmationRejected AgentEventType = "confirmation_rejected" // EventTypeConfirmationRejected indicates the human declined.
	EventTypeConfirmationTimeout  AgentEventType = "confirmation_timeout"  // EventTypeConfirmationTimeout indicates nobody answered in time.
	EventTypeInterventionRequest  AgentEventType = "intervention_request"  // EventTypeInterventionRequest indicates the agent paused for manual work.
	EventTypeInterventionResumed  AgentEventType = "intervention_resumed"  // EventTypeInterventionResumed indicates the human handed control back.
	EventTypeDelegateStart        AgentEventType = "delegate_start"        // EventTypeDelegateStart indicates a sub-agent took over a subtask.
	EventTypeDelegateEnd          AgentEventType = "delegate_end"          // EventTypeDelegateEnd indicates a sub-agent returned.
	EventTypeTurnEnd              AgentEventType = "turn_end"              // EventTypeTurnEnd indicates one loop iteration finished.
	EventTypeTaskComplete         AgentEventType = "task_complete"         // EventTypeTaskComplete indicates the task finished with a summary.
	EventTypeTaskExhausted        AgentEventType = "task_exhausted"        // EventTypeTaskExhausted indicates the loop hit a limit.
	EventTypeError                AgentEventType = "error"                 // EventTypeError indicates an error occurred during agent processing.
)

// AgentEvent represents an event emitted by the agent during execution.
type AgentEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// ToolInput is the input being sent to the tool (for tool call events).
	ToolInput map[string]interface{}

	// Error contains error information for error events.
	Error error

	// Content holds text for result, hint, summary and prompt events.
	Content string

	// ToolName is the name of the tool being called (for tool events).
	ToolName string

	// Agent names the loop that emitted the event ("coordinator" or a delegate role).
	Agent string

	// RequestID ties confirmation and intervention events together.
	RequestID string

	// Type indicates the kind of event.
	Type AgentEventType

	// Iteration is the loop iteration the event belongs to, starting at 1.
	Iteration int
}

func newEvent(t AgentEventType) *AgentEvent {
	return &AgentEvent{
		Type:     t,
		Metadata: make(map[string]interface{}),
	}
}

// NewAPICallStartEvent creates an api call start event.
func NewAPICallStartEvent(iteration, messages int) *AgentEvent {
	e := newEvent(EventTypeAPICallStart)
	e.Iteration = iteration
	e.Metadata["messages"] = messages
	return e
}

// NewReasoningEvent creates a reasoning event.
func NewReasoningEvent(content string) *AgentEvent {
	e := newEvent(EventTypeReasoning)
	e.Content = content
	return e
}

// NewToolCallEvent creates a tool call event.
func NewToolCallEvent(toolName string, toolInput map[string]interface{}) *AgentEvent {
	e := newEvent(EventTypeToolCall)
	e.ToolName = toolName
	e.ToolInput = toolInput
	return e
}

// NewToolResultEvent creates a tool result event.
func NewToolResultEvent(toolName, output string) *AgentEvent {
	e := newEvent(EventTypeToolResult)
	e.ToolName = toolName
	e.Content = output
	return e
}

// NewToolResultErrorEvent creates a failed tool result event.
func NewToolResultErrorEvent(toolName, output string) *AgentEvent {
	e := newEvent(EventTypeToolResultError)
	e.ToolName = toolName
	e.Content = output
	return e
}

// NewNoToolCallEvent creates a no tool call event. attempt counts
// consecutive responses without an action.
func NewNoToolCallEvent(attempt int) *AgentEvent {
	e := newEvent(EventTypeNoToolCall)
	e.Metadata["attempt"] = attempt
	return e
}

// NewHintEvent creates a hint event.
func NewHintEvent(hint string) *AgentEvent {
	e := newEvent(EventTypeHint)
	e.Content = hint
	return e
}

// NewContextRefreshEvent creates a context refresh event carrying a one-line summary.
func NewContextRefreshEvent(toolName, summary string) *AgentEvent {
	e := newEvent(EventTypeContextRefresh)
	e.ToolName = toolName
	e.Content = summary
	return e
}

// NewConfirmationRequestEvent creates a confirmation request event.
func NewConfirmationRequestEvent(requestID, description, risk string) *AgentEvent {
	e := newEvent(EventTypeConfirmationRequest)
	e.RequestID = requestID
	e.Content = description
	e.Metadata["risk"] = risk
	return e
}

// NewConfirmationGrantedEvent creates a confirmation granted event.
func NewConfirmationGrantedEvent(requestID string) *AgentEvent {
	e := newEvent(EventTypeConfirmationGranted)
	e.RequestID = requestID
	return e
}

// NewConfirmationRejectedEvent creates a confirmation rejected event.
func NewConfirmationRejectedEvent(requestID string) *AgentEvent {
	e := newEvent(EventTypeConfirmationRejected)
	e.RequestID = requestID
	return e
}

// NewConfirmationTimeoutEvent creates a confirmation timeout event.
func NewConfirmationTimeoutEvent(requestID string) *AgentEvent {
	e := newEvent(EventTypeConfirmationTimeout)
	e.RequestID = requestID
	return e
}

// NewInterventionRequestEvent creates an intervention request event.
func NewInterventionRequestEvent(requestID, description string) *AgentEvent {
	e := newEvent(EventTypeInterventionRequest)
	e.RequestID = requestID
	e.Content = description
	return e
}

// NewInterventionResumedEvent creates an intervention resumed event.
func NewInterventionResumedEvent(requestID string, timedOut bool) *AgentEvent {
	e := newEvent(EventTypeInterventionResumed)
	e.RequestID = requestID
	e.Metadata["timed_out"] = timedOut
	return e
}

// NewDelegateStartEvent creates a delegate start event.
func NewDelegateStartEvent(role, subtask string) *AgentEvent {
	e := newEvent(EventTypeDelegateStart)
	e.Agent = role
	e.Content = subtask
	return e
}

// NewDelegateEndEvent creates a delegate end event.
func NewDelegateEndEvent(role, result string) *AgentEvent {
	e := newEvent(EventTypeDelegateEnd)
	e.Agent = role
	e.Content = result
	return e
}

// NewTurnEndEvent creates a turn end event.
func NewTurnEndEvent(iteration int) *AgentEvent {
	e := newEvent(EventTypeTurnEnd)
	e.Iteration = iteration
	return e
}

// NewTaskCompleteEvent creates a task complete event.
func NewTaskCompleteEvent(summary string) *AgentEvent {
	e := newEvent(EventTypeTaskComplete)
	e.Content = summary
	return e
}

// NewTaskExhaustedEvent creates a task exhausted event.
func NewTaskExhaustedEvent(reason string) *AgentEvent {
	e := newEvent(EventTypeTaskExhausted)
	e.Content = reason
	return e
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) *AgentEvent {
	e := newEvent(EventTypeError)
	e.Error = err
	return e
}

// IsToolEvent returns true for tool call and tool result events.
func (e *AgentEvent) IsToolEvent() bool {
	return e.Type == EventTypeToolCall || e.Type == EventTypeToolResult || e.Type == EventTypeToolResultError
}

// IsHumanEvent returns true for events that involve the human operator.
func (e *AgentEvent) IsHumanEvent() bool {
	switch e.Type {
	case EventTypeConfirmationRequest, EventTypeConfirmationGranted, EventTypeConfirmationRejected,
		EventTypeConfirmationTimeout, EventTypeInterventionRequest, EventTypeInterventionResumed:
		return true
	}
	return false
}

// IsTerminal returns true for events that end a task.
func (e *AgentEvent) IsTerminal() bool {
	return e.Type == EventTypeTaskComplete || e.Type == EventTypeTaskExhausted
}
