package agent

import (
	"context"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/agent/memory"
	"github.com/entrhq/webpilot/pkg/agent/prompts"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/llm"
	"github.com/entrhq/webpilot/pkg/llm/tokenizer"
	"github.com/entrhq/webpilot/pkg/types"
)

const (
	// DefaultMaxIterations caps the turns of one task.
	DefaultMaxIterations = 50

	// DefaultNoActionLimit is how many replies in a row may lack a tool call.
	DefaultNoActionLimit = 3

	// DefaultFailureLimit is how many failed results in a row trigger the
	// recovery hint.
	DefaultFailureLimit = 3

	coordinatorName = "coordinator"

	// Compaction starts at this share of the context limit.
	compactionThresholdPercent = 80
)

// Coordinator drives one task from the first overview to task_complete or
// a loop limit. A Coordinator runs one task at a time; Run resets its state.
type Coordinator struct {
	provider           llm.Provider
	registry           *tools.Registry
	pages              Snapshotter
	human              Approver
	handler            EventHandler
	tokenizer          *tokenizer.Tokenizer
	compactor          *agentcontext.Compactor
	customInstructions string
	maxIterations      int
	noActionLimit      int
	failureLimit       int
	contextLimit       int

	// Per-run state.
	conv      *memory.ConversationMemory
	iteration int
	noActions int
	failures  int
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithMaxIterations sets the turn cap. Values below 1 are ignored.
func WithMaxIterations(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithNoActionLimit sets how many replies without a tool call end the task.
func WithNoActionLimit(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.noActionLimit = n
		}
	}
}

// WithFailureLimit sets how many failures in a row trigger the recovery hint.
func WithFailureLimit(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.failureLimit = n
		}
	}
}

// WithApprover sets who answers confirmations and interventions.
func WithApprover(a Approver) CoordinatorOption {
	return func(c *Coordinator) {
		if a != nil {
			c.human = a
		}
	}
}

// WithEventHandler sets the receiver of agent events.
func WithEventHandler(h EventHandler) CoordinatorOption {
	return func(c *Coordinator) {
		c.handler = h
	}
}

// WithCustomInstructions adds user instructions to the system prompt.
func WithCustomInstructions(instructions string) CoordinatorOption {
	return func(c *Coordinator) {
		c.customInstructions = instructions
	}
}

// WithContextLimit sets the model's context window in tokens. Once the
// conversation nears it, older page overviews are compacted. Zero disables
// compaction.
func WithContextLimit(tokens int) CoordinatorOption {
	return func(c *Coordinator) {
		if tokens >= 0 {
			c.contextLimit = tokens
		}
	}
}

// NewCoordinator creates a coordinator that calls provider, dispatches
// through registry and reads the page from pages.
func NewCoordinator(provider llm.Provider, registry *tools.Registry, pages Snapshotter, opts ...CoordinatorOption) *Coordinator {
	tok, err := tokenizer.New()
	if err != nil {
		agentLog.Warnf("Token counting disabled: %v", err)
		tok = nil
	}

	c := &Coordinator{
		provider:      provider,
		registry:      registry,
		pages:         pages,
		human:         noHuman{},
		tokenizer:     tok,
		maxIterations: DefaultMaxIterations,
		noActionLimit: DefaultNoActionLimit,
		failureLimit:  DefaultFailureLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.compactor = agentcontext.NewCompactor(compactionThresholdPercent, 1, agentcontext.NewTiktokenEstimator())

	return c
}

// Run executes task until the model completes it or a limit is reached.
// The returned error is non-nil only for fatal conditions: the model call
// failed after retries, ctx was cancelled, or the human prompt failed.
func (c *Coordinator) Run(ctx context.Context, task string) (*Outcome, error) {
	c.conv = memory.NewConversationMemory()
	c.iteration = 0
	c.noActions = 0
	c.failures = 0

	agentLog.Infof("Starting task: %s", task)

	// The opening message carries the task, so it is never compacted.
	c.conv.Add(types.NewUserMessage(prompts.InitialTaskMessage(task, c.pageContext())))

	systemPrompt := c.buildSystemPrompt()

	for c.iteration < c.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.iteration++
		outcome, err := c.runIteration(ctx, systemPrompt)
		c.emitEvent(types.NewTurnEndEvent(c.iteration))
		if err != nil {
			agentLog.Errorf("Task stopped at iteration %d: %v", c.iteration, err)
			return nil, err
		}
		if outcome != nil {
			return outcome, nil
		}
	}

	return c.exhausted(prompts.MaxIterationsReached(c.maxIterations)), nil
}

// Conversation returns a copy of the current or last run's messages.
func (c *Coordinator) Conversation() []*types.Message {
	if c.conv == nil {
		return nil
	}
	return c.conv.GetAll()
}

func (c *Coordinator) buildSystemPrompt() string {
	return prompts.NewPromptBuilder().
		WithTools(c.registry.All()).
		WithCustomInstructions(c.customInstructions).
		Build()
}

func (c *Coordinator) exhausted(reason string) *Outcome {
	agentLog.Warnf("%s", reason)
	c.emitEvent(types.NewTaskExhaustedEvent(reason))
	return &Outcome{Status: StatusExhausted, Summary: reason, Iterations: c.iteration}
}

func (c *Coordinator) completed(summary string) *Outcome {
	agentLog.Infof("Task completed after %d iterations", c.iteration)
	c.emitEvent(types.NewTaskCompleteEvent(summary))
	return &Outcome{Status: StatusCompleted, Summary: summary, Iterations: c.iteration}
}

func (c *Coordinator) emitEvent(event *types.AgentEvent) {
	if event.Agent == "" {
		event.Agent = coordinatorName
	}
	if event.Iteration == 0 {
		event.Iteration = c.iteration
	}
	if c.handler != nil {
		c.handler(event)
	}
}

// pageContext returns the current overview, or the unavailable marker when
// the page cannot be read.
func (c *Coordinator) pageContext() string {
	snap, err := c.pages.Current()
	if err != nil {
		agentLog.Errorf("Failed to get page context: %v", err)
		return prompts.PageContextUnavailable
	}
	return snap.Overview
}

// withPageSummary tags a message carrying an overview so it can be
// compacted later.
func withPageSummary(msg *types.Message, summary string) *types.Message {
	if summary == "" {
		return msg
	}
	return msg.WithMetadata(agentcontext.MetaPageSummary, summary)
}
