// Package cli runs a webpilot task in the terminal.
//
// The Executor renders the agent's event stream and the ConsolePrompter
// answers confirmation and intervention requests from standard input.
//
// Example usage:
//
//	prompter := cli.NewConsolePrompter(os.Stdin, os.Stdout)
//	exec := cli.NewExecutor(os.Stdout, cli.WithVerbose(true))
//
//	approver := approval.NewManager(prompter, 0, exec.HandleEvent)
//	coordinator := agent.NewCoordinator(provider, registry, pages,
//	    agent.WithApprover(approver),
//	    agent.WithEventHandler(exec.HandleEvent),
//	)
//
//	outcome, err := exec.Run(ctx, coordinator, "Find the cheapest flight to Lisbon")
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/entrhq/webpilot/pkg/agent"
	"github.com/entrhq/webpilot/pkg/types"
)

// maxResultLength caps tool output echoed to the terminal.
const maxResultLength = 300

// Runner executes one task. *agent.Coordinator satisfies it.
type Runner interface {
	Run(ctx context.Context, task string) (*agent.Outcome, error)
}

// Executor renders agent events to a writer.
type Executor struct {
	writer io.Writer
	mu     sync.Mutex

	// Display options
	verbose      bool
	showDelegate bool
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithVerbose shows model reasoning, model calls and context refreshes.
func WithVerbose(verbose bool) ExecutorOption {
	return func(e *Executor) {
		e.verbose = verbose
	}
}

// WithDelegateDetail shows the tool calls made inside sub-agents, not only
// their start and end.
func WithDelegateDetail(show bool) ExecutorOption {
	return func(e *Executor) {
		e.showDelegate = show
	}
}

// NewExecutor creates an executor writing to w.
func NewExecutor(w io.Writer, opts ...ExecutorOption) *Executor {
	e := &Executor{writer: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run prints the task header, runs it and prints the outcome.
func (e *Executor) Run(ctx context.Context, runner Runner, task string) (*agent.Outcome, error) {
	e.println(headerStyle.Render("webpilot"))
	e.println(taskStyle.Render("Task: ") + task)
	e.println("")

	outcome, err := runner.Run(ctx, task)
	if err != nil {
		return nil, err
	}

	title := "Task completed"
	if outcome.Status == agent.StatusExhausted {
		title = "Task stopped"
	}
	body := fmt.Sprintf("%s after %d iterations\n\n%s", title, outcome.Iterations, outcome.Summary)
	e.println("")
	e.println(outcomeBoxStyle.Render(body))
	return outcome, nil
}

// HandleEvent renders one event. It is safe for concurrent use.
func (e *Executor) HandleEvent(event *types.AgentEvent) {
	if event == nil {
		return
	}
	if !e.showDelegate && isDelegateStep(event) {
		return
	}

	prefix := ""
	if event.Agent != "" && event.Agent != "coordinator" {
		prefix = subtleStyle.Render("["+event.Agent+"] ")
	}

	switch event.Type {
	case types.EventTypeAPICallStart:
		if e.verbose {
			e.println(prefix + subtleStyle.Render(fmt.Sprintf("… step %d", event.Iteration)))
		}
	case types.EventTypeReasoning:
		if e.verbose && strings.TrimSpace(event.Content) != "" {
			e.println(prefix + reasoningStyle.Render(strings.TrimSpace(event.Content)))
		}
	case types.EventTypeToolCall:
		e.println(prefix + toolStyle.Render("🔧 "+event.ToolName) + formatArgs(event.ToolInput))
	case types.EventTypeToolResult:
		e.println(prefix + toolResultStyle.Render("✅ "+clip(event.Content)))
	case types.EventTypeToolResultError:
		e.println(prefix + errorStyle.Render(fmt.Sprintf("❌ %s: %s", event.ToolName, clip(event.Content))))
	case types.EventTypeNoToolCall:
		if e.verbose {
			e.println(prefix + hintStyle.Render(fmt.Sprintf("No action in response (attempt %v)", event.Metadata["attempt"])))
		}
	case types.EventTypeHint:
		if e.verbose {
			e.println(prefix + hintStyle.Render("💡 "+firstLine(event.Content)))
		}
	case types.EventTypeContextRefresh:
		if e.verbose {
			e.println(prefix + subtleStyle.Render("🔄 "+event.Content))
		}
	case types.EventTypeConfirmationGranted:
		e.println(toolStyle.Render("Approved"))
	case types.EventTypeConfirmationRejected:
		e.println(errorStyle.Render("Declined"))
	case types.EventTypeConfirmationTimeout:
		e.println(errorStyle.Render("No answer, treating as declined"))
	case types.EventTypeInterventionResumed:
		if timedOut, _ := event.Metadata["timed_out"].(bool); timedOut {
			e.println(hintStyle.Render("Resuming without confirmation from the user"))
		} else {
			e.println(toolStyle.Render("Resuming"))
		}
	case types.EventTypeDelegateStart:
		e.println(headerStyle.Render("➜ "+event.Agent) + " " + event.Content)
	case types.EventTypeDelegateEnd:
		e.println(headerStyle.Render("← "+event.Agent) + " " + clip(event.Content))
	case types.EventTypeError:
		e.println(errorStyle.Render(fmt.Sprintf("❌ Error: %v", event.Error)))
	case types.EventTypeConfirmationRequest, types.EventTypeInterventionRequest,
		types.EventTypeTurnEnd, types.EventTypeTaskComplete, types.EventTypeTaskExhausted:
		// The prompter and Run print these.
	}
}

// isDelegateStep reports events from inside a sub-agent loop. Delegate
// start and end carry the role too but are always shown.
func isDelegateStep(event *types.AgentEvent) bool {
	if event.Agent == "" || event.Agent == "coordinator" {
		return false
	}
	return event.Type != types.EventTypeDelegateStart && event.Type != types.EventTypeDelegateEnd
}

func (e *Executor) println(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintln(e.writer, s)
}

func formatArgs(args map[string]interface{}) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, fmt.Sprint(args[k])))
	}
	return " " + subtleStyle.Render(strings.Join(parts, " "))
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxResultLength {
		return s
	}
	return string(r[:maxResultLength]) + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
