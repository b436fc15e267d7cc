// Package agent runs the webpilot agent loop.
//
// A Coordinator owns one task. Each turn it asks the model for the next
// step, parses the XML tool calls out of the reply, dispatches them through
// a tools.Registry and appends one result message per call. It keeps the
// loop moving with escalating hints when the model stops acting, injects a
// recovery hint after repeated failures and refreshes the page overview
// after actions that change the page. Risky actions and tasks the agent
// cannot do alone are handed to a human through an Approver.
//
//	registry := agent.NewCoordinatorRegistry(session, pages, "", delegateTool)
//	coord := agent.NewCoordinator(provider, registry, pages,
//	    agent.WithApprover(approvals),
//	    agent.WithEventHandler(render),
//	)
//	outcome, err := coord.Run(ctx, "Find the cheapest flight to Lisbon")
//
// Delegates are smaller loops for one subtask each, reached through the
// delegate_to_subagent tool. They share the browser with the Coordinator and
// run strictly nested inside its turn.
package agent

import (
	"context"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/types"
)

var agentLog *logging.Logger

func init() {
	var err error
	agentLog, err = logging.NewLogger("agent")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		agentLog.Warnf("Failed to initialize agent logger, using stderr fallback: %v", err)
	}
}

// Status is how a task ended.
type Status string

const (
	StatusCompleted Status = "completed" // StatusCompleted means the model called task_complete.
	StatusExhausted Status = "exhausted" // StatusExhausted means a loop limit stopped the task.
)

// Outcome is the result of Coordinator.Run. Summary always carries either
// the model's summary or the limit that stopped the loop.
type Outcome struct {
	Status     Status
	Summary    string
	Iterations int
}

// Snapshotter returns the current page context. *agentcontext.Manager
// satisfies it.
type Snapshotter interface {
	Current() (*agentcontext.Snapshot, error)
}

// Approver puts a human in the loop. *approval.Manager satisfies it.
type Approver interface {
	Confirm(ctx context.Context, description, risk string) (approved, timedOut bool, err error)
	AwaitIntervention(ctx context.Context, description string) (timedOut bool, err error)
}

// EventHandler receives agent events. It is called synchronously from the
// loop and must not block for long.
type EventHandler func(event *types.AgentEvent)

// noHuman is used when no Approver is configured: every confirmation is
// declined and interventions return at once as timed out.
type noHuman struct{}

func (noHuman) Confirm(context.Context, string, string) (bool, bool, error) {
	return false, true, nil
}

func (noHuman) AwaitIntervention(context.Context, string) (bool, error) {
	return true, nil
}
