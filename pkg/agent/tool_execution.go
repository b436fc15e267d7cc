package agent

import (
	"context"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/agent/prompts"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	browsertools "github.com/entrhq/webpilot/pkg/tools/browser"
	"github.com/entrhq/webpilot/pkg/types"
)

// executeToolCall dispatches one call, resolves any human step it asks for
// and records exactly one result message. A non-nil Outcome ends the task.
func (c *Coordinator) executeToolCall(ctx context.Context, call *tools.ToolCall) (*Outcome, error) {
	c.emitEvent(types.NewToolCallEvent(call.ToolName, tools.ArgumentsMap(call)))
	agentLog.Infof("Executing %s", call.ToolName)

	res := c.registry.Execute(ctx, call)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	intervened := false
	switch res.Kind {
	case tools.KindComplete:
		return c.completed(res.Summary), nil

	case tools.KindNeedsConfirmation:
		text, err := c.handleConfirmation(ctx, res)
		if err != nil {
			return nil, err
		}
		res = tools.OK(text)

	case tools.KindNeedsHumanHelp:
		text, err := c.handleIntervention(ctx, res)
		if err != nil {
			return nil, err
		}
		res = tools.OK(text)
		intervened = true
	}

	c.recordResult(call, res)
	c.trackResult(res)

	switch {
	case intervened:
		c.refreshContext("human intervention", prompts.InterventionContextUpdate)
	case browsertools.MutatingTools[call.ToolName], call.ToolName == prompts.DelegateToolName:
		c.refreshContext(call.ToolName, func(overview string) string {
			return prompts.PageContextUpdate(call.ToolName, overview)
		})
	}
	return nil, nil
}

// recordResult appends the tool result message, tagged with the call id.
func (c *Coordinator) recordResult(call *tools.ToolCall, res tools.Result) {
	if res.IsFailure() {
		agentLog.Warnf("%s failed: %s", call.ToolName, res.Text)
		c.emitEvent(types.NewToolResultErrorEvent(call.ToolName, res.Text))
	} else {
		c.emitEvent(types.NewToolResultEvent(call.ToolName, res.Text))
	}

	msg := types.NewUserMessage(prompts.ToolResultMessage(call.ToolName, res.Text)).
		WithMetadata("tool_call_id", call.ID)
	c.conv.Add(msg)
}

// handleConfirmation asks the human about a risky action and returns the
// text the model reads as the tool result.
func (c *Coordinator) handleConfirmation(ctx context.Context, res tools.Result) (string, error) {
	agentLog.Infof("Confirmation required (%s): %s", res.Risk, res.Description)

	approved, timedOut, err := c.human.Confirm(ctx, res.Description, res.Risk)
	switch {
	case err != nil:
		return "", err
	case timedOut:
		agentLog.Warnf("Confirmation timed out, treating as declined")
		return prompts.ConfirmationTimedOut, nil
	case approved:
		agentLog.Infof("User confirmed action")
		return prompts.ConfirmationApproved, nil
	default:
		agentLog.Infof("User declined action")
		return prompts.ConfirmationDeclined, nil
	}
}

// handleIntervention pauses for the human and returns the tool result text.
func (c *Coordinator) handleIntervention(ctx context.Context, res tools.Result) (string, error) {
	agentLog.Warnf("Human intervention required: %s", res.Description)

	timedOut, err := c.human.AwaitIntervention(ctx, res.Description)
	if err != nil {
		return "", err
	}
	if timedOut {
		return prompts.InterventionTimedOut, nil
	}
	return prompts.InterventionCompleted, nil
}

// refreshContext appends a fresh overview. It is best effort: a page that
// cannot be read is logged and skipped.
func (c *Coordinator) refreshContext(after string, render func(overview string) string) {
	snap, err := c.pages.Current()
	if err != nil {
		agentLog.Errorf("Failed to get updated context after %s: %v", after, err)
		return
	}

	summary := agentcontext.Summary(snap)
	c.conv.Add(withPageSummary(types.NewUserMessage(render(snap.Overview)), summary))
	agentLog.Infof("Context updated: %s", summary)
	c.emitEvent(types.NewContextRefreshEvent(after, summary))
}
