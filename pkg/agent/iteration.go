package agent

import (
	"context"
	"fmt"

	"github.com/entrhq/webpilot/pkg/agent/prompts"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/types"
)

// runIteration performs one turn: ask the model, then act on its reply. A
// non-nil Outcome ends the task.
func (c *Coordinator) runIteration(ctx context.Context, systemPrompt string) (*Outcome, error) {
	messages := c.prepareMessages(systemPrompt)

	reply, err := c.callModel(ctx, messages)
	if err != nil {
		return nil, err
	}
	c.conv.Add(types.NewAssistantMessage(reply.Content))

	calls, reasoning, parseErr := tools.ParseToolCalls(reply.Content)
	if reasoning != "" {
		agentLog.Debugf("Reasoning: %s", reasoning)
		c.emitEvent(types.NewReasoningEvent(reasoning))
	}

	// Malformed blocks are a failed action rather than a stall: the model
	// tried to act.
	if parseErr != nil {
		agentLog.Warnf("Tool call parse error: %v", parseErr)
		msg := prompts.ParseErrorMessage(parseErr)
		c.conv.Add(types.NewUserMessage(msg))
		c.emitEvent(types.NewToolResultErrorEvent("", msg))
		c.noActions = 0
		c.trackResult(tools.Failure(msg))
		if len(calls) == 0 {
			return nil, nil
		}
	}

	if len(calls) == 0 {
		return c.handleNoAction(), nil
	}
	c.noActions = 0

	for _, call := range calls {
		outcome, err := c.executeToolCall(ctx, call)
		if err != nil || outcome != nil {
			return outcome, err
		}
	}
	return nil, nil
}

// prepareMessages compacts stale page context when the conversation nears
// the context limit and builds the request.
func (c *Coordinator) prepareMessages(systemPrompt string) []*types.Message {
	messages := prompts.BuildMessages(systemPrompt, c.conv.GetAll())

	if c.contextLimit > 0 {
		current := c.compactor.Tokens(messages)
		if c.compactor.ShouldRun(current, c.contextLimit) && c.compactor.Compact(c.conv) > 0 {
			messages = prompts.BuildMessages(systemPrompt, c.conv.GetAll())
			agentLog.Debugf("Conversation compacted: %d -> %d tokens", current, c.compactor.Tokens(messages))
		}
	}
	return messages
}

// callModel sends messages to the provider. Failures here are fatal: the
// provider has already retried transient errors.
func (c *Coordinator) callModel(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	if c.tokenizer != nil {
		agentLog.Debugf("Prompt tokens before send: %d", c.tokenizer.CountMessagesTokens(messages))
	}
	c.emitEvent(types.NewAPICallStartEvent(c.iteration, len(messages)))

	reply, err := c.provider.Complete(ctx, messages)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		err = fmt.Errorf("model call failed: %w", err)
		c.emitEvent(types.NewErrorEvent(err))
		return nil, err
	}
	return reply, nil
}

// handleNoAction escalates through the hints and ends the task once the
// model has failed to act noActionLimit times in a row.
func (c *Coordinator) handleNoAction() *Outcome {
	c.noActions++
	agentLog.Warnf("No tool calls in response (attempt %d/%d)", c.noActions, c.noActionLimit)
	c.emitEvent(types.NewNoToolCallEvent(c.noActions))

	if c.noActions >= c.noActionLimit {
		return c.exhausted(prompts.NoActionExhausted(c.noActionLimit))
	}

	hint := prompts.NoActionHint(c.noActions, c.registry.Names())
	c.conv.Add(types.NewUserMessage(hint))
	c.emitEvent(types.NewHintEvent(hint))
	return nil
}

// trackResult updates the consecutive failure counter and injects the
// recovery hint when it reaches the limit.
func (c *Coordinator) trackResult(res tools.Result) {
	if !res.IsFailure() {
		c.failures = 0
		return
	}

	c.failures++
	agentLog.Infof("Consecutive failures: %d/%d", c.failures, c.failureLimit)
	if c.failures < c.failureLimit {
		return
	}

	agentLog.Warnf("Multiple consecutive failures, suggesting recovery")
	c.conv.Add(types.NewUserMessage(prompts.FailureRecoveryHint))
	c.emitEvent(types.NewHintEvent(prompts.FailureRecoveryHint))
	c.failures = 0
}
