package prompts

import (
	"fmt"
	"strings"
)

// Messages the coordinator injects into the conversation.
const (
	// PageContextUnavailable stands in for the overview when it cannot be read.
	PageContextUnavailable = "(page context unavailable)"

	ConfirmationApproved = "User confirmed the action. You may proceed with the next step."
	ConfirmationDeclined = "User DECLINED the action. Do NOT proceed. The task cannot be completed as requested."
	ConfirmationTimedOut = "No answer from the user before the confirmation timed out. Treat the action as DECLINED and do NOT proceed."

	InterventionCompleted = "Human intervention completed. The user has handled the required action in the browser."
	InterventionTimedOut  = "Human intervention timed out. The user may not have finished; check the page before continuing."

	// FailureRecoveryHint follows several failed tool calls in a row.
	FailureRecoveryHint = `Several tool calls in a row have failed. If you are stuck:
1. Try a different approach or a different tool
2. Call get_page_overview to reassess the page
3. If the problem persists, call request_human_help

What would you like to do next?`
)

// NoActionHint returns the reminder for a response without tool calls.
// attempt counts consecutive empty responses starting at 1, and the
// wording hardens with each attempt.
func NoActionHint(attempt int, toolNames []string) string {
	switch {
	case attempt <= 1:
		return `Your last response contained no tool call. To continue the task you MUST call one of the available tools.

Look at the current situation and choose the next action. Which tool moves the task forward?`
	case attempt == 2:
		lines := make([]string, 0, len(toolNames))
		for _, name := range toolNames {
			lines = append(lines, "  - "+name)
		}
		return fmt.Sprintf(`There is still no tool call in your response. You MUST use one of the available tools to continue.

Available tools:
%s

Based on the page context and the task, which tool should run next? Decide and call it.`, strings.Join(lines, "\n"))
	default:
		return `This is the final attempt. Call a tool now, or call task_complete if the task is done.

If you are unsure how to proceed:
- Missing information: call get_page_overview or get_element_details
- Uncertainty: act on your best guess from the context you have
- Task finished: call task_complete with a summary`
	}
}

// NoActionExhausted is the outcome summary when the model keeps answering
// without tool calls.
func NoActionExhausted(limit int) string {
	return fmt.Sprintf("Agent stopped: no tool calls after %d consecutive attempts.", limit)
}

// MaxIterationsReached is the outcome summary when the loop hits its cap.
func MaxIterationsReached(limit int) string {
	return fmt.Sprintf("Agent reached maximum iterations (%d) without completing the task.", limit)
}

// InitialTaskMessage opens the conversation with the task and the page.
func InitialTaskMessage(task, overview string) string {
	return fmt.Sprintf("Task: %s\n\nCurrent page context:\n%s", task, overview)
}

// PageContextUpdate follows a tool that likely changed the page.
func PageContextUpdate(toolName, overview string) string {
	return fmt.Sprintf("Updated page context after %s:\n%s", toolName, overview)
}

// InterventionContextUpdate follows a completed human intervention.
func InterventionContextUpdate(overview string) string {
	return fmt.Sprintf("Updated page context after human intervention:\n%s\n\nYou can now continue with the task.", overview)
}

// ToolResultMessage wraps a tool's output for the conversation.
func ToolResultMessage(toolName, text string) string {
	return fmt.Sprintf("Tool '%s' result:\n%s", toolName, text)
}

// ParseErrorMessage reports tool blocks the parser could not read.
func ParseErrorMessage(err error) string {
	return fmt.Sprintf("Error: some tool calls could not be parsed and were skipped: %v\nUse the exact <tool> XML format shown in the instructions.", err)
}

// DelegateBudgetExhausted is returned by a sub-agent that ran out of steps.
func DelegateBudgetExhausted(role string) string {
	return fmt.Sprintf("Sub-agent %s reached maximum steps without completing the subtask.", role)
}

// DelegateSubtaskMessage opens a sub-agent conversation.
func DelegateSubtaskMessage(subtask, overview string) string {
	return fmt.Sprintf("Subtask: %s\n\nCurrent page context:\n%s", subtask, overview)
}
