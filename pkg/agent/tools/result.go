package tools

import "strings"

// Kind tells the Coordinator what to do with a Result beyond recording it.
type Kind int

const (
	// KindOK is plain output for the conversation.
	KindOK Kind = iota
	// KindNeedsConfirmation pauses for a yes/no from the human.
	KindNeedsConfirmation
	// KindNeedsHumanHelp pauses until the human hands control back.
	KindNeedsHumanHelp
	// KindComplete ends the task.
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNeedsConfirmation:
		return "needs_confirmation"
	case KindNeedsHumanHelp:
		return "needs_human_help"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Risk levels accepted by request_confirmation.
const (
	RiskFinancial    = "financial"
	RiskDeletion     = "deletion"
	RiskIrreversible = "irreversible"
)

// Result is the outcome of one tool call.
type Result struct {
	Text        string
	Description string
	Risk        string
	Summary     string
	Kind        Kind
	Failed      bool
}

// OK returns a plain result.
func OK(text string) Result {
	return Result{Kind: KindOK, Text: text}
}

// Failure returns a plain result marked as failed.
func Failure(text string) Result {
	return Result{Kind: KindOK, Text: text, Failed: true}
}

// Confirmation asks the human to approve a risky action.
func Confirmation(description, risk string) Result {
	return Result{
		Kind:        KindNeedsConfirmation,
		Description: description,
		Risk:        risk,
		Text:        "Awaiting confirmation: " + description,
	}
}

// HumanHelp asks the human to take over the browser.
func HumanHelp(description string) Result {
	return Result{
		Kind:        KindNeedsHumanHelp,
		Description: description,
		Text:        "Awaiting human help: " + description,
	}
}

// Completion ends the task with summary.
func Completion(summary string) Result {
	return Result{Kind: KindComplete, Summary: summary, Text: summary}
}

// IsFailure reports whether the result should count against the consecutive
// failure budget. Text starting with "Error" or "Failed" counts even when the
// handler did not set Failed.
func (r Result) IsFailure() bool {
	if r.Failed {
		return true
	}
	return strings.HasPrefix(r.Text, "Error") || strings.HasPrefix(r.Text, "Failed")
}
