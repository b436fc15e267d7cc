package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// TaskCompleteToolName is the name of the tool that ends a task.
const TaskCompleteToolName = "task_complete"

// TaskCompleteTool lets the agent signal that the user's task is done. The
// Coordinator stops as soon as it sees a Complete result.
type TaskCompleteTool struct{}

// NewTaskCompleteTool creates a new task completion tool
func NewTaskCompleteTool() *TaskCompleteTool {
	return &TaskCompleteTool{}
}

// Name returns the tool's identifier
func (t *TaskCompleteTool) Name() string {
	return TaskCompleteToolName
}

// Description returns a description of what this tool does
func (t *TaskCompleteTool) Description() string {
	return "Signal that the task is complete and report what was accomplished. " +
		"Only call this once the goal is actually reached on the page; include any information the user asked for."
}

// Schema returns the JSON schema for the tool's arguments
func (t *TaskCompleteTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"summary": StringProperty("What was accomplished, including any data the user asked to find."),
		},
		[]string{"summary"},
	)
}

// Execute returns a Complete result carrying the summary.
func (t *TaskCompleteTool) Execute(ctx context.Context, argsXML []byte) (Result, error) {
	var args struct {
		XMLName xml.Name `xml:"arguments"`
		Summary string   `xml:"summary"`
	}

	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return Result{}, fmt.Errorf("invalid arguments for %s: %w", TaskCompleteToolName, err)
	}

	summary := strings.TrimSpace(args.Summary)
	if summary == "" {
		return Result{}, fmt.Errorf("summary cannot be empty")
	}

	return Completion(summary), nil
}
