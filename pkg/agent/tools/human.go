package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// RequestHumanHelpToolName pauses the agent for manual work.
	RequestHumanHelpToolName = "request_human_help"
	// RequestConfirmationToolName asks before a risky action.
	RequestConfirmationToolName = "request_confirmation"
)

// RequestHumanHelpTool hands the browser to the human for work the agent
// cannot do itself, such as CAPTCHAs, logins or two-factor prompts.
type RequestHumanHelpTool struct{}

// NewRequestHumanHelpTool creates the tool.
func NewRequestHumanHelpTool() *RequestHumanHelpTool {
	return &RequestHumanHelpTool{}
}

func (t *RequestHumanHelpTool) Name() string {
	return RequestHumanHelpToolName
}

func (t *RequestHumanHelpTool) Description() string {
	return "Pause and ask the human to act in the browser window, for example to solve a CAPTCHA, " +
		"enter credentials or approve a two-factor prompt. Describe exactly what they should do. " +
		"A fresh page overview is provided after they finish."
}

func (t *RequestHumanHelpTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"description": StringProperty("What the human needs to do before you can continue."),
		},
		[]string{"description"},
	)
}

func (t *RequestHumanHelpTool) Execute(ctx context.Context, argsXML []byte) (Result, error) {
	var args struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
	}
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return Result{}, fmt.Errorf("invalid arguments for %s: %w", RequestHumanHelpToolName, err)
	}

	desc := strings.TrimSpace(args.Description)
	if desc == "" {
		return Result{}, fmt.Errorf("description cannot be empty")
	}
	return HumanHelp(desc), nil
}

// RequestConfirmationTool asks the human to approve an action that spends
// money, deletes data or cannot be undone.
type RequestConfirmationTool struct{}

// NewRequestConfirmationTool creates the tool.
func NewRequestConfirmationTool() *RequestConfirmationTool {
	return &RequestConfirmationTool{}
}

func (t *RequestConfirmationTool) Name() string {
	return RequestConfirmationToolName
}

func (t *RequestConfirmationTool) Description() string {
	return "Ask the human for permission BEFORE a risky action: purchases or payments (financial), " +
		"deleting data (deletion), or anything that cannot be undone such as sending messages or submitting " +
		"applications (irreversible). Do not perform the action until the result says the user confirmed."
}

func (t *RequestConfirmationTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"description": StringProperty("The exact action you are about to take."),
			"risk_level":  EnumProperty("Category of risk.", RiskFinancial, RiskDeletion, RiskIrreversible),
		},
		[]string{"description", "risk_level"},
	)
}

func (t *RequestConfirmationTool) Execute(ctx context.Context, argsXML []byte) (Result, error) {
	var args struct {
		XMLName     xml.Name `xml:"arguments"`
		Description string   `xml:"description"`
		RiskLevel   string   `xml:"risk_level"`
	}
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return Result{}, fmt.Errorf("invalid arguments for %s: %w", RequestConfirmationToolName, err)
	}

	desc := strings.TrimSpace(args.Description)
	if desc == "" {
		return Result{}, fmt.Errorf("description cannot be empty")
	}

	risk := strings.ToLower(strings.TrimSpace(args.RiskLevel))
	switch risk {
	case RiskFinancial, RiskDeletion, RiskIrreversible:
	default:
		return Result{}, fmt.Errorf("risk_level must be one of %s, %s, %s; got %q", RiskFinancial, RiskDeletion, RiskIrreversible, args.RiskLevel)
	}

	return Confirmation(desc, risk), nil
}
