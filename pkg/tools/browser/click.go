package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/security/selector"
)

const locatorHelp = "Single valid Playwright selector. Must be specific. " +
	"NEVER use comma-separated selectors like 'input, button'."

// ClickTool clicks an element, escalating to a forced and then a scripted
// click when the normal click is intercepted.
type ClickTool struct {
	browser Browser
}

// NewClickTool creates a new click tool.
func NewClickTool(b Browser) *ClickTool {
	return &ClickTool{browser: b}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "click"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click an element on the page. Examples: \"button:has-text('Submit')\", \"a.nav-link:has-text('Jobs')\", " +
		"\"input[type='checkbox'][name='agree']\", or a selector returned by find_element_by_text."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector":    tools.StringProperty(locatorHelp),
			"description": tools.StringProperty("Human-readable description of what element you're clicking"),
		},
		[]string{"selector", "description"},
	)
}

// Execute clicks an element.
func (t *ClickTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Selector    string   `xml:"selector"`
		Description string   `xml:"description"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if msg := selector.Check(input.Selector, t.Name()); msg != "" {
		return tools.Failure(msg), nil
	}

	if err := t.browser.Click(input.Selector, 0); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to click %s: %v", input.Description, err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully clicked: %s", input.Description)), nil
}

// HoverTool moves the pointer over an element, for menus that open on hover.
type HoverTool struct {
	browser Browser
}

// NewHoverTool creates a new hover tool.
func NewHoverTool(b Browser) *HoverTool {
	return &HoverTool{browser: b}
}

func (t *HoverTool) Name() string {
	return "hover"
}

func (t *HoverTool) Description() string {
	return "Hover over an element to reveal dropdowns or tooltips. Examples: \"nav a:has-text('Products')\", \".dropdown-trigger\"."
}

func (t *HoverTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector":    tools.StringProperty(locatorHelp),
			"description": tools.StringProperty("Human-readable description of what element you're hovering over"),
		},
		[]string{"selector", "description"},
	)
}

func (t *HoverTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Selector    string   `xml:"selector"`
		Description string   `xml:"description"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if msg := selector.Check(input.Selector, t.Name()); msg != "" {
		return tools.Failure(msg), nil
	}

	if err := t.browser.Hover(input.Selector, 0); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to hover over %s: %v", input.Description, err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully hovered over: %s", input.Description)), nil
}
