package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/webpilot/pkg/agent/tools"
)

// NavigateTool loads a URL in the active tab.
type NavigateTool struct {
	browser Browser
}

// NewNavigateTool creates a new navigate tool.
func NewNavigateTool(b Browser) *NavigateTool {
	return &NavigateTool{browser: b}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "navigate_to"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate the active tab to a URL. A bare hostname such as 'example.com' is opened over https. " +
		"Only public http and https addresses are allowed."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": tools.StringProperty("The URL to navigate to"),
		},
		[]string{"url"},
	)
}

// Execute navigates to a URL.
func (t *NavigateTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	url := strings.TrimSpace(input.URL)
	if _, err := t.browser.Navigate(url, 0); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to navigate to %s: %v", url, err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully navigated to %s", url)), nil
}
