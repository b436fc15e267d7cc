package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/security/selector"
)

type tabIndexArgs struct {
	XMLName  xml.Name `xml:"arguments"`
	TabIndex int      `xml:"tab_index"`
}

func tabIndexSchema(description string) map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"tab_index": tools.IntegerProperty(description, 0),
		},
		[]string{"tab_index"},
	)
}

// ListTabsTool lists the open tabs.
type ListTabsTool struct {
	browser Browser
}

// NewListTabsTool creates the tool.
func NewListTabsTool(b Browser) *ListTabsTool {
	return &ListTabsTool{browser: b}
}

func (t *ListTabsTool) Name() string {
	return "list_tabs"
}

func (t *ListTabsTool) Description() string {
	return "List all open tabs with their index, title and URL. Links that open a new tab show up here."
}

func (t *ListTabsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *ListTabsTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	tabs, err := t.browser.ListTabs()
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to list tabs: %v", err)), nil
	}
	if len(tabs) == 0 {
		return tools.OK("No tabs open"), nil
	}

	lines := []string{fmt.Sprintf("Found %d open tab(s):", len(tabs))}
	for _, tab := range tabs {
		marker := ""
		if tab.Active {
			marker = " [ACTIVE]"
		}
		lines = append(lines, fmt.Sprintf("%d. %s - %s%s", tab.Index, clip(tab.Title, 50), clip(tab.URL, 60), marker))
	}
	return tools.OK(strings.Join(lines, "\n")), nil
}

// SwitchToTabTool makes another tab active.
type SwitchToTabTool struct {
	browser Browser
}

// NewSwitchToTabTool creates the tool.
func NewSwitchToTabTool(b Browser) *SwitchToTabTool {
	return &SwitchToTabTool{browser: b}
}

func (t *SwitchToTabTool) Name() string {
	return "switch_to_tab"
}

func (t *SwitchToTabTool) Description() string {
	return "Switch to another open tab by index. Use list_tabs first to see the indices."
}

func (t *SwitchToTabTool) Schema() map[string]interface{} {
	return tabIndexSchema("Zero-based index of the tab to switch to (0 = first tab)")
}

func (t *SwitchToTabTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input tabIndexArgs
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if err := t.browser.SwitchToTab(input.TabIndex); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to switch to tab: %v", err)), nil
	}

	tabs, err := t.browser.ListTabs()
	if err != nil || input.TabIndex >= len(tabs) {
		return tools.OK(fmt.Sprintf("Switched to tab %d", input.TabIndex)), nil
	}
	tab := tabs[input.TabIndex]
	return tools.OK(fmt.Sprintf("Switched to tab %d: %s - %s", input.TabIndex, clip(tab.Title, 50), clip(tab.URL, 60))), nil
}

// CloseTabTool closes a tab. The last remaining tab cannot be closed.
type CloseTabTool struct {
	browser Browser
}

// NewCloseTabTool creates the tool.
func NewCloseTabTool(b Browser) *CloseTabTool {
	return &CloseTabTool{browser: b}
}

func (t *CloseTabTool) Name() string {
	return "close_tab"
}

func (t *CloseTabTool) Description() string {
	return "Close a tab by index. If the active tab is closed, a neighbouring tab becomes active. The last tab cannot be closed."
}

func (t *CloseTabTool) Schema() map[string]interface{} {
	return tabIndexSchema("Zero-based index of the tab to close (0 = first tab)")
}

func (t *CloseTabTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input tabIndexArgs
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	tabs, err := t.browser.ListTabs()
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to close tab: %v", err)), nil
	}
	if input.TabIndex < 0 || input.TabIndex >= len(tabs) {
		return tools.Failure(fmt.Sprintf("Invalid tab index: %d", input.TabIndex)), nil
	}

	title := tabs[input.TabIndex].Title
	if err := t.browser.CloseTab(input.TabIndex); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to close tab: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Closed tab %d: %s", input.TabIndex, clip(title, 50))), nil
}

// SwitchToFrameTool scopes later actions to the inside of an iframe.
type SwitchToFrameTool struct {
	browser Browser
}

// NewSwitchToFrameTool creates the tool.
func NewSwitchToFrameTool(b Browser) *SwitchToFrameTool {
	return &SwitchToFrameTool{browser: b}
}

func (t *SwitchToFrameTool) Name() string {
	return "switch_to_frame"
}

func (t *SwitchToFrameTool) Description() string {
	return "Enter an iframe, such as an embedded payment or login form. Later actions, overviews and searches target " +
		"elements inside it until switch_to_main_content. Examples: 'iframe#payment-form', 'iframe[name=\"checkout\"]'."
}

func (t *SwitchToFrameTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty("Selector for the iframe element. " + locatorHelp),
		},
		[]string{"selector"},
	)
}

func (t *SwitchToFrameTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		Selector string   `xml:"selector"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if msg := selector.Check(input.Selector, t.Name()); msg != "" {
		return tools.Failure(msg), nil
	}

	if err := t.browser.SwitchToFrame(input.Selector); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to switch to iframe: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Switched to iframe: %s. Selectors now resolve inside the iframe; call switch_to_main_content to leave it.", input.Selector)), nil
}

// SwitchToMainContentTool leaves any iframe scope.
type SwitchToMainContentTool struct {
	browser Browser
}

// NewSwitchToMainContentTool creates the tool.
func NewSwitchToMainContentTool(b Browser) *SwitchToMainContentTool {
	return &SwitchToMainContentTool{browser: b}
}

func (t *SwitchToMainContentTool) Name() string {
	return "switch_to_main_content"
}

func (t *SwitchToMainContentTool) Description() string {
	return "Leave the current iframe and target the main page again."
}

func (t *SwitchToMainContentTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *SwitchToMainContentTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	t.browser.SwitchToMainContent()
	return tools.OK("Switched back to main page content (exited iframe context)."), nil
}
