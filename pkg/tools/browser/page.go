package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/security/selector"
)

// GetPageOverviewTool returns the grouped interactive elements of the page,
// trimmed to the context budget.
type GetPageOverviewTool struct {
	snapshots Snapshotter
}

// NewGetPageOverviewTool creates the overview tool.
func NewGetPageOverviewTool(s Snapshotter) *GetPageOverviewTool {
	return &GetPageOverviewTool{snapshots: s}
}

func (t *GetPageOverviewTool) Name() string {
	return "get_page_overview"
}

func (t *GetPageOverviewTool) Description() string {
	return "Get the current URL, title and the visible interactive elements of the page grouped by role. " +
		"Use it to orient yourself before acting."
}

func (t *GetPageOverviewTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (t *GetPageOverviewTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	snap, err := t.snapshots.Current()
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to get page overview: %v", err)), nil
	}
	return tools.OK(snap.Overview), nil
}

// GetElementDetailsTool returns the simplified markup of one element.
type GetElementDetailsTool struct {
	browser Browser
}

// NewGetElementDetailsTool creates the details tool.
func NewGetElementDetailsTool(b Browser) *GetElementDetailsTool {
	return &GetElementDetailsTool{browser: b}
}

func (t *GetElementDetailsTool) Name() string {
	return "get_element_details"
}

func (t *GetElementDetailsTool) Description() string {
	return "Get the simplified HTML inside one container to read its content or pick a precise selector. " +
		"Examples: \".search-form\", \"#product-card-123\", \"nav.main-menu\". NEVER use 'body' or 'html'."
}

func (t *GetElementDetailsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty(locatorHelp),
		},
		[]string{"selector"},
	)
}

func (t *GetElementDetailsTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
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

	detail, err := t.browser.ElementDetail(input.Selector, browser.DefaultDetailLength)
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to get element details for %s: %v", input.Selector, err)), nil
	}
	return tools.OK(detail), nil
}

// FindElementByTextTool lists the best candidates for a visible text, each
// with a selector that targets it exactly.
type FindElementByTextTool struct {
	browser Browser
}

// NewFindElementByTextTool creates the discovery tool.
func NewFindElementByTextTool(b Browser) *FindElementByTextTool {
	return &FindElementByTextTool{browser: b}
}

func (t *FindElementByTextTool) Name() string {
	return "find_element_by_text"
}

func (t *FindElementByTextTool) Description() string {
	return "Find elements whose visible text contains the given text (case-sensitive) and get a reliable selector for each. " +
		"Use it when the overview is ambiguous or a selector failed. Interactive elements are listed first."
}

func (t *FindElementByTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"text": tools.StringProperty("Text content to search for. Can be partial text. Examples: 'Submit', 'Add to cart'"),
			"role": tools.StringProperty("Optional: filter by element role or tag. Examples: 'button', 'link', 'textbox', 'menuitem'"),
		},
		[]string{"text"},
	)
}

func (t *FindElementByTextTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Text    string   `xml:"text"`
		Role    string   `xml:"role"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	role := strings.TrimSpace(input.Role)
	found, err := t.browser.FindByText(input.Text, role)
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to find elements: %v", err)), nil
	}

	return tools.OK(FormatCandidates(input.Text, role, found)), nil
}

// FormatCandidates renders discovery results for the model.
func FormatCandidates(text, role string, found []browser.ElementCandidate) string {
	if len(found) == 0 {
		msg := fmt.Sprintf("No elements found containing text '%s'", text)
		if role != "" {
			msg += fmt.Sprintf(" with role '%s'", role)
		}
		return msg
	}

	if len(found) == 1 {
		c := found[0]
		return fmt.Sprintf("Found 1 element: %s '%s' %s\nSelector: %s", c.Tag, clip(c.Text, 50), c.ParentContext, c.Locator)
	}

	parts := []string{fmt.Sprintf("Found %d elements containing '%s':", len(found), text)}
	for i, c := range found {
		parts = append(parts, fmt.Sprintf("%d. %s '%s' %s\n   Selector: %s", i+1, c.Tag, clip(c.Text, 50), c.ParentContext, c.Locator))
	}
	parts = append(parts, "\nChoose the appropriate selector from the list above for your next action.")
	return strings.Join(parts, "\n")
}

// TakeScreenshotTool saves a PNG of the active page.
type TakeScreenshotTool struct {
	browser Browser
	dir     string
	now     func() time.Time
}

// NewTakeScreenshotTool saves screenshots under dir when the model gives no
// path. An empty dir means the system temp directory.
func NewTakeScreenshotTool(b Browser, dir string) *TakeScreenshotTool {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "webpilot-screenshots")
	}
	return &TakeScreenshotTool{browser: b, dir: dir, now: time.Now}
}

func (t *TakeScreenshotTool) Name() string {
	return "take_screenshot"
}

func (t *TakeScreenshotTool) Description() string {
	return "Save a PNG screenshot of the current page so the user can review it later."
}

func (t *TakeScreenshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"filename": tools.StringProperty("Optional file name; saved in the screenshot directory"),
			"full_page": map[string]interface{}{
				"type":        "boolean",
				"description": "Capture the whole scrollable page instead of the viewport",
			},
		},
		nil,
	)
}

func (t *TakeScreenshotTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		Filename string   `xml:"filename"`
		FullPage bool     `xml:"full_page"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(input.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("screenshot-%s.png", t.now().Format("20060102-150405"))
	}
	if !strings.HasSuffix(strings.ToLower(name), ".png") {
		name += ".png"
	}
	path := filepath.Join(t.dir, name)

	data, err := t.browser.Screenshot(path, input.FullPage)
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to take screenshot: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Saved screenshot to %s (%d bytes)", path, len(data))), nil
}

// clip shortens s to n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
