package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/security/selector"
)

// TypeTextTool fills an input with text, replacing what was there.
type TypeTextTool struct {
	browser Browser
}

// NewTypeTextTool creates a new type_text tool.
func NewTypeTextTool(b Browser) *TypeTextTool {
	return &TypeTextTool{browser: b}
}

func (t *TypeTextTool) Name() string {
	return "type_text"
}

func (t *TypeTextTool) Description() string {
	return "Type text into an input field, replacing its current value. Examples: \"input[placeholder='Search']\", " +
		"\"input[name='email']\", \"textarea#message\". Press Enter separately with press_key to submit."
}

func (t *TypeTextTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty(locatorHelp),
			"text":     tools.StringProperty("Text to type"),
		},
		[]string{"selector", "text"},
	)
}

func (t *TypeTextTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		Selector string   `xml:"selector"`
		Text     string   `xml:"text"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if msg := selector.Check(input.Selector, t.Name()); msg != "" {
		return tools.Failure(msg), nil
	}

	if err := t.browser.TypeText(input.Selector, input.Text, 0); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to type text: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully typed text into %s", input.Selector)), nil
}

// PressKeyTool presses a single keyboard key on the active page. A tool made
// by NewRestrictedKeyTool only accepts its allow-list.
type PressKeyTool struct {
	browser     Browser
	allowed     []string
	description string
}

// NewPressKeyTool accepts every key the browser supports.
func NewPressKeyTool(b Browser) *PressKeyTool {
	return &PressKeyTool{
		browser: b,
		allowed: browser.SupportedKeys(),
		description: "Press a keyboard key, for example Enter to submit a search or Escape to close a dialog. " +
			"Options: " + strings.Join(browser.SupportedKeys(), ", ") + ".",
	}
}

// NewRestrictedKeyTool returns a press_key tool that refuses keys outside
// allowed without forwarding them to the browser.
func NewRestrictedKeyTool(b Browser, allowed []string, description string) *PressKeyTool {
	keys := slices.Clone(allowed)
	slices.Sort(keys)
	return &PressKeyTool{browser: b, allowed: keys, description: description}
}

func (t *PressKeyTool) Name() string {
	return "press_key"
}

func (t *PressKeyTool) Description() string {
	return t.description
}

func (t *PressKeyTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"key": tools.EnumProperty("Key to press. Options: "+strings.Join(t.allowed, ", "), t.allowed...),
		},
		[]string{"key"},
	)
}

func (t *PressKeyTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Key     string   `xml:"key"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	key := strings.TrimSpace(input.Key)
	if !slices.Contains(t.allowed, key) {
		return tools.Failure(fmt.Sprintf("Error: key '%s' is not allowed here. Allowed keys: %s", key, strings.Join(t.allowed, ", "))), nil
	}

	if err := t.browser.PressKey(key); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to press key: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully pressed key: %s", key)), nil
}

// ScrollTool scrolls the active page or frame.
type ScrollTool struct {
	browser Browser
}

// NewScrollTool creates a new scroll tool.
func NewScrollTool(b Browser) *ScrollTool {
	return &ScrollTool{browser: b}
}

func (t *ScrollTool) Name() string {
	return "scroll"
}

func (t *ScrollTool) Description() string {
	return "Scroll the page to reveal more content. 'up' and 'down' move by amount pixels; " +
		"'page_up', 'page_down', 'top' and 'bottom' ignore amount."
}

func (t *ScrollTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"direction": tools.EnumProperty("Direction to scroll", browser.ScrollDirections...),
			"amount":    tools.IntegerProperty(fmt.Sprintf("Amount to scroll in pixels for 'up' and 'down' (default %d)", browser.DefaultScrollAmount), 1),
		},
		[]string{"direction"},
	)
}

func (t *ScrollTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName   xml.Name `xml:"arguments"`
		Direction string   `xml:"direction"`
		Amount    *int     `xml:"amount"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	amount := browser.DefaultScrollAmount
	if input.Amount != nil {
		amount = *input.Amount
	}

	if err := t.browser.Scroll(input.Direction, amount); err != nil {
		return tools.Failure(fmt.Sprintf("Failed to scroll: %v", err)), nil
	}
	return tools.OK(fmt.Sprintf("Successfully scrolled %s", input.Direction)), nil
}

// WaitTool waits for an element to become visible.
type WaitTool struct {
	browser Browser
}

// NewWaitTool creates a new wait tool.
func NewWaitTool(b Browser) *WaitTool {
	return &WaitTool{browser: b}
}

func (t *WaitTool) Name() string {
	return "wait_for_element"
}

func (t *WaitTool) Description() string {
	return "Wait for an element to appear, for content that loads after an action. " +
		"Examples: \"div.results\", \"button:has-text('Load More')\"."
}

func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": tools.StringProperty(locatorHelp),
			"timeout":  tools.IntegerProperty(fmt.Sprintf("Timeout in milliseconds (default %d)", browser.DefaultActionTimeout.Milliseconds()), 1),
		},
		[]string{"selector"},
	)
}

func (t *WaitTool) Execute(ctx context.Context, argsXML []byte) (tools.Result, error) {
	var input struct {
		XMLName   xml.Name `xml:"arguments"`
		Selector  string   `xml:"selector"`
		TimeoutMS *int     `xml:"timeout"`
	}
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return tools.Result{}, fmt.Errorf("invalid parameters: %w", err)
	}

	if msg := selector.Check(input.Selector, t.Name()); msg != "" {
		return tools.Failure(msg), nil
	}

	timeout := browser.DefaultActionTimeout
	if input.TimeoutMS != nil {
		timeout = time.Duration(*input.TimeoutMS) * time.Millisecond
	}

	appeared, err := t.browser.WaitFor(input.Selector, timeout)
	if err != nil {
		return tools.Failure(fmt.Sprintf("Failed to wait for %s: %v", input.Selector, err)), nil
	}
	if !appeared {
		return tools.OK(fmt.Sprintf("Element %s did not appear within timeout", input.Selector)), nil
	}
	return tools.OK(fmt.Sprintf("Element %s appeared", input.Selector)), nil
}
