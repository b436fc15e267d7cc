package browser

import (
	"github.com/entrhq/webpilot/pkg/agent/tools"
)

// MutatingTools are the tools after which the page has likely changed.
var MutatingTools = map[string]bool{
	"click":       true,
	"navigate_to": true,
	"scroll":      true,
	"type_text":   true,
	"press_key":   true,
}

// CoordinatorTools returns every browser tool. screenshotDir is where
// take_screenshot writes files.
func CoordinatorTools(b Browser, s Snapshotter, screenshotDir string) []tools.Tool {
	return []tools.Tool{
		NewNavigateTool(b),
		NewClickTool(b),
		NewHoverTool(b),
		NewTypeTextTool(b),
		NewScrollTool(b),
		NewPressKeyTool(b),
		NewWaitTool(b),
		NewGetPageOverviewTool(s),
		NewGetElementDetailsTool(b),
		NewFindElementByTextTool(b),
		NewListTabsTool(b),
		NewSwitchToTabTool(b),
		NewCloseTabTool(b),
		NewSwitchToFrameTool(b),
		NewSwitchToMainContentTool(b),
		NewTakeScreenshotTool(b, screenshotDir),
	}
}

// NavigatorTools moves around a site: links, menus and pages.
func NavigatorTools(b Browser, s Snapshotter) []tools.Tool {
	return []tools.Tool{
		NewNavigateTool(b),
		NewClickTool(b),
		NewHoverTool(b),
		NewScrollTool(b),
		NewWaitTool(b),
		NewGetPageOverviewTool(s),
		NewGetElementDetailsTool(b),
		NewRestrictedKeyTool(b, []string{"Escape"}, "Press Escape to close a popup, modal or menu that blocks navigation."),
	}
}

// FormFillerTools fills and submits forms.
func FormFillerTools(b Browser, s Snapshotter) []tools.Tool {
	return []tools.Tool{
		NewTypeTextTool(b),
		NewClickTool(b),
		NewWaitTool(b),
		NewGetPageOverviewTool(s),
		NewGetElementDetailsTool(b),
		NewRestrictedKeyTool(b, []string{"Enter", "Tab"}, "Press Enter to submit the form or Tab to move to the next field."),
	}
}

// DataReaderTools reads content without changing the page beyond scrolling.
func DataReaderTools(b Browser, s Snapshotter) []tools.Tool {
	return []tools.Tool{
		NewGetPageOverviewTool(s),
		NewGetElementDetailsTool(b),
		NewScrollTool(b),
		NewWaitTool(b),
	}
}
