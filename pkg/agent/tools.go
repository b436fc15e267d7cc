package agent

import (
	"github.com/entrhq/webpilot/pkg/agent/prompts"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/llm"
	browsertools "github.com/entrhq/webpilot/pkg/tools/browser"
)

// NewCoordinatorRegistry registers the browser tools, the loop control tools
// and, when delegates is non-nil, delegate_to_subagent.
func NewCoordinatorRegistry(b browsertools.Browser, pages browsertools.Snapshotter, screenshotDir string, delegates *DelegateTool) *tools.Registry {
	r := tools.NewRegistry(browsertools.CoordinatorTools(b, pages, screenshotDir)...)
	r.Register(tools.NewTaskCompleteTool())
	r.Register(tools.NewRequestHumanHelpTool())
	r.Register(tools.NewRequestConfirmationTool())
	if delegates != nil {
		r.Register(delegates)
	}
	return r
}

// NewDelegates builds the navigator, form_filler and data_reader sub-agents
// over the shared browser.
func NewDelegates(provider llm.Provider, b browsertools.Browser, pages browsertools.Snapshotter, opts ...DelegateOption) []*Delegate {
	return []*Delegate{
		NewDelegate(prompts.RoleNavigator, provider, tools.NewRegistry(browsertools.NavigatorTools(b, pages)...), pages, opts...),
		NewDelegate(prompts.RoleFormFiller, provider, tools.NewRegistry(browsertools.FormFillerTools(b, pages)...), pages, opts...),
		NewDelegate(prompts.RoleDataReader, provider, tools.NewRegistry(browsertools.DataReaderTools(b, pages)...), pages, opts...),
	}
}
