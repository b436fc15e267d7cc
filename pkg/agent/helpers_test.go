package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	agentcontext "github.com/entrhq/webpilot/pkg/agent/context"
	"github.com/entrhq/webpilot/pkg/agent/approval"
	"github.com/entrhq/webpilot/pkg/agent/tools"
	"github.com/entrhq/webpilot/pkg/types"
)

// scriptedProvider replies with the next scripted response and repeats the
// last one when the script runs out.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  [][]*types.Message
}

func newScriptedProvider(responses ...string) *scriptedProvider {
	return &scriptedProvider{responses: responses}
}

func (p *scriptedProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, messages)
	if p.err != nil {
		return nil, p.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := len(p.requests) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return types.NewAssistantMessage(p.responses[idx]), nil
}

func (p *scriptedProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Provider: "scripted", Name: "scripted"}
}

func (p *scriptedProvider) GetModel() string { return "scripted" }

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// call renders one tool call in the wire format.
func call(name string, args ...string) string {
	var b strings.Builder
	b.WriteString("<tool>\n<server_name>local</server_name>\n")
	fmt.Fprintf(&b, "<tool_name>%s</tool_name>\n<arguments>\n", name)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, "  <%s>%s</%s>\n", args[i], args[i+1], args[i])
	}
	b.WriteString("</arguments>\n</tool>")
	return b.String()
}

// fakeTool records calls and answers with run.
type fakeTool struct {
	name  string
	mu    sync.Mutex
	calls []map[string]interface{}
	run   func(args map[string]interface{}) (tools.Result, error)
}

func newFakeTool(name string, run func(args map[string]interface{}) (tools.Result, error)) *fakeTool {
	if run == nil {
		run = func(map[string]interface{}) (tools.Result, error) {
			return tools.OK(name + " done"), nil
		}
	}
	return &fakeTool{name: name, run: run}
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "fake " + f.name }
func (f *fakeTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

func (f *fakeTool) Execute(_ context.Context, argsXML []byte) (tools.Result, error) {
	args, _ := tools.XMLToMap(argsXML)
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	return f.run(args)
}

func (f *fakeTool) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// stubPages returns numbered snapshots so refreshes can be told apart.
type stubPages struct {
	mu    sync.Mutex
	n     int
	err   error
	bytes int
}

func (s *stubPages) Current() (*agentcontext.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.n++
	overview := fmt.Sprintf("URL: https://shop.example/page%d\nTitle: Page %d", s.n, s.n)
	if s.bytes > 0 {
		overview += "\n" + strings.Repeat("element ", s.bytes/8)
	}
	return &agentcontext.Snapshot{
		URL:      fmt.Sprintf("https://shop.example/page%d", s.n),
		Title:    fmt.Sprintf("Page %d", s.n),
		Overview: overview,
		Counts:   map[string]int{"button": s.n},
	}, nil
}

func (s *stubPages) reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// answerPrompter backs an approval.Manager in tests.
type answerPrompter struct {
	approve bool
	err     error
	helped  int
}

func (p *answerPrompter) Confirm(context.Context, approval.ConfirmationRequest) (bool, error) {
	return p.approve, p.err
}

func (p *answerPrompter) AwaitIntervention(context.Context, approval.InterventionRequest) error {
	p.helped++
	return p.err
}

type eventLog struct {
	mu     sync.Mutex
	events []*types.AgentEvent
}

func (l *eventLog) handle(e *types.AgentEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) ofType(t types.AgentEventType) []*types.AgentEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*types.AgentEvent
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

var errBoom = errors.New("boom")

// contents returns the message contents of a conversation.
func contents(messages []*types.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Content
	}
	return out
}

func countContaining(messages []*types.Message, substr string) int {
	n := 0
	for _, m := range messages {
		if strings.Contains(m.Content, substr) {
			n++
		}
	}
	return n
}
