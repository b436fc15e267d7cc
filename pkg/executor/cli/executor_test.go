package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/agent"
	"github.com/entrhq/webpilot/pkg/agent/approval"
	"github.com/entrhq/webpilot/pkg/types"
)

type runnerFunc func(ctx context.Context, task string) (*agent.Outcome, error)

func (f runnerFunc) Run(ctx context.Context, task string) (*agent.Outcome, error) {
	return f(ctx, task)
}

func TestExecutorRun(t *testing.T) {
	var out bytes.Buffer
	exec := NewExecutor(&out)

	outcome, err := exec.Run(t.Context(), runnerFunc(func(_ context.Context, task string) (*agent.Outcome, error) {
		exec.HandleEvent(types.NewToolCallEvent("navigate_to", map[string]interface{}{"url": "https://shop.example"}))
		exec.HandleEvent(types.NewToolResultEvent("navigate_to", "Successfully navigated to https://shop.example"))
		return &agent.Outcome{Status: agent.StatusCompleted, Summary: "Found it", Iterations: 2}, nil
	}), "Find the shop")
	require.NoError(t, err)
	assert.Equal(t, "Found it", outcome.Summary)

	text := out.String()
	assert.Contains(t, text, "Task: Find the shop")
	assert.Contains(t, text, `navigate_to url="https://shop.example"`)
	assert.Contains(t, text, "Successfully navigated")
	assert.Contains(t, text, "Task completed after 2 iterations")
	assert.Contains(t, text, "Found it")
}

func TestExecutorRunExhausted(t *testing.T) {
	var out bytes.Buffer
	exec := NewExecutor(&out)

	_, err := exec.Run(t.Context(), runnerFunc(func(context.Context, string) (*agent.Outcome, error) {
		return &agent.Outcome{Status: agent.StatusExhausted, Summary: "Maximum iterations (5) reached.", Iterations: 5}, nil
	}), "x")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Task stopped after 5 iterations")
}

func TestExecutorRunError(t *testing.T) {
	exec := NewExecutor(io.Discard)
	boom := errors.New("model call failed")

	_, err := exec.Run(t.Context(), runnerFunc(func(context.Context, string) (*agent.Outcome, error) {
		return nil, boom
	}), "x")
	assert.ErrorIs(t, err, boom)
}

func TestHandleEvent(t *testing.T) {
	delegated := types.NewToolCallEvent("click_element", nil)
	delegated.Agent = "navigator"

	hint := types.NewHintEvent("Your last response contained no tool call.\nmore")

	tests := []struct {
		name    string
		event   *types.AgentEvent
		opts    []ExecutorOption
		want    string
		wantNot string
	}{
		{name: "failure", event: types.NewToolResultErrorEvent("click_element", "Error: no element"), want: "click_element: Error: no element"},
		{name: "delegate start", event: types.NewDelegateStartEvent("form_filler", "Fill the address"), want: "form_filler Fill the address"},
		{name: "delegate steps hidden", event: delegated, wantNot: "click_element"},
		{name: "delegate steps shown", event: delegated, opts: []ExecutorOption{WithDelegateDetail(true)}, want: "[navigator]"},
		{name: "hint hidden", event: hint, wantNot: "tool call"},
		{name: "hint verbose", event: hint, opts: []ExecutorOption{WithVerbose(true)}, want: "Your last response contained no tool call.", wantNot: "more"},
		{name: "declined", event: types.NewConfirmationRejectedEvent("id"), want: "Declined"},
		{name: "error", event: types.NewErrorEvent(errors.New("boom")), want: "Error: boom"},
		{name: "long result clipped", event: types.NewToolResultEvent("extract_text", strings.Repeat("a", 400)), want: strings.Repeat("a", maxResultLength) + "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			NewExecutor(&out, tt.opts...).HandleEvent(tt.event)
			if tt.want != "" {
				assert.Contains(t, out.String(), tt.want)
			}
			if tt.wantNot != "" {
				assert.NotContains(t, out.String(), tt.wantNot)
			}
		})
	}
}

func TestConsolePrompterConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
		asks  int
	}{
		{name: "yes", input: "yes\n", want: true, asks: 1},
		{name: "short no", input: "n\n", want: false, asks: 1},
		{name: "case and spaces", input: "  Y \n", want: true, asks: 1},
		{name: "re-asks on junk", input: "maybe\n\nno\n", want: false, asks: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewConsolePrompter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm(t.Context(), approval.ConfirmationRequest{ID: "1", Description: "Pay $42", Risk: "financial"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.asks, strings.Count(out.String(), "Proceed? [y/n]"))
			assert.Contains(t, out.String(), "Pay $42")
			assert.Contains(t, out.String(), "financial")
		})
	}
}

func TestConsolePrompterEOF(t *testing.T) {
	p := NewConsolePrompter(strings.NewReader(""), io.Discard)

	_, err := p.Confirm(t.Context(), approval.ConfirmationRequest{Description: "x"})
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsolePrompterIntervention(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("\nyes\n"), &out)

	require.NoError(t, p.AwaitIntervention(t.Context(), approval.InterventionRequest{Description: "Solve the CAPTCHA"}))
	assert.Contains(t, out.String(), "Solve the CAPTCHA")
	assert.Contains(t, out.String(), "press Enter")

	// The next prompt continues with the following line.
	ok, err := p.Confirm(t.Context(), approval.ConfirmationRequest{Description: "Submit"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConsolePrompterCancelled(t *testing.T) {
	// A pipe with no writer blocks the read until the prompt gives up.
	r, w := io.Pipe()
	defer w.Close()

	p := NewConsolePrompter(r, io.Discard)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := p.AwaitIntervention(ctx, approval.InterventionRequest{Description: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsolePrompterDropsLateAnswer(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	p := NewConsolePrompter(r, &out)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Confirm(ctx, approval.ConfirmationRequest{Description: "Pay invoice A"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The human answers A after it gave up.
	_, err = w.Write([]byte("y\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(p.lines) == 1 }, time.Second, time.Millisecond)

	// B never got an answer of its own, so it must not be approved.
	ctx, cancel = context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	ok, err := p.Confirm(ctx, approval.ConfirmationRequest{Description: "Delete account B"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Delete account B")
}

func TestConsolePrompterAsk(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("  Book a table for two  \n"), &out)

	task, err := p.Ask(t.Context(), "Task: ")
	require.NoError(t, err)
	assert.Equal(t, "Book a table for two", task)
	assert.Contains(t, out.String(), "Task: ")
}
