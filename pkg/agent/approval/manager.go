// Package approval pauses the agent for a human: to approve a risky action,
// or to do something in the browser the agent cannot do itself.
package approval

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/webpilot/pkg/types"
)

// EventEmitter is a function type for emitting events
type EventEmitter func(event *types.AgentEvent)

// ConfirmationRequest asks for a yes/no on a risky action.
type ConfirmationRequest struct {
	ID          string
	Description string
	Risk        string
}

// InterventionRequest asks the human to act in the browser and then resume.
type InterventionRequest struct {
	ID          string
	Description string
}

// Prompter talks to the human. Implementations must return promptly once
// ctx is cancelled.
type Prompter interface {
	Confirm(ctx context.Context, req ConfirmationRequest) (bool, error)
	AwaitIntervention(ctx context.Context, req InterventionRequest) error
}

// Manager wraps a Prompter with request ids, events and an optional timeout.
type Manager struct {
	prompter  Prompter
	emitEvent EventEmitter
	timeout   time.Duration
}

// NewManager creates a manager. A timeout of zero waits indefinitely.
func NewManager(prompter Prompter, timeout time.Duration, emitEvent EventEmitter) *Manager {
	if emitEvent == nil {
		emitEvent = func(*types.AgentEvent) {}
	}
	return &Manager{
		prompter:  prompter,
		timeout:   timeout,
		emitEvent: emitEvent,
	}
}

// Timeout returns the configured wait limit.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Confirm asks the human to approve description. A timeout counts as a
// decline and is reported through timedOut. err is non-nil only when ctx is
// cancelled or the prompter fails.
func (m *Manager) Confirm(ctx context.Context, description, risk string) (approved, timedOut bool, err error) {
	req := ConfirmationRequest{
		ID:          uuid.New().String(),
		Description: description,
		Risk:        risk,
	}
	m.emitEvent(types.NewConfirmationRequestEvent(req.ID, description, risk))

	approved, timedOut, err = waitForAnswer(ctx, m.timeout, func(promptCtx context.Context) (bool, error) {
		return m.prompter.Confirm(promptCtx, req)
	})
	switch {
	case err != nil:
		return false, false, err
	case timedOut:
		m.emitEvent(types.NewConfirmationTimeoutEvent(req.ID))
	case approved:
		m.emitEvent(types.NewConfirmationGrantedEvent(req.ID))
	default:
		m.emitEvent(types.NewConfirmationRejectedEvent(req.ID))
	}
	return approved, timedOut, nil
}

// AwaitIntervention blocks until the human says they are done. On timeout
// the agent resumes anyway and timedOut is true.
func (m *Manager) AwaitIntervention(ctx context.Context, description string) (timedOut bool, err error) {
	req := InterventionRequest{
		ID:          uuid.New().String(),
		Description: description,
	}
	m.emitEvent(types.NewInterventionRequestEvent(req.ID, description))

	_, timedOut, err = waitForAnswer(ctx, m.timeout, func(promptCtx context.Context) (bool, error) {
		return true, m.prompter.AwaitIntervention(promptCtx, req)
	})
	if err != nil {
		return false, err
	}
	m.emitEvent(types.NewInterventionResumedEvent(req.ID, timedOut))
	return timedOut, nil
}

// errPromptTimeout cancels the prompt when the manager gives up waiting.
var errPromptTimeout = errors.New("prompt timed out")
