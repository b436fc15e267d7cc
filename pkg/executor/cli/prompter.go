package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/entrhq/webpilot/pkg/agent/approval"
	"github.com/entrhq/webpilot/pkg/logging"
)

var promptLog *logging.Logger

func init() {
	var err error
	promptLog, err = logging.NewLogger("prompter")
	if err != nil {
		promptLog.Warnf("falling back to stderr logging: %v", err)
	}
}

// ConsolePrompter asks the human on a terminal. It implements
// approval.Prompter.
//
// Input is read by a single goroutine started on first use, so a prompt can
// return on cancellation while a read is still pending. That goroutine ends
// when the input reaches EOF. Lines typed after a prompt was abandoned are
// discarded before the next prompt is shown.
type ConsolePrompter struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan line

	// mu serializes prompts so answers are never interleaved. It also
	// guards abandoned.
	mu        sync.Mutex
	abandoned bool
}

// lineBuffer bounds how far the reader runs ahead of the prompts.
const lineBuffer = 16

type line struct {
	text string
	err  error
}

var _ approval.Prompter = (*ConsolePrompter)(nil)

// NewConsolePrompter creates a prompter reading answers from in and writing
// questions to out.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: in, out: out}
}

// Confirm shows the request and asks until it gets yes or no.
func (p *ConsolePrompter) Confirm(ctx context.Context, req approval.ConfirmationRequest) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discardStale()

	title := "⚠ Confirmation required"
	if req.Risk != "" {
		title += " (" + req.Risk + ")"
	}
	fmt.Fprintln(p.out, promptBoxStyle.Render(hintStyle.Bold(true).Render(title)+"\n"+req.Description))

	for {
		fmt.Fprint(p.out, "Proceed? [y/n]: ")
		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, subtleStyle.Render("Please answer yes or no."))
	}
}

// AwaitIntervention shows the request and waits for Enter.
func (p *ConsolePrompter) AwaitIntervention(ctx context.Context, req approval.InterventionRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discardStale()

	fmt.Fprintln(p.out, promptBoxStyle.Render(hintStyle.Bold(true).Render("✋ Your help is needed")+"\n"+req.Description))
	fmt.Fprint(p.out, "Complete this in the browser, then press Enter to continue...")

	_, err := p.readLine(ctx)
	fmt.Fprintln(p.out)
	return err
}

// Ask prints question and returns the trimmed answer line.
func (p *ConsolePrompter) Ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discardStale()

	fmt.Fprint(p.out, taskStyle.Render(question))
	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (p *ConsolePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(p.startReader)

	select {
	case <-ctx.Done():
		p.abandoned = true
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", fmt.Errorf("failed to read answer: %w", io.EOF)
		}
		if l.err != nil {
			return "", fmt.Errorf("failed to read answer: %w", l.err)
		}
		return l.text, nil
	}
}

// discardStale drops input queued for a prompt that gave up waiting, so a
// late answer never lands on a different question.
func (p *ConsolePrompter) discardStale() {
	if !p.abandoned {
		return
	}
	p.abandoned = false

	for {
		select {
		case l, ok := <-p.lines:
			if !ok {
				return
			}
			if l.err == nil {
				promptLog.Debugf("Discarded input typed after an abandoned prompt: %q", l.text)
			}
		default:
			return
		}
	}
}

func (p *ConsolePrompter) startReader() {
	p.lines = make(chan line, lineBuffer)
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			p.lines <- line{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			p.lines <- line{err: err}
		}
	}()
}
