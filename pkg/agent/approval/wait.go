package approval

import (
	"context"
	"time"
)

type answer struct {
	ok  bool
	err error
}

// waitForAnswer runs ask on its own goroutine and waits for it, the
// timeout, or ctx. The goroutine has always exited by the time this returns.
func waitForAnswer(ctx context.Context, timeout time.Duration, ask func(context.Context) (bool, error)) (bool, bool, error) {
	promptCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	answers := make(chan answer, 1)
	go func() {
		ok, err := ask(promptCtx)
		answers <- answer{ok: ok, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case a := <-answers:
		if a.err != nil {
			return false, false, a.err
		}
		return a.ok, false, nil

	case <-ctx.Done():
		cancel(ctx.Err())
		<-answers
		return false, false, ctx.Err()

	case <-expired:
		cancel(errPromptTimeout)
		<-answers
		return false, true, nil
	}
}
