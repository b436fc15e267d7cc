package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Sentinel errors matched with errors.Is.
var (
	ErrNotStarted       = errors.New("browser not started")
	ErrTimeout          = errors.New("timed out")
	ErrNotFound         = errors.New("not found")
	ErrInvalidSelector  = errors.New("invalid selector")
	ErrUnsafeURL        = errors.New("unsafe url")
	ErrInvalidKey       = errors.New("invalid key")
	ErrInvalidDirection = errors.New("invalid scroll direction")
	ErrLastTab          = errors.New("cannot close the only open tab")
)

// Kind classifies an ActionError.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTimeout
	KindNotFound
	KindEngine
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// ActionError reports a failed browser primitive.
type ActionError struct {
	Op      string
	Locator string
	Kind    Kind
	Err     error
}

func (e *ActionError) Error() string {
	if e.Locator != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Locator, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err came from an operation that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, playwright.ErrTimeout)
}

// wrapEngine turns a Playwright error into an ActionError, keeping both the
// matching sentinel and the original cause in the chain.
func wrapEngine(op, locator string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return &ActionError{Op: op, Locator: locator, Kind: KindTimeout, Err: fmt.Errorf("%w: %w", ErrTimeout, err)}
	}
	return &ActionError{Op: op, Locator: locator, Kind: KindEngine, Err: err}
}

func validationError(op, locator string, sentinel, cause error) error {
	return &ActionError{Op: op, Locator: locator, Kind: KindValidation, Err: fmt.Errorf("%w: %w", sentinel, cause)}
}

func notFoundError(op, locator string, format string, args ...interface{}) error {
	return &ActionError{Op: op, Locator: locator, Kind: KindNotFound, Err: fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))}
}
