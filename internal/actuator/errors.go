package actuator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned when running on an unsupported OS
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrToolNotFound is returned when the required external tool is not found
	ErrToolNotFound = errors.New("required tool not found")

	// ErrCommandFailed is returned when the external command fails
	ErrCommandFailed = errors.New("command execution failed")

	// ErrTimeout is returned when an external command exceeds its deadline
	ErrTimeout = errors.New("command timed out")

	// ErrUnsupported is returned by a device that has no usable backend
	ErrUnsupported = errors.New("not supported on this system")

	// ErrWindowNotFound is returned when no window matches the requested title
	ErrWindowNotFound = errors.New("window not found")

	// ErrNoAudioEndpoint is returned when no output device is available
	ErrNoAudioEndpoint = errors.New("no audio endpoint available")
)

// Kind classifies an actuator failure.
type Kind int

const (
	KindCommandFailed Kind = iota
	KindToolNotFound
	KindTimeout
	KindUnsupported
	KindWindowNotFound
)

func (k Kind) String() string {
	switch k {
	case KindCommandFailed:
		return "command-failed"
	case KindToolNotFound:
		return "tool-not-found"
	case KindTimeout:
		return "timeout"
	case KindUnsupported:
		return "unsupported"
	case KindWindowNotFound:
		return "window-not-found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error type returned by every actuator call.
type Error struct {
	Op   string // e.g. "set-volume", "minimize"
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrap converts err into an *Error for op, classifying it by the sentinel it wraps.
// A nil err stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, ErrToolNotFound):
		return KindToolNotFound
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrUnsupportedPlatform):
		return KindUnsupported
	case errors.Is(err, ErrWindowNotFound):
		return KindWindowNotFound
	default:
		return KindCommandFailed
	}
}

// KindOf returns the Kind of an actuator error, and false if err is not one.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
