package actuator

import (
	"context"
	"fmt"
)

// NewVolume returns the platform volume setter. It fails when no usable
// audio endpoint or tool exists; callers treat that as fatal.
func NewVolume(ctx context.Context, runner Runner) (VolumeSetter, error) {
	v, err := newPlatformVolume(ctx, runner)
	if err != nil {
		return nil, wrap("open-volume", err)
	}
	return v, nil
}

// NewBrightness returns the platform brightness setter. When none is
// available it returns a setter whose calls fail with ErrUnsupported,
// together with the reason.
func NewBrightness(runner Runner) (BrightnessSetter, error) {
	b, err := newPlatformBrightness(runner)
	if err != nil {
		return unsupportedBrightness{reason: err}, wrap("open-brightness", err)
	}
	return b, nil
}

// NewWindowController returns the platform window controller.
func NewWindowController(runner Runner) (WindowController, error) {
	w, err := newPlatformWindows(runner)
	if err != nil {
		return nil, wrap("open-windows", err)
	}
	return w, nil
}

type unsupportedBrightness struct {
	reason error
}

func (u unsupportedBrightness) SetBrightness(ctx context.Context, percent int) error {
	return &Error{Op: "set-brightness", Kind: KindUnsupported, Err: fmt.Errorf("%w: %v", ErrUnsupported, u.reason)}
}
