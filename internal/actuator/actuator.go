// Package actuator drives the operating system on behalf of the gesture loop:
// master volume, display brightness, and the editor window.
//
// Each concern is an interface with one implementation per platform. On
// Linux and macOS the platform code shells out to well-known tools (pactl,
// brightnessctl, wmctrl, xdotool, osascript). On Windows it stays in-process:
// Core Audio and WMI over COM, and user32 for windows.
// Every failure is returned as an *Error so callers can log the kind.
package actuator

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"time"
)

// VolumeSetter sets the master output volume in device-native units.
type VolumeSetter interface {
	// Range returns the native unit bounds accepted by SetVolume.
	Range() (min, max float64)
	SetVolume(ctx context.Context, level float64) error
}

// BrightnessSetter sets the display brightness in percent (0..100).
type BrightnessSetter interface {
	SetBrightness(ctx context.Context, percent int) error
}

// WindowHandle identifies a top-level window. The zero value means absent.
type WindowHandle struct {
	ID    string `json:"id"`              // platform window id, or owning process name on macOS
	Title string `json:"title"`           // title the window was matched by
	Owner string `json:"owner,omitempty"` // owning application, when known
}

// Valid reports whether h refers to a window.
func (h WindowHandle) Valid() bool {
	return h.ID != ""
}

// WindowController launches applications and manipulates their windows.
type WindowController interface {
	// Launch starts the application at path and returns its process.
	Launch(path string) (*os.Process, error)

	// LookupWindow performs a single lookup for a window whose title equals
	// title exactly. Returns ErrWindowNotFound when none matches.
	LookupWindow(ctx context.Context, title string) (WindowHandle, error)

	Activate(ctx context.Context, h WindowHandle) error
	Minimize(ctx context.Context, h WindowHandle) error
	Maximize(ctx context.Context, h WindowHandle) error
}

// sleep waits for d or until ctx is done. Replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FindWindow polls wc for a window titled title, making at most attempts
// lookups with delay between consecutive lookups. It gives up early only
// if ctx is cancelled.
func FindWindow(ctx context.Context, wc WindowController, title string, attempts int, delay time.Duration) (WindowHandle, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(ctx, delay); err != nil {
				return WindowHandle{}, wrap("find-window", err)
			}
		}

		h, err := wc.LookupWindow(ctx, title)
		if err == nil && h.Valid() {
			return h, nil
		}
		lastErr = err
	}

	if lastErr == nil || errors.Is(lastErr, ErrWindowNotFound) {
		return WindowHandle{}, &Error{Op: "find-window", Kind: KindWindowNotFound, Err: ErrWindowNotFound}
	}
	return WindowHandle{}, wrap("find-window", lastErr)
}

// startProcess starts name with args without waiting for it.
func startProcess(name string, args ...string) (*os.Process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, wrap("launch", errors.Join(ErrToolNotFound, err))
		}
		return nil, wrap("launch", errors.Join(ErrCommandFailed, err))
	}

	// Reap the child so it does not linger as a zombie once closed.
	go cmd.Wait()

	return cmd.Process, nil
}
