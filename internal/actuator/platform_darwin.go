package actuator

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// runAppleScript executes an AppleScript and returns its trimmed output.
func runAppleScript(ctx context.Context, runner Runner, script string) (string, error) {
	out, err := runner.Run(ctx, "osascript", "-e", script)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// darwinVolume sets the output volume through AppleScript. Levels are 0..100.
type darwinVolume struct {
	runner Runner
}

func newPlatformVolume(ctx context.Context, runner Runner) (VolumeSetter, error) {
	if _, err := lookTool("osascript"); err != nil {
		return nil, err
	}
	out, err := runAppleScript(ctx, runner, `output volume of (get volume settings)`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioEndpoint, err)
	}
	// Without an output device AppleScript reports "missing value".
	if out == "" || out == "missing value" {
		return nil, ErrNoAudioEndpoint
	}
	return &darwinVolume{runner: runner}, nil
}

func (v *darwinVolume) Range() (float64, float64) {
	return 0, 100
}

func (v *darwinVolume) SetVolume(ctx context.Context, level float64) error {
	_, err := runAppleScript(ctx, v.runner, fmt.Sprintf("set volume output volume %d", int(level)))
	return wrap("set-volume", err)
}

// darwinBrightness uses the `brightness` CLI for built-in panels, or m1ddc
// for external monitors on Apple Silicon.
type darwinBrightness struct {
	runner Runner
	tool   string
	ddc    bool
}

func newPlatformBrightness(runner Runner) (BrightnessSetter, error) {
	if path, err := lookTool("brightness", "/usr/local/bin/brightness", "/opt/homebrew/bin/brightness"); err == nil {
		return &darwinBrightness{runner: runner, tool: path}, nil
	}
	path, err := lookTool("m1ddc", "/usr/local/bin/m1ddc", "/opt/homebrew/bin/m1ddc")
	if err != nil {
		return nil, err
	}
	return &darwinBrightness{runner: runner, tool: path, ddc: true}, nil
}

func (b *darwinBrightness) SetBrightness(ctx context.Context, percent int) error {
	var err error
	if b.ddc {
		_, err = b.runner.Run(ctx, b.tool, "set", "luminance", fmt.Sprintf("%d", percent))
	} else {
		_, err = b.runner.Run(ctx, b.tool, fmt.Sprintf("%.2f", float64(percent)/100))
	}
	return wrap("set-brightness", err)
}

// darwinWindows drives windows through System Events accessibility scripting.
// A handle's ID is the owning process name.
type darwinWindows struct {
	runner Runner
}

func newPlatformWindows(runner Runner) (WindowController, error) {
	if _, err := lookTool("osascript"); err != nil {
		return nil, err
	}
	return &darwinWindows{runner: runner}, nil
}

// Launch opens an application bundle by name or path, or runs an executable.
func (w *darwinWindows) Launch(path string) (*os.Process, error) {
	if !strings.Contains(path, "/") || strings.HasSuffix(path, ".app") {
		return startProcess("open", "-a", path)
	}
	return startProcess(path)
}

func (w *darwinWindows) LookupWindow(ctx context.Context, title string) (WindowHandle, error) {
	script := fmt.Sprintf(`tell application "System Events"
	repeat with p in (every process whose background only is false)
		repeat with w in (every window of p)
			if name of w is %s then return name of p
		end repeat
	end repeat
end tell
return ""`, appleScriptString(title))

	owner, err := runAppleScript(ctx, w.runner, script)
	if err != nil {
		return WindowHandle{}, wrap("lookup-window", err)
	}
	if owner == "" {
		return WindowHandle{}, wrap("lookup-window", ErrWindowNotFound)
	}
	return WindowHandle{ID: owner, Title: title, Owner: owner}, nil
}

func (w *darwinWindows) windowRef(h WindowHandle) string {
	return fmt.Sprintf("window %s of process %s", appleScriptString(h.Title), appleScriptString(h.ID))
}

func (w *darwinWindows) Activate(ctx context.Context, h WindowHandle) error {
	script := fmt.Sprintf(`tell application "System Events" to set frontmost of process %s to true`, appleScriptString(h.ID))
	_, err := runAppleScript(ctx, w.runner, script)
	return wrap("activate", err)
}

func (w *darwinWindows) Minimize(ctx context.Context, h WindowHandle) error {
	script := fmt.Sprintf(`tell application "System Events" to set value of attribute "AXMinimized" of %s to true`, w.windowRef(h))
	_, err := runAppleScript(ctx, w.runner, script)
	return wrap("minimize", err)
}

func (w *darwinWindows) Maximize(ctx context.Context, h WindowHandle) error {
	script := fmt.Sprintf(`tell application "Finder" to set screenBounds to bounds of window of desktop
tell application "System Events"
	set value of attribute "AXMinimized" of %[1]s to false
	set position of %[1]s to {item 1 of screenBounds, 25}
	set size of %[1]s to {item 3 of screenBounds, (item 4 of screenBounds) - 25}
end tell`, w.windowRef(h))
	_, err := runAppleScript(ctx, w.runner, script)
	return wrap("maximize", err)
}
