package actuator

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// linuxVolume drives the default PulseAudio/PipeWire sink with pactl,
// falling back to ALSA's amixer. Levels are percent.
type linuxVolume struct {
	runner Runner
	tool   string
	amixer bool
}

func newPlatformVolume(ctx context.Context, runner Runner) (VolumeSetter, error) {
	if path, err := lookTool("pactl"); err == nil {
		out, err := runner.Run(ctx, path, "get-default-sink")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoAudioEndpoint, err)
		}
		if strings.TrimSpace(string(out)) == "" {
			return nil, ErrNoAudioEndpoint
		}
		return &linuxVolume{runner: runner, tool: path}, nil
	}

	path, err := lookTool("amixer")
	if err != nil {
		return nil, err
	}
	if _, err := runner.Run(ctx, path, "sget", "Master"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAudioEndpoint, err)
	}
	return &linuxVolume{runner: runner, tool: path, amixer: true}, nil
}

func (v *linuxVolume) Range() (float64, float64) {
	return 0, 100
}

func (v *linuxVolume) SetVolume(ctx context.Context, level float64) error {
	percent := fmt.Sprintf("%d%%", int(level))
	var err error
	if v.amixer {
		_, err = v.runner.Run(ctx, v.tool, "-q", "sset", "Master", percent)
	} else {
		_, err = v.runner.Run(ctx, v.tool, "set-sink-volume", "@DEFAULT_SINK@", percent)
	}
	return wrap("set-volume", err)
}

// linuxBrightness uses brightnessctl, or xbacklight on older X setups.
type linuxBrightness struct {
	runner     Runner
	tool       string
	xbacklight bool
}

func newPlatformBrightness(runner Runner) (BrightnessSetter, error) {
	if path, err := lookTool("brightnessctl"); err == nil {
		return &linuxBrightness{runner: runner, tool: path}, nil
	}
	path, err := lookTool("xbacklight")
	if err != nil {
		return nil, err
	}
	return &linuxBrightness{runner: runner, tool: path, xbacklight: true}, nil
}

func (b *linuxBrightness) SetBrightness(ctx context.Context, percent int) error {
	var err error
	if b.xbacklight {
		_, err = b.runner.Run(ctx, b.tool, "-set", fmt.Sprintf("%d", percent))
	} else {
		_, err = b.runner.Run(ctx, b.tool, "-q", "set", fmt.Sprintf("%d%%", percent))
	}
	return wrap("set-brightness", err)
}

// linuxWindows manages windows through wmctrl (EWMH). Window managers ignore
// client requests to set _NET_WM_STATE_HIDDEN, so minimizing goes through
// xdotool, which iconifies with an ICCCM WM_CHANGE_STATE message.
type linuxWindows struct {
	runner  Runner
	tool    string
	iconify string // xdotool path, empty when not installed
}

func newPlatformWindows(runner Runner) (WindowController, error) {
	path, err := lookTool("wmctrl")
	if err != nil {
		return nil, err
	}
	w := &linuxWindows{runner: runner, tool: path}
	if xdotool, err := lookTool("xdotool"); err == nil {
		w.iconify = xdotool
	}
	return w, nil
}

func (w *linuxWindows) Launch(path string) (*os.Process, error) {
	return startProcess(path)
}

func (w *linuxWindows) LookupWindow(ctx context.Context, title string) (WindowHandle, error) {
	out, err := w.runner.Run(ctx, w.tool, "-l")
	if err != nil {
		return WindowHandle{}, wrap("lookup-window", err)
	}
	if h, ok := parseWmctrlList(out, title); ok {
		return h, nil
	}
	return WindowHandle{}, wrap("lookup-window", ErrWindowNotFound)
}

// parseWmctrlList finds title in `wmctrl -l` output.
// Format: 0x03a00004  0 hostname Untitled Document 1 - gedit
func parseWmctrlList(out []byte, title string) (WindowHandle, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		// Title may contain runs of spaces; cut the line after the host column.
		line := scanner.Text()
		idx := 0
		for i := 0; i < 3; i++ {
			idx += strings.Index(line[idx:], fields[i]) + len(fields[i])
		}
		name := strings.TrimSpace(line[idx:])
		if name == title {
			return WindowHandle{ID: fields[0], Title: name}, true
		}
	}
	return WindowHandle{}, false
}

func (w *linuxWindows) Activate(ctx context.Context, h WindowHandle) error {
	_, err := w.runner.Run(ctx, w.tool, "-i", "-a", h.ID)
	return wrap("activate", err)
}

func (w *linuxWindows) Minimize(ctx context.Context, h WindowHandle) error {
	if w.iconify == "" {
		return wrap("minimize", fmt.Errorf("%w: xdotool", ErrToolNotFound))
	}
	id, err := strconv.ParseUint(h.ID, 0, 64)
	if err != nil {
		return wrap("minimize", fmt.Errorf("%w: bad window id %q", ErrWindowNotFound, h.ID))
	}
	_, err = w.runner.Run(ctx, w.iconify, "windowminimize", strconv.FormatUint(id, 10))
	return wrap("minimize", err)
}

// Maximize de-iconifies and raises the window with -a, then maximizes it.
func (w *linuxWindows) Maximize(ctx context.Context, h WindowHandle) error {
	if _, err := w.runner.Run(ctx, w.tool, "-i", "-a", h.ID); err != nil {
		return wrap("maximize", err)
	}
	_, err := w.runner.Run(ctx, w.tool, "-i", "-r", h.ID, "-b", "add,maximized_vert,maximized_horz")
	return wrap("maximize", err)
}
