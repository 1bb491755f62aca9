// Package app runs the mudra frame loop: capture a frame, detect hands,
// drive volume, brightness, and the editor window, then draw and display.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/editor"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// WaitKeyMillis is how long each frame waits for a key press.
const WaitKeyMillis = 5

// Config wires the loop's collaborators. Hub, Store, and OnCommand are optional.
type Config struct {
	Camera     capture.Camera
	Detector   detector.Detector
	Volume     actuator.VolumeSetter
	Brightness actuator.BrightnessSetter
	Editor     *editor.Session
	Display    overlay.Display

	Hub   *server.Hub
	Store *store.Store

	// OnCommand is called on the loop goroutine after an editor command runs.
	OnCommand func(cmd gesture.Command, state gesture.EditorState)

	Logger *slog.Logger
}

// App owns the frame loop. Only Run's goroutine touches the editor session;
// SetPaused and the counters are safe from anywhere.
type App struct {
	config      Config
	logger      *slog.Logger
	volumeRange gesture.Range
	journal     *journal

	paused atomic.Bool
	frames atomic.Int64

	// actuator failures already reported at warn, keyed by op and kind
	reported map[string]bool
}

// New validates config and creates an App.
func New(config Config) (*App, error) {
	var missing []error
	if config.Camera == nil {
		missing = append(missing, errors.New("camera"))
	}
	if config.Detector == nil {
		missing = append(missing, errors.New("detector"))
	}
	if config.Volume == nil {
		missing = append(missing, errors.New("volume"))
	}
	if config.Brightness == nil {
		missing = append(missing, errors.New("brightness"))
	}
	if config.Editor == nil {
		missing = append(missing, errors.New("editor"))
	}
	if config.Display == nil {
		missing = append(missing, errors.New("display"))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("app: missing %w", errors.Join(missing...))
	}

	logger := logging.OrDefault(config.Logger).With("component", "app")
	min, max := config.Volume.Range()

	return &App{
		config:      config,
		logger:      logger,
		volumeRange: gesture.Range{Min: min, Max: max},
		journal:     newJournal(config.Store, logger),
		reported:    make(map[string]bool),
	}, nil
}

// SetPaused stops or resumes actuation. Frames keep flowing while paused.
func (a *App) SetPaused(paused bool) {
	if a.paused.Swap(paused) != paused {
		a.logger.Info("gesture control toggled", "paused", paused)
	}
}

// Paused reports whether actuation is paused.
func (a *App) Paused() bool {
	return a.paused.Load()
}

// Frames returns the number of frames processed so far.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Run opens the camera and processes frames until ESC is pressed, ctx is
// cancelled, or the camera goes away. The camera is closed on every path.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			a.logger.Error("close camera", "error", err)
		}
	}()

	a.journal.start()
	defer func() { a.journal.finish(a.Frames()) }()

	a.logger.Info("frame loop started")

	for {
		if err := ctx.Err(); err != nil {
			a.logger.Info("frame loop stopped", "reason", "cancelled")
			return nil
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrCameraNotOpen) || !a.config.Camera.IsOpen() {
				a.logger.Info("frame loop stopped", "reason", "camera closed")
				return nil
			}
			a.logger.Debug("skipping frame", "error", err)
			continue
		}

		key := a.processFrame(ctx, frame)
		frame.Close()

		if key == overlay.KeyEscape {
			a.logger.Info("frame loop stopped", "reason", "escape")
			return nil
		}
	}
}
