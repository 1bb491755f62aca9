package app

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
)

// processFrame handles one captured frame and returns the key pressed
// while it was displayed, or -1.
//
// Per hand, in detection order:
//  1. Interpret fingertips against the current editor state
//  2. Set volume and brightness (skipped while paused)
//  3. Execute the editor command (skipped while paused)
//  4. Draw the overlay
//
// With several hands the last one processed wins for volume and brightness.
func (a *App) processFrame(ctx context.Context, frame *gocv.Mat) int {
	n := a.frames.Add(1)
	width, height := frame.Cols(), frame.Rows()
	paused := a.paused.Load()

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.logger.Warn("hand detection failed", "frame", n, "error", err)
		hands = nil
	}

	readings := make([]gesture.Reading, 0, len(hands))
	for i := range hands {
		r := gesture.Interpret(&hands[i], width, height, a.volumeRange, a.config.Editor.State())

		if paused {
			r.Command = gesture.CommandNone
		} else {
			a.actuate(ctx, r)
		}

		overlay.Draw(frame, r)
		readings = append(readings, r)
	}

	if paused {
		overlay.DrawPaused(frame)
	}

	a.publish(frame, n, paused, readings)

	a.config.Display.Show(frame)
	return a.config.Display.WaitKey(WaitKeyMillis)
}

// actuate applies one hand's reading. Failures are logged and the loop goes on.
func (a *App) actuate(ctx context.Context, r gesture.Reading) {
	if err := a.config.Volume.SetVolume(ctx, r.VolumeLevel); err != nil {
		a.actuatorFailed("set-volume", err)
	}

	if err := a.config.Brightness.SetBrightness(ctx, r.BrightnessPercent); err != nil {
		a.actuatorFailed("set-brightness", err)
	}

	if r.Command == gesture.CommandNone {
		return
	}

	err := a.config.Editor.Execute(ctx, r.Command)
	state := a.config.Editor.State()

	a.journal.command(r.Command, err)
	if err != nil {
		a.logger.Warn("editor command failed", "command", r.Command, "error", err)
	} else {
		a.logger.Info("editor command", "command", r.Command, "launched", state.Launched, "open", state.Open)
	}

	if a.config.OnCommand != nil {
		a.config.OnCommand(r.Command, state)
	}
}

// actuatorFailed logs a failure at warn the first time its op and kind are
// seen, then at debug, so a missing tool does not flood the log every frame.
func (a *App) actuatorFailed(op string, err error) {
	kind, _ := actuator.KindOf(err)
	key := op + "/" + kind.String()

	if a.reported[key] {
		a.logger.Debug("actuator failed", "op", op, "kind", kind, "error", err)
		return
	}
	a.reported[key] = true

	a.logger.Warn("actuator failed", "op", op, "kind", kind, "error", err)
	a.journal.actuatorError(op, kind, err)
}

// publish hands the frame to the monitor, encoding JPEG only for viewers.
func (a *App) publish(frame *gocv.Mat, n int64, paused bool, readings []gesture.Reading) {
	hub := a.config.Hub
	if hub == nil {
		return
	}

	var jpeg []byte
	if hub.WantsFrames() {
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
		if err != nil {
			a.logger.Debug("encode frame", "error", err)
		} else {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}

	hub.Publish(jpeg, server.Snapshot{
		Frame:  n,
		Paused: paused,
		Editor: a.config.Editor.State(),
		Hands:  readings,
	})
}
