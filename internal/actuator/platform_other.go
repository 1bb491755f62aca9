//go:build !linux && !darwin && !windows

package actuator

import "context"

func newPlatformVolume(ctx context.Context, runner Runner) (VolumeSetter, error) {
	return nil, ErrUnsupportedPlatform
}

func newPlatformBrightness(runner Runner) (BrightnessSetter, error) {
	return nil, ErrUnsupportedPlatform
}

func newPlatformWindows(runner Runner) (WindowController, error) {
	return nil, ErrUnsupportedPlatform
}
