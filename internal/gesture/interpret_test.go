package gesture

import (
	"image"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

const epsilon = 1e-9

func TestInterp(t *testing.T) {
	tests := []struct {
		name           string
		x              float64
		x0, x1, y0, y1 float64
		want           float64
	}{
		{name: "below domain clamps to y0", x: 0, x0: 25, x1: 230, y0: -65.25, y1: 0, want: -65.25},
		{name: "at lower bound", x: 25, x0: 25, x1: 230, y0: 0, y1: 100, want: 0},
		{name: "midpoint", x: 127.5, x0: 25, x1: 230, y0: 0, y1: 100, want: 50},
		{name: "at upper bound", x: 230, x0: 25, x1: 230, y0: 0, y1: 100, want: 100},
		{name: "above domain clamps to y1", x: 999, x0: 25, x1: 230, y0: 0, y1: 100, want: 100},
		{name: "decreasing range", x: 127.5, x0: 25, x1: 230, y0: 400, y1: 150, want: 275},
		{name: "decreasing range clamps", x: 500, x0: 25, x1: 230, y0: 400, y1: 150, want: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interp(tt.x, tt.x0, tt.x1, tt.y0, tt.y1)
			if math.Abs(got-tt.want) > epsilon {
				t.Errorf("Interp(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestVolumeLevel_Properties(t *testing.T) {
	ranges := []Range{
		{Min: -65.25, Max: 0}, // endpoint gain in dB
		{Min: 0, Max: 100},    // percent
		{Min: 0, Max: 65535},  // 16-bit scalar
	}

	for _, r := range ranges {
		for d := 0.0; d <= VolumeDomainMin; d += 0.5 {
			if got := VolumeLevel(d, r); got != r.Min {
				t.Errorf("VolumeLevel(%v, %v) = %v, want min %v", d, r, got, r.Min)
			}
		}
		for d := VolumeDomainMax; d <= 600; d += 0.5 {
			if got := VolumeLevel(d, r); got != r.Max {
				t.Errorf("VolumeLevel(%v, %v) = %v, want max %v", d, r, got, r.Max)
			}
		}
		prev := VolumeLevel(0, r)
		for d := 0.0; d <= 600; d += 0.25 {
			got := VolumeLevel(d, r)
			if got < prev {
				t.Fatalf("VolumeLevel not monotonic at d=%v: %v < %v", d, got, prev)
			}
			prev = got
		}
	}
}

func TestBrightnessPercent_Properties(t *testing.T) {
	for d := 0.0; d <= BrightnessDomainMin; d += 0.5 {
		if got := BrightnessPercent(d); got != 0 {
			t.Errorf("BrightnessPercent(%v) = %d, want 0", d, got)
		}
	}
	for d := BrightnessDomainMax; d <= 600; d += 0.5 {
		if got := BrightnessPercent(d); got != 100 {
			t.Errorf("BrightnessPercent(%v) = %d, want 100", d, got)
		}
	}
	prev := BrightnessPercent(0)
	for d := 0.0; d <= 600; d += 0.25 {
		got := BrightnessPercent(d)
		if got < prev {
			t.Fatalf("BrightnessPercent not monotonic at d=%v: %d < %d", d, got, prev)
		}
		prev = got
	}
}

func TestVolumePercent(t *testing.T) {
	tests := []struct {
		d    float64
		want int
	}{
		{d: 10, want: 0},
		{d: 120, want: 46},
		{d: 127.5, want: 50},
		{d: 230, want: 100},
		{d: 300, want: 100},
	}
	for _, tt := range tests {
		if got := VolumePercent(tt.d); got != tt.want {
			t.Errorf("VolumePercent(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(image.Pt(0, 0), image.Pt(3, 4)); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := Distance(image.Pt(10, 10), image.Pt(10, 10)); got != 0 {
		t.Errorf("Distance of equal points = %v, want 0", got)
	}
	if Distance(image.Pt(1, 2), image.Pt(7, -3)) != Distance(image.Pt(7, -3), image.Pt(1, 2)) {
		t.Error("Distance should be symmetric")
	}
}

func TestInterpret(t *testing.T) {
	volume := Range{Min: -65.25, Max: 0}

	t.Run("pinch", func(t *testing.T) {
		hand := detector.PinchLandmarks()
		r := Interpret(&hand, 640, 480, volume, EditorState{})

		if r.Tips.Thumb != image.Pt(320, 240) {
			t.Errorf("thumb = %v, want (320,240)", r.Tips.Thumb)
		}
		if r.IndexDistance != 10 {
			t.Errorf("IndexDistance = %v, want 10", r.IndexDistance)
		}
		if r.MiddleDistance != 15 {
			t.Errorf("MiddleDistance = %v, want 15", r.MiddleDistance)
		}
		if math.Abs(r.RingDistance-math.Sqrt(325)) > epsilon {
			t.Errorf("RingDistance = %v, want sqrt(325)", r.RingDistance)
		}
		if r.VolumeLevel != volume.Min {
			t.Errorf("VolumeLevel = %v, want %v", r.VolumeLevel, volume.Min)
		}
		if r.VolumePercent != 0 || r.BrightnessPercent != 0 {
			t.Errorf("percents = (%d, %d), want (0, 0)", r.VolumePercent, r.BrightnessPercent)
		}
		if r.Command != CommandNone {
			t.Errorf("Command = %v, want none when editor never launched", r.Command)
		}
	})

	t.Run("pinch minimizes open editor", func(t *testing.T) {
		hand := detector.PinchLandmarks()
		r := Interpret(&hand, 640, 480, volume, EditorState{Launched: true, Open: true})
		if r.Command != CommandMinimize {
			t.Errorf("Command = %v, want minimize", r.Command)
		}
	})

	t.Run("spread", func(t *testing.T) {
		hand := detector.SpreadLandmarks()
		r := Interpret(&hand, 640, 480, volume, EditorState{})

		if r.VolumeLevel != volume.Max {
			t.Errorf("VolumeLevel = %v, want %v", r.VolumeLevel, volume.Max)
		}
		if r.VolumePercent != 100 || r.BrightnessPercent != 100 {
			t.Errorf("percents = (%d, %d), want (100, 100)", r.VolumePercent, r.BrightnessPercent)
		}
		if math.Abs(r.RingDistance-math.Hypot(400, 240)) > epsilon {
			t.Errorf("RingDistance = %v, want %v", r.RingDistance, math.Hypot(400, 240))
		}
		if r.Command != CommandOpen {
			t.Errorf("Command = %v, want open", r.Command)
		}
	})

	t.Run("mid range", func(t *testing.T) {
		hand := detector.MidRangeLandmarks()
		r := Interpret(&hand, 640, 480, Range{Min: 0, Max: 100}, EditorState{Launched: true, Open: true})

		if r.IndexDistance != 120 || r.MiddleDistance != 150 || r.RingDistance != 200 {
			t.Errorf("distances = (%v, %v, %v), want (120, 150, 200)", r.IndexDistance, r.MiddleDistance, r.RingDistance)
		}
		wantVolume := 95.0 / 205.0 * 100
		if math.Abs(r.VolumeLevel-wantVolume) > epsilon {
			t.Errorf("VolumeLevel = %v, want %v", r.VolumeLevel, wantVolume)
		}
		if r.BrightnessPercent != 49 {
			t.Errorf("BrightnessPercent = %d, want 49", r.BrightnessPercent)
		}
		if r.Command != CommandNone {
			t.Errorf("Command = %v, want none in dead zone", r.Command)
		}
	})

	t.Run("scales with resolution", func(t *testing.T) {
		hand := detector.MidRangeLandmarks()
		r := Interpret(&hand, 1280, 960, Range{Min: 0, Max: 100}, EditorState{})
		if r.RingDistance != 400 {
			t.Errorf("RingDistance at 2x resolution = %v, want 400", r.RingDistance)
		}
	})
}
