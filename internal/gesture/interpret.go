// Package gesture turns hand landmarks into device control signals.
//
// Everything here is pure: the package computes fingertip distances, maps
// them onto volume and brightness ranges, and decides which editor command
// a thumb-ring distance calls for. Executing the result is left to callers.
package gesture

import (
	"image"
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Mapping domains in pixels, and the brightness output range in percent.
const (
	VolumeDomainMin     = 25.0
	VolumeDomainMax     = 230.0
	BrightnessDomainMin = 25.0
	BrightnessDomainMax = 280.0
	BrightnessMin       = 0.0
	BrightnessMax       = 100.0

	// PinchDistance is the fingertip distance below which the overlay
	// highlights a closed pinch.
	PinchDistance = 25.0
)

// Range is a closed interval of device-native output values.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Fingertips holds the consumed fingertip positions in frame pixels.
type Fingertips struct {
	Thumb  image.Point `json:"thumb"`
	Index  image.Point `json:"index"`
	Middle image.Point `json:"middle"`
	Ring   image.Point `json:"ring"`
}

// Reading is the interpretation of one hand in one frame.
type Reading struct {
	Tips Fingertips `json:"tips"`

	IndexDistance  float64 `json:"indexDistance"`  // thumb to index tip
	MiddleDistance float64 `json:"middleDistance"` // thumb to middle tip
	RingDistance   float64 `json:"ringDistance"`   // thumb to ring tip

	VolumeLevel       float64 `json:"volumeLevel"` // device-native units
	VolumePercent     int     `json:"volumePercent"`
	BrightnessPercent int     `json:"brightnessPercent"`

	Command Command `json:"command"`
}

// Interp maps x from [x0, x1] onto [y0, y1] linearly, clamping x to the
// domain first. y1 may be smaller than y0.
func Interp(x, x0, x1, y0, y1 float64) float64 {
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Distance returns the Euclidean distance between two pixel positions.
func Distance(a, b image.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// VolumeLevel maps a thumb-index distance onto the device volume range.
func VolumeLevel(d float64, r Range) float64 {
	return Interp(d, VolumeDomainMin, VolumeDomainMax, r.Min, r.Max)
}

// VolumePercent maps a thumb-index distance onto 0..100 for display.
func VolumePercent(d float64) int {
	return int(Interp(d, VolumeDomainMin, VolumeDomainMax, 0, 100))
}

// BrightnessPercent maps a thumb-middle distance onto 0..100.
func BrightnessPercent(d float64) int {
	return int(Interp(d, BrightnessDomainMin, BrightnessDomainMax, BrightnessMin, BrightnessMax))
}

// Tips extracts the consumed fingertips of hand scaled to a width x height frame.
func Tips(hand *detector.HandLandmarks, width, height int) Fingertips {
	return Fingertips{
		Thumb:  hand.Pixel(detector.ThumbTip, width, height),
		Index:  hand.Pixel(detector.IndexTip, width, height),
		Middle: hand.Pixel(detector.MiddleTip, width, height),
		Ring:   hand.Pixel(detector.RingTip, width, height),
	}
}

// Interpret computes the full reading for one hand given the frame size,
// the device volume range, and the current editor state.
func Interpret(hand *detector.HandLandmarks, width, height int, volume Range, state EditorState) Reading {
	tips := Tips(hand, width, height)

	r := Reading{
		Tips:           tips,
		IndexDistance:  Distance(tips.Thumb, tips.Index),
		MiddleDistance: Distance(tips.Thumb, tips.Middle),
		RingDistance:   Distance(tips.Thumb, tips.Ring),
	}

	r.VolumeLevel = VolumeLevel(r.IndexDistance, volume)
	r.VolumePercent = VolumePercent(r.IndexDistance)
	r.BrightnessPercent = BrightnessPercent(r.MiddleDistance)
	r.Command = Decide(r.RingDistance, state)

	return r
}
