// Package overlay annotates camera frames with fingertip markers, distance
// lines, and the volume and brightness gauges.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
)

// Gauge geometry in frame pixels.
const (
	GaugeTop    = 150
	GaugeBottom = 400
	GaugeWidth  = 35

	VolumeGaugeX     = 50
	BrightnessGaugeX = 150

	TipRadius = 10
)

var (
	colorTip     = color.RGBA{R: 55, G: 1, B: 27}
	colorGreen   = color.RGBA{G: 255}
	colorRed     = color.RGBA{R: 255}
	colorBlue    = color.RGBA{B: 255}
	colorYellow  = color.RGBA{R: 255, G: 255}
	colorOutline = color.RGBA{}
)

// GaugeFillTop returns the y coordinate where a gauge fill starts for
// distance d over the given domain. Wider gestures fill higher.
func GaugeFillTop(d, domainMin, domainMax float64) int {
	return int(gesture.Interp(d, domainMin, domainMax, GaugeBottom, GaugeTop))
}

// RingColor returns the thumb-ring line color for the editor zone d falls in.
func RingColor(d float64) color.RGBA {
	switch {
	case d < gesture.EditorCloseDistance:
		return colorRed
	case d > gesture.EditorOpenDistance:
		return colorGreen
	default:
		return colorYellow
	}
}

// pinchLine returns the line style for a fingertip pair; a closed pinch is red.
func pinchLine(d float64, open color.RGBA, thickness int) (color.RGBA, int) {
	if d < gesture.PinchDistance {
		return colorRed, thickness + 1
	}
	return open, thickness
}

// Draw renders one hand's reading onto img in place.
func Draw(img *gocv.Mat, r gesture.Reading) {
	tips := r.Tips

	for _, p := range []image.Point{tips.Thumb, tips.Index, tips.Middle, tips.Ring} {
		gocv.Circle(img, p, TipRadius, colorTip, 1)
	}

	c, th := pinchLine(r.IndexDistance, colorGreen, 2)
	gocv.Line(img, tips.Thumb, tips.Index, c, th)

	c, th = pinchLine(r.MiddleDistance, colorBlue, 2)
	gocv.Line(img, tips.Thumb, tips.Middle, c, th)

	gocv.Line(img, tips.Thumb, tips.Ring, RingColor(r.RingDistance), 2)

	drawGauge(img, VolumeGaugeX,
		GaugeFillTop(r.IndexDistance, gesture.VolumeDomainMin, gesture.VolumeDomainMax),
		r.VolumePercent, "Volume", colorGreen, 40)

	drawGauge(img, BrightnessGaugeX,
		GaugeFillTop(r.MiddleDistance, gesture.BrightnessDomainMin, gesture.BrightnessDomainMax),
		r.BrightnessPercent, "Brightness", colorBlue, BrightnessGaugeX)
}

func drawGauge(img *gocv.Mat, x, fillTop, percent int, caption string, c color.RGBA, labelX int) {
	gocv.Rectangle(img, image.Rect(x, GaugeTop, x+GaugeWidth, GaugeBottom), colorOutline, 2)
	gocv.Rectangle(img, image.Rect(x, fillTop, x+GaugeWidth, GaugeBottom), c, -1)
	gocv.PutText(img, fmt.Sprintf("%d%%", percent), image.Pt(labelX, 450), gocv.FontHersheyTriplex, 1, c, 3)
	gocv.PutText(img, caption, image.Pt(labelX, 120), gocv.FontHersheyTriplex, 0.5, c, 2)
}

// DrawPaused stamps a paused banner in the top-left corner.
func DrawPaused(img *gocv.Mat) {
	gocv.PutText(img, "PAUSED", image.Pt(20, 40), gocv.FontHersheySimplex, 1, colorRed, 2)
}
