package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Fixture coordinates below are exact binary fractions so that scaling to a
// 640x480 frame yields whole pixels.

// PinchLandmarks returns a right hand with the index, middle and ring tips
// all touching the thumb tip. On a 640x480 frame:
// thumb (320,240), index (330,240), middle (320,255), ring (310,255).
func PinchLandmarks() HandLandmarks {
	return handWithTips(
		Point3D{X: 0.5, Y: 0.875},
		Point3D{X: 0.5, Y: 0.5},
		Point3D{X: 0.515625, Y: 0.5},
		Point3D{X: 0.5, Y: 0.53125},
		Point3D{X: 0.484375, Y: 0.53125},
	)
}

// SpreadLandmarks returns a right hand with every consumed fingertip far
// from the thumb. On a 640x480 frame:
// thumb (120,390), index (360,90), middle (440,30), ring (520,150).
func SpreadLandmarks() HandLandmarks {
	return handWithTips(
		Point3D{X: 0.1875, Y: 0.9375},
		Point3D{X: 0.1875, Y: 0.8125},
		Point3D{X: 0.5625, Y: 0.1875},
		Point3D{X: 0.6875, Y: 0.0625},
		Point3D{X: 0.8125, Y: 0.3125},
	)
}

// MidRangeLandmarks returns a hand whose thumb-ring distance sits in the
// editor dead zone. On a 640x480 frame:
// thumb (320,240), index (440,240), middle (320,390), ring (520,240).
func MidRangeLandmarks() HandLandmarks {
	return handWithTips(
		Point3D{X: 0.5, Y: 0.9375},
		Point3D{X: 0.5, Y: 0.5},
		Point3D{X: 0.6875, Y: 0.5},
		Point3D{X: 0.5, Y: 0.8125},
		Point3D{X: 0.8125, Y: 0.5},
	)
}

// handWithTips builds a plausible right hand from the wrist and the four
// consumed fingertips. Intermediate joints lie on the wrist-to-tip segment.
func handWithTips(wrist, thumb, index, middle, ring Point3D) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = wrist
	fillFinger(&lm, wrist, thumb, ThumbCMC)
	fillFinger(&lm, wrist, index, IndexMCP)
	fillFinger(&lm, wrist, middle, MiddleMCP)
	fillFinger(&lm, wrist, ring, RingMCP)

	// Pinky mirrors the ring finger, shifted slightly outward.
	pinky := Point3D{X: ring.X - 0.03, Y: ring.Y + 0.03}
	fillFinger(&lm, wrist, pinky, PinkyMCP)

	return lm
}

// fillFinger sets the four landmarks starting at base, ending with tip.
func fillFinger(lm *HandLandmarks, wrist, tip Point3D, base int) {
	fractions := [3]float64{0.4, 0.6, 0.8}
	for i, f := range fractions {
		lm.Points[base+i] = Point3D{
			X: wrist.X + (tip.X-wrist.X)*f,
			Y: wrist.Y + (tip.Y-wrist.Y)*f,
		}
	}
	lm.Points[base+3] = tip
}
