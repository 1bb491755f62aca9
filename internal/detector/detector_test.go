package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandLandmarks_Pixel(t *testing.T) {
	hand := PinchLandmarks()

	tests := []struct {
		name  string
		index int
		want  image.Point
	}{
		{name: "thumb tip", index: ThumbTip, want: image.Pt(320, 240)},
		{name: "index tip", index: IndexTip, want: image.Pt(330, 240)},
		{name: "middle tip", index: MiddleTip, want: image.Pt(320, 255)},
		{name: "ring tip", index: RingTip, want: image.Pt(310, 255)},
		{name: "negative index", index: -1, want: image.Point{}},
		{name: "index past end", index: NumLandmarks, want: image.Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hand.Pixel(tt.index, 640, 480); got != tt.want {
				t.Errorf("Pixel(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}

	t.Run("truncates toward zero", func(t *testing.T) {
		h := HandLandmarks{}
		h.Points[ThumbTip] = Point3D{X: 0.999, Y: 0.001}
		if got := h.Pixel(ThumbTip, 100, 100); got != image.Pt(99, 0) {
			t.Errorf("Pixel() = %v, want (99,0)", got)
		}
	})

	t.Run("nil hand", func(t *testing.T) {
		var h *HandLandmarks
		if got := h.Pixel(ThumbTip, 640, 480); got != (image.Point{}) {
			t.Errorf("Pixel() on nil = %v, want zero point", got)
		}
	})
}

func TestFixtures_TipsAreWired(t *testing.T) {
	fixtures := map[string]HandLandmarks{
		"pinch":     PinchLandmarks(),
		"spread":    SpreadLandmarks(),
		"mid-range": MidRangeLandmarks(),
	}

	for name, hand := range fixtures {
		t.Run(name, func(t *testing.T) {
			if hand.Handedness != "Right" {
				t.Errorf("handedness = %q, want Right", hand.Handedness)
			}
			// Every finger's DIP lies between its PIP and tip on the wrist-tip segment.
			for _, base := range []int{ThumbCMC, IndexMCP, MiddleMCP, RingMCP, PinkyMCP} {
				tip := hand.Points[base+3]
				wrist := hand.Points[Wrist]
				dip := hand.Points[base+2]
				wantX := wrist.X + (tip.X-wrist.X)*0.8
				if diff := dip.X - wantX; diff > 1e-9 || diff < -1e-9 {
					t.Errorf("finger %d DIP.X = %f, want %f", base, dip.X, wantX)
				}
			}
		})
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
		if mock.Calls() != 1 {
			t.Errorf("Calls() = %d, want 1", mock.Calls())
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{PinchLandmarks(), SpreadLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
		if !mock.Closed() {
			t.Error("Closed() should be true after Close")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if len(out) != 4+len(payload) {
		t.Fatalf("wrote %d bytes, want %d", len(out), 4+len(payload))
	}
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %v, want %v", out[4:], payload)
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("two hands", func(t *testing.T) {
		line := []byte(`{"hands":[` + handJSON(21, "Left", 0.8) + `,` + handJSON(21, "Right", 0.9) + `]}` + "\n")

		hands, err := parseResponse(line)
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 2 {
			t.Fatalf("got %d hands, want 2", len(hands))
		}
		if hands[0].Handedness != "Left" || hands[0].Points[ThumbTip].X != 0.04 {
			t.Errorf("first hand decoded incorrectly: %+v", hands[0])
		}
		if hands[1].Points[PinkyTip].X != 0.2 {
			t.Errorf("last point x = %f, want 0.2", hands[1].Points[PinkyTip].X)
		}
		if hands[1].Score != 0.9 {
			t.Errorf("second hand score = %f, want 0.9", hands[1].Score)
		}
	})

	t.Run("incomplete hand dropped", func(t *testing.T) {
		line := []byte(`{"hands":[` + handJSON(2, "Left", 0.8) + `,` + handJSON(21, "Right", 0.9) + `]}`)

		hands, err := parseResponse(line)
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 1 || hands[0].Handedness != "Right" {
			t.Errorf("hands = %+v, want only the complete Right hand", hands)
		}
	})

	t.Run("no hands", func(t *testing.T) {
		hands, err := parseResponse([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("got %d hands, want 0", len(hands))
		}
	})

	t.Run("helper error", func(t *testing.T) {
		if _, err := parseResponse([]byte(`{"hands":[],"error":"decode failed"}`)); err == nil {
			t.Error("expected error from helper error field")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseResponse([]byte(`not json`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestNewMediaPipeDetector(t *testing.T) {
	t.Run("explicit script path", func(t *testing.T) {
		script := filepath.Join(t.TempDir(), ScriptName)
		if err := os.WriteFile(script, []byte("print('ok')\n"), 0644); err != nil {
			t.Fatalf("write script: %v", err)
		}

		cfg := DefaultConfig()
		cfg.Script = script
		d, err := NewMediaPipeDetector(cfg)
		if err != nil {
			t.Fatalf("NewMediaPipeDetector() error = %v", err)
		}

		args := d.scriptArgs()
		want := []string{script, "--max-hands", "2", "--min-detection-confidence", "0.5", "--min-tracking-confidence", "0.5"}
		if len(args) != len(want) {
			t.Fatalf("scriptArgs() = %v, want %v", args, want)
		}
		for i := range want {
			if args[i] != want[i] {
				t.Errorf("scriptArgs()[%d] = %q, want %q", i, args[i], want[i])
			}
		}

		// Close before start is a no-op
		if err := d.Close(); err != nil {
			t.Errorf("Close() before start error = %v", err)
		}
	})

	t.Run("missing script", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Script = filepath.Join(t.TempDir(), "nope.py")
		_, err := NewMediaPipeDetector(cfg)
		if !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("error = %v, want ErrScriptNotFound", err)
		}
	})
}

// handJSON renders a helper hand with n points, point i at x = i/100.
func handJSON(n int, handedness string, score float64) string {
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf(`{"x":%g,"y":0.5,"z":0}`, float64(i)/100)
	}
	return fmt.Sprintf(`{"points":[%s],"handedness":%q,"score":%g}`, strings.Join(points, ","), handedness, score)
}
