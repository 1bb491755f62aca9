package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Exhausted playback behaves like an unplugged device
	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("error = %v, want ErrCameraNotOpen", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after playback ended")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_SetFramesAndReset(t *testing.T) {
	first := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer first.Close()
	small := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer small.Close()

	cam := NewMockCamera([]*gocv.Mat{&first}, false)
	cam.Open()
	defer cam.Close()

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.Close()

	cam.SetFrames([]*gocv.Mat{&small})
	f, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after SetFrames error = %v", err)
	}
	if f.Cols() != 320 {
		t.Errorf("Cols() = %d, want 320 from the replaced sequence", f.Cols())
	}
	f.Close()

	cam.Reset()
	f, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset error = %v", err)
	}
	if f.Cols() != 320 {
		t.Errorf("Cols() = %d, want 320 after Reset", f.Cols())
	}
	f.Close()

	if got := cam.Reads(); got != 3 {
		t.Errorf("Reads() = %d, want 3", got)
	}
}

func TestMockCamera_FailNext(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, false)
	cam.Open()
	cam.FailNext(ErrReadFailed, ErrEmptyFrame)

	for _, want := range []error{ErrReadFailed, ErrEmptyFrame} {
		if _, err := cam.ReadFrame(); !errors.Is(err, want) {
			t.Fatalf("error = %v, want %v", err, want)
		}
	}

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after injected errors = %v", err)
	}
	f.Close()

	if got := cam.Reads(); got != 3 {
		t.Errorf("Reads() = %d, want 3", got)
	}
}

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, true)
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("error = %v, want ErrCameraNotOpen", err)
	}
}
