package overlay

import (
	"sync"

	"gocv.io/x/gocv"
)

// KeyEscape is the key code that ends the frame loop.
const KeyEscape = 27

// DefaultTitle is the window title frames are shown under.
const DefaultTitle = "Windows Gesture"

// Display shows annotated frames and reports key presses.
type Display interface {
	Show(img *gocv.Mat)
	// WaitKey pumps window events for up to ms milliseconds and returns the
	// pressed key, or -1 if none.
	WaitKey(ms int) int
	Close() error
}

// WindowDisplay shows frames in a native OpenCV window.
type WindowDisplay struct {
	window *gocv.Window
}

// NewWindowDisplay opens a window with the given title.
func NewWindowDisplay(title string) *WindowDisplay {
	if title == "" {
		title = DefaultTitle
	}
	return &WindowDisplay{window: gocv.NewWindow(title)}
}

func (d *WindowDisplay) Show(img *gocv.Mat) {
	d.window.IMShow(*img)
}

func (d *WindowDisplay) WaitKey(ms int) int {
	key := d.window.WaitKey(ms)
	if key < 0 {
		return -1
	}
	return key & 0xFF
}

func (d *WindowDisplay) Close() error {
	return d.window.Close()
}

// HeadlessDisplay discards frames. Keys can be scripted for tests.
type HeadlessDisplay struct {
	mu     sync.Mutex
	shown  int
	keys   map[int]int // frames shown -> key returned after that frame
	closed bool
}

// NewHeadlessDisplay creates a display that never opens a window.
func NewHeadlessDisplay() *HeadlessDisplay {
	return &HeadlessDisplay{keys: make(map[int]int)}
}

// PressAfter makes WaitKey return key once n frames have been shown.
func (d *HeadlessDisplay) PressAfter(n, key int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[n] = key
}

func (d *HeadlessDisplay) Show(img *gocv.Mat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown++
}

func (d *HeadlessDisplay) WaitKey(ms int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key, ok := d.keys[d.shown]; ok {
		delete(d.keys, d.shown)
		return key
	}
	return -1
}

func (d *HeadlessDisplay) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Shown returns the number of frames shown.
func (d *HeadlessDisplay) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// Closed reports whether Close was called.
func (d *HeadlessDisplay) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
