package actuator

import (
	"context"
	"os"
	"sync"
)

// FakeVolume records SetVolume calls.
type FakeVolume struct {
	mu       sync.Mutex
	min, max float64
	levels   []float64
	err      error
}

// NewFakeVolume creates a FakeVolume with the given native range.
func NewFakeVolume(min, max float64) *FakeVolume {
	return &FakeVolume{min: min, max: max}
}

func (f *FakeVolume) Range() (float64, float64) {
	return f.min, f.max
}

func (f *FakeVolume) SetVolume(ctx context.Context, level float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = append(f.levels, level)
	if f.err != nil {
		return wrap("set-volume", f.err)
	}
	return nil
}

// SetError makes subsequent calls fail with err.
func (f *FakeVolume) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Levels returns every level passed to SetVolume.
func (f *FakeVolume) Levels() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.levels...)
}

// FakeBrightness records SetBrightness calls.
type FakeBrightness struct {
	mu       sync.Mutex
	percents []int
	err      error
}

func (f *FakeBrightness) SetBrightness(ctx context.Context, percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.percents = append(f.percents, percent)
	if f.err != nil {
		return wrap("set-brightness", f.err)
	}
	return nil
}

// SetError makes subsequent calls fail with err.
func (f *FakeBrightness) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Percents returns every percent passed to SetBrightness.
func (f *FakeBrightness) Percents() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.percents...)
}

// FakeWindows is an in-memory WindowController. A launched application's
// window becomes visible after AppearAfter lookups.
type FakeWindows struct {
	mu sync.Mutex

	// Title is the title the launched window will carry.
	Title string
	// AppearAfter is the number of failed lookups before the window shows up.
	// Negative means never.
	AppearAfter int

	LaunchErr   error
	MinimizeErr error
	MaximizeErr error

	launches  int
	lookups   int
	activates int
	minimizes int
	maximizes int
	launched  bool
}

// NewFakeWindows creates a FakeWindows whose window appears on the first lookup.
func NewFakeWindows(title string) *FakeWindows {
	return &FakeWindows{Title: title}
}

// FakePID is the pid of the first process FakeWindows launches; each later
// launch adds one.
const FakePID = 4242

func (f *FakeWindows) Launch(path string) (*os.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches++
	if f.LaunchErr != nil {
		return nil, wrap("launch", f.LaunchErr)
	}
	f.launched = true
	// Pid only; the process is never waited on or signalled.
	return &os.Process{Pid: FakePID + f.launches - 1}, nil
}

func (f *FakeWindows) LookupWindow(ctx context.Context, title string) (WindowHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	visible := f.launched && f.AppearAfter >= 0 && f.lookups > f.AppearAfter
	if !visible || title != f.Title {
		return WindowHandle{}, wrap("lookup-window", ErrWindowNotFound)
	}
	return WindowHandle{ID: "fake-1", Title: title}, nil
}

func (f *FakeWindows) Activate(ctx context.Context, h WindowHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activates++
	return nil
}

func (f *FakeWindows) Minimize(ctx context.Context, h WindowHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimizes++
	return wrap("minimize", f.MinimizeErr)
}

func (f *FakeWindows) Maximize(ctx context.Context, h WindowHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maximizes++
	return wrap("maximize", f.MaximizeErr)
}

// Counts returns the number of calls per operation.
func (f *FakeWindows) Counts() (launches, lookups, activates, minimizes, maximizes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launches, f.lookups, f.activates, f.minimizes, f.maximizes
}

// FakeRunner records commands and returns canned output.
type FakeRunner struct {
	mu     sync.Mutex
	Output []byte
	Err    error
	calls  [][]string
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.Output, f.Err
}

// Calls returns each recorded command line.
func (f *FakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}
