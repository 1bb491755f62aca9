package actuator

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordSleeps replaces sleep for the duration of the test.
func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func launched(t *testing.T, title string, appearAfter int) *FakeWindows {
	t.Helper()
	fw := NewFakeWindows(title)
	fw.AppearAfter = appearAfter
	if _, err := fw.Launch("editor"); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	return fw
}

func TestFindWindow_Immediate(t *testing.T) {
	slept := recordSleeps(t)
	fw := launched(t, "Untitled", 0)

	h, err := FindWindow(context.Background(), fw, "Untitled", 5, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("FindWindow() error = %v", err)
	}
	if !h.Valid() {
		t.Error("handle is not valid")
	}
	if len(*slept) != 0 {
		t.Errorf("slept %d times, want 0", len(*slept))
	}
}

func TestFindWindow_AppearsLate(t *testing.T) {
	slept := recordSleeps(t)
	fw := launched(t, "Untitled", 3)

	if _, err := FindWindow(context.Background(), fw, "Untitled", 5, 500*time.Millisecond); err != nil {
		t.Fatalf("FindWindow() error = %v", err)
	}
	_, lookups, _, _, _ := fw.Counts()
	if lookups != 4 {
		t.Errorf("lookups = %d, want 4", lookups)
	}
	if len(*slept) != 3 {
		t.Errorf("slept %d times, want 3", len(*slept))
	}
}

func TestFindWindow_GivesUpAfterAttempts(t *testing.T) {
	slept := recordSleeps(t)
	fw := launched(t, "Untitled", -1)

	_, err := FindWindow(context.Background(), fw, "Untitled", 5, 500*time.Millisecond)
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("err = %v, want ErrWindowNotFound", err)
	}
	if kind, _ := KindOf(err); kind != KindWindowNotFound {
		t.Errorf("kind = %v, want %v", kind, KindWindowNotFound)
	}

	_, lookups, _, _, _ := fw.Counts()
	if lookups != 5 {
		t.Errorf("lookups = %d, want 5", lookups)
	}
	if len(*slept) != 4 {
		t.Errorf("slept %d times, want 4", len(*slept))
	}
	for _, d := range *slept {
		if d != 500*time.Millisecond {
			t.Errorf("delay = %v, want 500ms", d)
		}
	}
}

func TestFindWindow_Cancelled(t *testing.T) {
	recordSleeps(t)
	fw := launched(t, "Untitled", -1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindWindow(ctx, fw, "Untitled", 5, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	_, lookups, _, _, _ := fw.Counts()
	if lookups != 1 {
		t.Errorf("lookups = %d, want 1", lookups)
	}
}

func TestStartProcess_Missing(t *testing.T) {
	_, err := startProcess("definitely-not-a-real-binary-xyz")
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("err = %v, want ErrToolNotFound", err)
	}
}

func TestUnsupportedBrightness(t *testing.T) {
	b := unsupportedBrightness{reason: ErrToolNotFound}
	err := b.SetBrightness(context.Background(), 50)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if kind, _ := KindOf(err); kind != KindUnsupported {
		t.Errorf("kind = %v, want %v", kind, KindUnsupported)
	}
}

func TestFakeVolumeRecords(t *testing.T) {
	v := NewFakeVolume(-65.25, 0)
	min, max := v.Range()
	if min != -65.25 || max != 0 {
		t.Errorf("Range() = %v, %v", min, max)
	}

	_ = v.SetVolume(context.Background(), -10)
	v.SetError(ErrCommandFailed)
	err := v.SetVolume(context.Background(), -20)
	if kind, ok := KindOf(err); !ok || kind != KindCommandFailed {
		t.Errorf("err = %v, want command-failed", err)
	}
	if got := v.Levels(); len(got) != 2 || got[0] != -10 || got[1] != -20 {
		t.Errorf("Levels() = %v", got)
	}
}
