package actuator

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// threadWorker runs calls one at a time on a single locked OS thread.
// APIs with thread affinity (COM on Windows) keep their objects there.
type threadWorker struct {
	calls   chan func()
	timeout time.Duration
}

// startThreadWorker locks a new goroutine to its thread and runs setup on it.
// The func setup returns is run when the worker stops. A setup error is
// returned and no worker is left running.
func startThreadWorker(timeout time.Duration, setup func() (teardown func(), err error)) (*threadWorker, error) {
	w := &threadWorker{calls: make(chan func()), timeout: timeout}
	ready := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		teardown, err := setup()
		ready <- err
		if err != nil {
			return
		}
		if teardown != nil {
			defer teardown()
		}

		for fn := range w.calls {
			fn()
		}
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return w, nil
}

// do runs fn on the worker thread and waits for it, at most the worker's
// timeout. A call that overruns keeps the thread busy, so later calls
// queue behind it and time out as well.
func (w *threadWorker) do(ctx context.Context, fn func() error) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	select {
	case w.calls <- func() { done <- fn() }:
	case <-ctx.Done():
		return w.ctxErr(ctx)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return w.ctxErr(ctx)
	}
}

func (w *threadWorker) ctxErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: after %s", ErrTimeout, w.timeout)
	}
	return ctx.Err()
}

// stop ends the worker once queued calls finish.
func (w *threadWorker) stop() {
	close(w.calls)
}

// runnerTimeout returns the per-call bound configured on runner, if any.
func runnerTimeout(runner Runner) time.Duration {
	if r, ok := runner.(*ExecRunner); ok {
		return r.Timeout
	}
	return 0
}
