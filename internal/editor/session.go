// Package editor launches, finds, and toggles the text editor window that the
// thumb-ring gesture controls.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logging"
)

// Config configures a Session.
type Config struct {
	Executable   string
	WindowTitle  string
	LaunchSettle time.Duration // wait after launch before looking for the window
	FindAttempts int
	FindDelay    time.Duration
	Logger       *slog.Logger
}

// DefaultConfig returns the standard timings with no executable set.
func DefaultConfig() Config {
	return Config{
		LaunchSettle: time.Second,
		FindAttempts: 5,
		FindDelay:    500 * time.Millisecond,
	}
}

// Session tracks at most one launched editor and executes commands against it.
// It is owned by the frame loop; State may be read from other goroutines.
type Session struct {
	cfg     Config
	windows actuator.WindowController
	logger  *slog.Logger

	mu      sync.Mutex
	state   gesture.EditorState
	process *os.Process
	handle  actuator.WindowHandle
}

// NewSession creates a Session driving windows.
func NewSession(cfg Config, windows actuator.WindowController) *Session {
	if cfg.FindAttempts <= 0 {
		cfg.FindAttempts = DefaultConfig().FindAttempts
	}
	return &Session{
		cfg:     cfg,
		windows: windows,
		logger:  logging.OrDefault(cfg.Logger).With("component", "editor"),
	}
}

// State returns a snapshot of the editor state.
func (s *Session) State() gesture.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handle returns the tracked window handle; the zero value if none.
func (s *Session) Handle() actuator.WindowHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Process returns the launched editor process, if any.
func (s *Session) Process() *os.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.process
}

// Execute performs cmd. Errors are reported for logging; the state change
// that goes with each command happens regardless, except a failed launch.
func (s *Session) Execute(ctx context.Context, cmd gesture.Command) error {
	switch cmd {
	case gesture.CommandNone:
		return nil
	case gesture.CommandOpen:
		return s.open(ctx)
	case gesture.CommandMinimize:
		return s.minimize(ctx)
	case gesture.CommandMaximize:
		return s.maximize(ctx)
	default:
		return fmt.Errorf("editor: unknown command %v", cmd)
	}
}

func (s *Session) open(ctx context.Context) error {
	if s.State().Launched {
		return nil
	}

	proc, err := s.windows.Launch(s.cfg.Executable)
	if err != nil {
		return fmt.Errorf("launch %s: %w", s.cfg.Executable, err)
	}

	s.mu.Lock()
	s.state.Launched = true
	s.process = proc
	s.mu.Unlock()

	attrs := []any{"executable", s.cfg.Executable}
	if proc != nil {
		attrs = append(attrs, "pid", proc.Pid)
	}
	s.logger.Info("editor launched", attrs...)

	if err := settle(ctx, s.cfg.LaunchSettle); err != nil {
		return err
	}

	h, err := actuator.FindWindow(ctx, s.windows, s.cfg.WindowTitle, s.cfg.FindAttempts, s.cfg.FindDelay)
	if err != nil {
		return fmt.Errorf("find %q: %w", s.cfg.WindowTitle, err)
	}

	s.mu.Lock()
	s.handle = h
	s.state.Open = true
	s.mu.Unlock()

	s.logger.Info("editor window found", "title", h.Title, "id", h.ID)

	if err := s.windows.Activate(ctx, h); err != nil {
		return err
	}
	return s.windows.Maximize(ctx, h)
}

func (s *Session) minimize(ctx context.Context) error {
	s.mu.Lock()
	h := s.handle
	s.state.Open = false
	s.mu.Unlock()

	return s.windows.Minimize(ctx, h)
}

func (s *Session) maximize(ctx context.Context) error {
	return s.windows.Maximize(ctx, s.Handle())
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
