// Package tray provides the system tray menu: pause or resume gesture
// control, show the last editor command, and quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(active bool)
	onQuit    func()
	readyFn   func()
	readyOnce sync.Once
	active    bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastCommand *systray.MenuItem
	menuEditor      *systray.MenuItem
}

// New creates a new Tray instance, active by default.
func New() *Tray {
	return &Tray{
		active: true,
	}
}

// OnToggle sets the callback run when the user pauses or resumes.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// OnReady sets the callback run once the tray icon and menu exist.
// Work that may call Quit should start here rather than before Run.
func (t *Tray) OnReady(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.readyFn = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand gesture control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleLabel(t.active), "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuLastCommand = systray.AddMenuItem(lastCommandLabel(""), "Last editor command")
	t.menuLastCommand.Disable()
	t.menuEditor = systray.AddMenuItem(editorLabel(false, false), "Editor window state")
	t.menuEditor.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()

	t.notifyReady()
}

// notifyReady runs the OnReady callback at most once.
func (t *Tray) notifyReady() {
	t.readyOnce.Do(func() {
		t.mu.RLock()
		fn := t.readyFn
		t.mu.RUnlock()

		if fn != nil {
			fn()
		}
	})
}

func (t *Tray) onExit() {}

// handleToggle flips the active state and notifies the callback.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleLabel(active))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastCommand updates the last editor command display in the menu.
func (t *Tray) SetLastCommand(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastCommand != nil {
		t.menuLastCommand.SetTitle(lastCommandLabel(name))
	}
}

// SetEditorState updates the editor status line.
func (t *Tray) SetEditorState(launched, open bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuEditor != nil {
		t.menuEditor.SetTitle(editorLabel(launched, open))
	}
}

// IsActive returns whether gesture control is running.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

func toggleLabel(active bool) string {
	if active {
		return "● Active"
	}
	return "○ Paused"
}

func lastCommandLabel(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}

func editorLabel(launched, open bool) string {
	switch {
	case !launched:
		return "Editor: not launched"
	case open:
		return "Editor: open"
	default:
		return "Editor: minimized"
	}
}
