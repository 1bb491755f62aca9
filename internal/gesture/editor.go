package gesture

import "fmt"

// Thumb-ring distances, in pixels, that drive the editor window. Distances
// between the two thresholds form a dead zone where nothing fires.
const (
	EditorOpenDistance  = 250.0 // strictly greater opens or maximizes
	EditorCloseDistance = 150.0 // strictly less minimizes
)

// Command is an editor window action.
type Command int

const (
	CommandNone Command = iota
	CommandOpen
	CommandMinimize
	CommandMaximize
)

// String returns the command name used in logs and the journal.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandOpen:
		return "open"
	case CommandMinimize:
		return "minimize"
	case CommandMaximize:
		return "maximize"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// MarshalText encodes the command by name.
func (c Command) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// EditorState tracks the externally launched editor.
type EditorState struct {
	Launched bool `json:"launched"` // a launch succeeded; never retried
	Open     bool `json:"open"`     // window was found and is believed visible
}

// Decide returns the editor command for a thumb-ring distance.
// Rules are evaluated in order and the first match wins:
//
//	d > 250 and not launched          -> open
//	d < 150 and launched and open     -> minimize
//	d > 250 and launched and open     -> maximize
//	otherwise                         -> none
func Decide(d float64, s EditorState) Command {
	switch {
	case d > EditorOpenDistance && !s.Launched:
		return CommandOpen
	case d < EditorCloseDistance && s.Launched && s.Open:
		return CommandMinimize
	case d > EditorOpenDistance && s.Launched && s.Open:
		return CommandMaximize
	default:
		return CommandNone
	}
}
