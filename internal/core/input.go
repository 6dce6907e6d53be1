package core

import "strings"

// Action represents a semantic game action, abstracted from physical key presses.
// Games react to intents; the platform decides which keys produce them.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // Left arrow, A, H
	ActionRight           // Right arrow, D, L
	ActionRotate          // Up arrow, W, X
	ActionSoftDrop        // Down arrow, S, J
	ActionHardDrop        // Space
	ActionPause           // P, Escape
	ActionRestart         // R or Enter - start a new game
	ActionConfirm         // Enter - menu selection
	ActionBack            // B, Escape - back to menu
	ActionQuit            // Q, Ctrl+C
)

var actionNames = [...]string{
	ActionNone:     "none",
	ActionLeft:     "left",
	ActionRight:    "right",
	ActionRotate:   "rotate",
	ActionSoftDrop: "soft_drop",
	ActionHardDrop: "hard_drop",
	ActionPause:    "pause",
	ActionRestart:  "restart",
	ActionConfirm:  "confirm",
	ActionBack:     "back",
	ActionQuit:     "quit",
}

// String returns the action's stable name, used in replay journals.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction is the inverse of String.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return ActionNone, false
}

// InputFrame holds the actions triggered during one simulation tick, in the
// order they arrived. Order matters: "left, rotate" and "rotate, left" can
// leave a piece in different places.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set appends an action to this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, got := range f.Actions {
		if got == a {
			return true
		}
	}
	return false
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets the frame for the next tick, keeping its capacity.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	if len(f.Actions) == 0 {
		return InputFrame{}
	}
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}
