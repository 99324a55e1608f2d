// Package platform holds the OS-facing collaborators of the slot deck:
// clipboard access and global hotkey registration, plus the trigger values
// every input source (hotkey, MIDI, web UI) reduces to.
package platform

import (
	"context"
	"fmt"
)

// Action is what a trigger asks for.
type Action int

const (
	ActionCopy Action = iota
	ActionPaste
)

// String returns the action name used in logs and history rows.
func (a Action) String() string {
	switch a {
	case ActionCopy:
		return "copy"
	case ActionPaste:
		return "paste"
	default:
		return "unknown"
	}
}

// Trigger is one user intent: copy into, or paste from, a numbered slot.
type Trigger struct {
	Action Action
	Slot   int    // 1-based
	Source string // "hotkey", "midi" or "web"
}

// KeyCombo represents a keyboard key combination.
type KeyCombo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Win   bool
	Key   int // Virtual key code
}

// Binding couples a hotkey combo with the trigger it fires.
type Binding struct {
	Combo   KeyCombo
	Trigger Trigger
}

// Hotkeys provides global hotkey registration for a set of bindings.
type Hotkeys interface {
	Listen(ctx context.Context, bindings []Binding) (<-chan Trigger, error)
}

// Clipboard provides clipboard access.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// SlotKey returns the virtual key code of the digit key for a slot: slots
// 1 through 9 map to '1'..'9', slot 10 maps to '0'.
func SlotKey(slot int) (int, error) {
	switch {
	case slot >= 1 && slot <= 9:
		return 0x30 + slot, nil
	case slot == 10:
		return 0x30, nil
	default:
		return 0, fmt.Errorf("slot %d has no digit key", slot)
	}
}
