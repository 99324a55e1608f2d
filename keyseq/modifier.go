package keyseq

import "strings"

// ModifierState is an immutable snapshot of the three modifier keys. Two
// snapshots exist per combo-send: the physical one (hardware truth, what we
// restore to) and the logical one (the OS keyboard table, which synthetic
// input can leave wrong).
type ModifierState struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// CapturePhysical snapshots the hardware down-state of Ctrl/Shift/Alt.
func CapturePhysical(inj Injector) (ModifierState, error) {
	return capture(inj.IsPhysicallyDown)
}

// CaptureLogical snapshots the OS keyboard table's down-state of Ctrl/Shift/Alt.
func CaptureLogical(inj Injector) (ModifierState, error) {
	return capture(inj.IsLogicallyDown)
}

func capture(query func(Key) (bool, error)) (ModifierState, error) {
	var s ModifierState
	var err error
	if s.Ctrl, err = query(KeyControl); err != nil {
		return ModifierState{}, err
	}
	if s.Shift, err = query(KeyShift); err != nil {
		return ModifierState{}, err
	}
	if s.Alt, err = query(KeyAlt); err != nil {
		return ModifierState{}, err
	}
	return s, nil
}

// None reports whether no modifier is down.
func (s ModifierState) None() bool {
	return s == ModifierState{}
}

// String renders the state for logging, e.g. "ctrl+alt" or "none".
func (s ModifierState) String() string {
	var parts []string
	if s.Ctrl {
		parts = append(parts, "ctrl")
	}
	if s.Shift {
		parts = append(parts, "shift")
	}
	if s.Alt {
		parts = append(parts, "alt")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
