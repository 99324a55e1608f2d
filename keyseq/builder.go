package keyseq

// Builder accumulates an ordered key event sequence for one atomic dispatch.
// It is owned by a single Sequencer and rebuilt under its lock for every
// operation; it is not safe for concurrent use on its own.
type Builder struct {
	events []KeyEvent
}

// Clear empties the sequence, keeping the backing storage.
func (b *Builder) Clear() {
	b.events = b.events[:0]
}

// KeyDown appends a press of key.
func (b *Builder) KeyDown(key Key) {
	b.events = append(b.events, KeyEvent{Key: key})
}

// KeyUp appends a release of key.
func (b *Builder) KeyUp(key Key) {
	b.events = append(b.events, KeyEvent{Key: key, Up: true})
}

// KeyPress appends a full tap: key down followed by key up.
func (b *Builder) KeyPress(key Key) {
	b.KeyDown(key)
	b.KeyUp(key)
}

// ReleaseAllModifiers appends a KeyUp for the generic, left and right codes of
// Ctrl, Shift and Alt (nine events). Releasing only the generic code is not
// enough: the OS keeps the side-specific logical bits separately, and a stale
// left/right bit keeps modifying every subsequent keystroke.
func (b *Builder) ReleaseAllModifiers() {
	for _, m := range modifierVariants {
		b.KeyUp(m.Generic)
		b.KeyUp(m.Left)
		b.KeyUp(m.Right)
	}
}

// TransitionModifiers appends the presses and releases needed to move the
// generic modifier keys from one state to another. Keys already in the target
// state are untouched.
func (b *Builder) TransitionModifiers(from, to ModifierState) {
	b.transition(from.Ctrl, to.Ctrl, KeyControl)
	b.transition(from.Shift, to.Shift, KeyShift)
	b.transition(from.Alt, to.Alt, KeyAlt)
}

func (b *Builder) transition(from, to bool, key Key) {
	switch {
	case !from && to:
		b.KeyDown(key)
	case from && !to:
		b.KeyUp(key)
	}
}

// Build returns the accumulated sequence without clearing it.
func (b *Builder) Build() []KeyEvent {
	return b.events
}

// Len returns the number of accumulated events.
func (b *Builder) Len() int {
	return len(b.events)
}
