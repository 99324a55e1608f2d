package keyseq

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// stuckTimeout is how long a combo-send may stay unconfirmed before the
// safety net treats it as interrupted. Anything shorter risks false positives
// from ordinarily slow dispatch.
const stuckTimeout = 2 * time.Second

// Sequencer serializes all synthetic keyboard operations through one lock. A
// combo-send that starts records an in-flight timestamp; the timestamp is
// cleared only on success, so CleanupStuckModifiers can later detect and
// repair an operation that died between releasing and restoring modifiers.
type Sequencer struct {
	mu         sync.Mutex
	inj        Injector
	ops        Builder
	inFlightAt time.Time // zero when no operation is awaiting confirmation
	now        func() time.Time
}

// NewSequencer creates a sequencer dispatching through inj.
func NewSequencer(inj Injector) *Sequencer {
	return &Sequencer{inj: inj, now: time.Now}
}

// SendCopyWithModifierRelease sends Ctrl+C with the full
// release-baseline/restore envelope.
func (s *Sequencer) SendCopyWithModifierRelease() error {
	return s.sendCombo(KeyC)
}

// SendPasteWithModifierRelease sends Ctrl+V with the full
// release-baseline/restore envelope.
func (s *Sequencer) SendPasteWithModifierRelease() error {
	return s.sendCombo(KeyV)
}

// sendCombo dispatches one atomic combo: release every modifier variant to
// reach a known baseline, press Ctrl, tap target, release Ctrl, then press
// whatever the user is physically holding. Restoring to physical rather than
// logical state is the point: the logical table may be wrong precisely
// because the chord that triggered us was itself synthetic or still held.
func (s *Sequencer) sendCombo(target Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	physical, err := CapturePhysical(s.inj)
	if err != nil {
		return fmt.Errorf("capture physical modifier state: %w", err)
	}
	logical, err := CaptureLogical(s.inj)
	if err != nil {
		return fmt.Errorf("capture logical modifier state: %w", err)
	}
	if logical != physical {
		slog.Debug("Modifier state diverged before combo", "physical", physical, "logical", logical)
	}

	s.inFlightAt = s.now()

	s.ops.Clear()
	s.ops.ReleaseAllModifiers()
	s.ops.KeyDown(KeyControl)
	s.ops.KeyPress(target)
	s.ops.KeyUp(KeyControl)
	s.ops.TransitionModifiers(ModifierState{}, physical)

	if err := s.inj.SendBatch(s.ops.Build()); err != nil {
		// Timestamp stays set: the safety net owns the repair.
		return fmt.Errorf("send combo batch: %w", err)
	}

	s.inFlightAt = time.Time{}
	return nil
}

// ReleaseAllModifiers unconditionally releases the generic and side-specific
// codes of Ctrl, Shift and Alt. Called at shutdown so the keyboard is left in
// a clean state whatever happened before.
func (s *Sequencer) ReleaseAllModifiers() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ops.Clear()
	s.ops.ReleaseAllModifiers()
	if err := s.inj.SendBatch(s.ops.Build()); err != nil {
		return fmt.Errorf("send release batch: %w", err)
	}
	return nil
}

// CleanupStuckModifiers is the periodic safety net. It repairs only the
// dangerous failure mode, logical-down with physical-up: a synthetic release
// that never landed makes every keystroke the user types behave as modified.
// The reverse (user still holding a key we think is up) self-corrects when
// they let go, so it is deliberately left alone.
func (s *Sequencer) CleanupStuckModifiers() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlightAt.IsZero() {
		return nil
	}
	if s.now().Sub(s.inFlightAt) < stuckTimeout {
		return nil
	}

	logical, err := CaptureLogical(s.inj)
	if err != nil {
		return fmt.Errorf("capture logical modifier state: %w", err)
	}
	physical, err := CapturePhysical(s.inj)
	if err != nil {
		return fmt.Errorf("capture physical modifier state: %w", err)
	}

	if logical == physical {
		// The interrupted operation resolved on its own.
		s.inFlightAt = time.Time{}
		return nil
	}

	s.ops.Clear()
	stuck := []struct {
		logical, physical bool
		generic           Key
		left, right       Key
	}{
		{logical.Ctrl, physical.Ctrl, KeyControl, KeyLeftControl, KeyRightControl},
		{logical.Shift, physical.Shift, KeyShift, KeyLeftShift, KeyRightShift},
		{logical.Alt, physical.Alt, KeyAlt, KeyLeftAlt, KeyRightAlt},
	}
	for _, m := range stuck {
		if m.logical && !m.physical {
			s.ops.KeyUp(m.generic)
			s.ops.KeyUp(m.left)
			s.ops.KeyUp(m.right)
		}
	}

	if s.ops.Len() > 0 {
		slog.Warn("Releasing stuck modifiers", "logical", logical, "physical", physical)
		if err := s.inj.SendBatch(s.ops.Build()); err != nil {
			return fmt.Errorf("send reconciliation batch: %w", err)
		}
	}

	s.inFlightAt = time.Time{}
	return nil
}

// InFlight reports whether a combo-send started but has not confirmed
// completion. Exposed for status reporting.
func (s *Sequencer) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.inFlightAt.IsZero()
}
