package keyseq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventIndex returns the index of the first occurrence of want, or -1.
func eventIndex(events []KeyEvent, want KeyEvent) int {
	for i, ev := range events {
		if ev == want {
			return i
		}
	}
	return -1
}

// requireComboShape asserts the invariants every combo-send must satisfy:
// a full 9-event release block first, then Ctrl strictly bracketing one clean
// tap of the target key.
func requireComboShape(t *testing.T, events []KeyEvent, target Key) {
	t.Helper()

	require.GreaterOrEqual(t, len(events), 13)

	// The first contiguous run is a full modifier release; no key-down may
	// appear inside it.
	for i := 0; i < 9; i++ {
		require.True(t, events[i].Up, "event %d inside the release block is a key-down", i)
	}

	ctrlDown := eventIndex(events, KeyEvent{Key: KeyControl})
	require.NotEqual(t, -1, ctrlDown)
	targetDown := eventIndex(events, KeyEvent{Key: target})
	require.NotEqual(t, -1, targetDown)
	targetUp := eventIndex(events, KeyEvent{Key: target, Up: true})
	require.NotEqual(t, -1, targetUp)
	ctrlUp := eventIndex(events[ctrlDown:], KeyEvent{Key: KeyControl, Up: true})
	require.NotEqual(t, -1, ctrlUp)
	ctrlUp += ctrlDown

	assert.Less(t, ctrlDown, targetDown, "Ctrl must go down before the target key")
	assert.Less(t, targetDown, targetUp, "target key must go down before it goes up")
	assert.Less(t, targetUp, ctrlUp, "Ctrl must stay down through the whole tap")
}

func TestSendCopyRestoresPhysicalModifiers(t *testing.T) {
	// Scenario: the combo was triggered by a ctrl+alt hotkey the user is
	// still physically holding.
	inj := NewRecordingInjector()
	inj.SetPhysical(KeyControl, true)
	inj.SetPhysical(KeyAlt, true)
	seq := NewSequencer(inj)

	require.NoError(t, seq.SendCopyWithModifierRelease())
	require.Len(t, inj.Batches(), 1, "a combo must be one atomic batch")

	events := inj.Events()
	requireComboShape(t, events, KeyC)

	// The final two events restore exactly the held modifiers.
	tail := events[len(events)-2:]
	restored := map[Key]bool{}
	for _, ev := range tail {
		require.False(t, ev.Up, "restore step must press, not release")
		restored[ev.Key] = true
	}
	assert.Equal(t, map[Key]bool{KeyControl: true, KeyAlt: true}, restored)

	// Shift was never physically down, so no Shift press may appear after
	// the release block.
	assert.Equal(t, -1, eventIndex(events[9:], KeyEvent{Key: KeyShift}))
}

func TestSendPasteWithNothingHeld(t *testing.T) {
	// Scenario: triggered without any keyboard involvement at all, e.g. by a
	// MIDI note. Nothing must remain pressed afterwards.
	inj := NewRecordingInjector()
	seq := NewSequencer(inj)

	require.NoError(t, seq.SendPasteWithModifierRelease())

	events := inj.Events()
	requireComboShape(t, events, KeyV)

	ctrlDown := eventIndex(events, KeyEvent{Key: KeyControl})
	ctrlUp := ctrlDown + eventIndex(events[ctrlDown:], KeyEvent{Key: KeyControl, Up: true})
	for i := ctrlUp + 1; i < len(events); i++ {
		assert.True(t, events[i].Up, "no key-down may follow the closing Ctrl release, found one at %d", i)
	}
}

func TestConsecutiveCombosRestoreIdentically(t *testing.T) {
	inj := NewRecordingInjector()
	inj.SetPhysical(KeyControl, true)
	inj.SetPhysical(KeyShift, true)
	seq := NewSequencer(inj)

	require.NoError(t, seq.SendCopyWithModifierRelease())
	require.NoError(t, seq.SendCopyWithModifierRelease())

	batches := inj.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, batches[0], batches[1], "the restore step must not accumulate state across calls")
}

func TestComboClearsInFlightOnSuccess(t *testing.T) {
	inj := NewRecordingInjector()
	seq := NewSequencer(inj)

	require.NoError(t, seq.SendCopyWithModifierRelease())
	assert.False(t, seq.InFlight())
}

func TestComboFailureLeavesInFlight(t *testing.T) {
	inj := NewRecordingInjector()
	inj.SendErr = errors.New("dispatch failed")
	seq := NewSequencer(inj)

	err := seq.SendCopyWithModifierRelease()
	require.ErrorIs(t, err, inj.SendErr)
	assert.True(t, seq.InFlight(), "a failed combo must stay flagged for reconciliation")
}

func TestQueryFailureBubbles(t *testing.T) {
	inj := NewRecordingInjector()
	inj.QueryErr = errors.New("query failed")
	seq := NewSequencer(inj)

	err := seq.SendPasteWithModifierRelease()
	require.ErrorIs(t, err, inj.QueryErr)
	assert.Empty(t, inj.Batches(), "no events may be sent when state capture fails")
}

func TestReleaseAllModifiers(t *testing.T) {
	inj := NewRecordingInjector()
	seq := NewSequencer(inj)

	require.NoError(t, seq.ReleaseAllModifiers())

	events := inj.Events()
	require.Len(t, events, 9)
	for _, ev := range events {
		assert.True(t, ev.Up)
	}
}

// newStuckSequencer fails one copy so the in-flight timestamp is retained,
// then resets the injector for the assertions that follow. The returned
// sequencer's clock is pinned to base.
func newStuckSequencer(t *testing.T) (*Sequencer, *RecordingInjector, time.Time) {
	t.Helper()

	inj := NewRecordingInjector()
	seq := NewSequencer(inj)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seq.now = func() time.Time { return base }

	inj.SendErr = errors.New("dispatch failed")
	require.Error(t, seq.SendCopyWithModifierRelease())
	require.True(t, seq.InFlight())

	inj.SendErr = nil
	inj.Reset()
	return seq, inj, base
}

func TestCleanupNoOpWhenIdle(t *testing.T) {
	inj := NewRecordingInjector()
	seq := NewSequencer(inj)

	require.NoError(t, seq.CleanupStuckModifiers())
	assert.Empty(t, inj.Batches())
}

func TestCleanupNoOpUnderTimeout(t *testing.T) {
	seq, inj, base := newStuckSequencer(t)
	seq.now = func() time.Time { return base.Add(stuckTimeout - time.Millisecond) }

	require.NoError(t, seq.CleanupStuckModifiers())
	assert.Empty(t, inj.Batches())
	assert.True(t, seq.InFlight(), "an operation under the timeout must not be reconciled yet")
}

func TestCleanupSelfResolved(t *testing.T) {
	seq, inj, base := newStuckSequencer(t)
	seq.now = func() time.Time { return base.Add(stuckTimeout) }

	// Logical and physical agree, so there is nothing to repair.
	require.NoError(t, seq.CleanupStuckModifiers())
	assert.Empty(t, inj.Batches())
	assert.False(t, seq.InFlight())
}

func TestCleanupReleasesStuckCtrl(t *testing.T) {
	seq, inj, base := newStuckSequencer(t)
	seq.now = func() time.Time { return base.Add(stuckTimeout + time.Second) }

	// Ctrl is logically down but physically up: the failed release left a
	// phantom modifier behind.
	inj.SetLogical(KeyControl, true)

	require.NoError(t, seq.CleanupStuckModifiers())

	batches := inj.Batches()
	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []KeyEvent{
		{Key: KeyControl, Up: true},
		{Key: KeyLeftControl, Up: true},
		{Key: KeyRightControl, Up: true},
	}, batches[0], "only Ctrl's three codes may be released")
	assert.False(t, seq.InFlight())

	// The repair is one-shot: a second pass has nothing left to do.
	inj.Reset()
	require.NoError(t, seq.CleanupStuckModifiers())
	assert.Empty(t, inj.Batches())
}

func TestCleanupIgnoresPhysicallyHeldKeys(t *testing.T) {
	seq, inj, base := newStuckSequencer(t)
	seq.now = func() time.Time { return base.Add(stuckTimeout) }

	// Shift is physically held but logically up. Never press keys on the
	// user's behalf: this corrects itself when they release Shift.
	inj.SetPhysical(KeyShift, true)
	inj.SetLogical(KeyShift, false)

	require.NoError(t, seq.CleanupStuckModifiers())
	assert.Empty(t, inj.Batches())
	assert.False(t, seq.InFlight())
}

func TestCleanupQueryFailureRetainsInFlight(t *testing.T) {
	seq, inj, base := newStuckSequencer(t)
	seq.now = func() time.Time { return base.Add(stuckTimeout) }

	inj.QueryErr = errors.New("query failed")
	err := seq.CleanupStuckModifiers()
	require.ErrorIs(t, err, inj.QueryErr)
	assert.True(t, seq.InFlight(), "a failed reconciliation must remain eligible for retry")
}
