package keyseq

import "sync"

// RecordingInjector is an in-memory Injector for tests. It stores every
// dispatched batch and answers state queries from settable key sets. Logical
// state mirrors physical state unless a key has been diverged explicitly with
// SetLogical, since the double has no real OS table to drift.
type RecordingInjector struct {
	mu       sync.Mutex
	batches  [][]KeyEvent
	physical map[Key]bool
	logical  map[Key]bool // overrides; keys absent here mirror physical

	// SendErr, when set, is returned by every SendBatch call.
	SendErr error
	// QueryErr, when set, is returned by every state query.
	QueryErr error
}

// NewRecordingInjector creates an empty recording injector with no keys held.
func NewRecordingInjector() *RecordingInjector {
	return &RecordingInjector{
		physical: make(map[Key]bool),
		logical:  make(map[Key]bool),
	}
}

// SendBatch records a copy of the batch.
func (r *RecordingInjector) SendBatch(events []KeyEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendErr != nil {
		return r.SendErr
	}
	batch := make([]KeyEvent, len(events))
	copy(batch, events)
	r.batches = append(r.batches, batch)
	return nil
}

// IsPhysicallyDown answers from the settable physical set.
func (r *RecordingInjector) IsPhysicallyDown(key Key) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.QueryErr != nil {
		return false, r.QueryErr
	}
	return r.physical[key], nil
}

// IsLogicallyDown answers from the logical overrides, falling back to the
// physical set for keys never diverged.
func (r *RecordingInjector) IsLogicallyDown(key Key) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.QueryErr != nil {
		return false, r.QueryErr
	}
	if down, ok := r.logical[key]; ok {
		return down, nil
	}
	return r.physical[key], nil
}

// SetPhysical marks a key as physically held or released.
func (r *RecordingInjector) SetPhysical(key Key, down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.physical[key] = down
}

// SetLogical diverges a key's logical state from its physical state.
func (r *RecordingInjector) SetLogical(key Key, down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logical[key] = down
}

// Batches returns the dispatched batches in order.
func (r *RecordingInjector) Batches() [][]KeyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]KeyEvent, len(r.batches))
	copy(out, r.batches)
	return out
}

// Events returns every dispatched event flattened across batches, in order.
func (r *RecordingInjector) Events() []KeyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []KeyEvent
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

// Reset drops all recorded batches, keeping the key state.
func (r *RecordingInjector) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = nil
}
