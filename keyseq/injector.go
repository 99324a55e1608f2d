package keyseq

// Injector is the synthetic-input capability the sequencer depends on. Any OS
// binding that satisfies it plugs in unchanged; tests use RecordingInjector.
type Injector interface {
	// SendBatch dispatches the ordered sequence as one indivisible OS call, so
	// no other input source (including the user's hands) can interleave
	// between the events.
	SendBatch(events []KeyEvent) error

	// IsPhysicallyDown reports the hardware down-state of key, independent of
	// any synthetic input.
	IsPhysicallyDown(key Key) (bool, error)

	// IsLogicallyDown reports the OS keyboard table's down-state of key, which
	// synthetic input can change without the user's hands moving.
	IsLogicallyDown(key Key) (bool, error)
}
