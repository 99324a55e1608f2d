// Package midi turns incoming MIDI notes into slot triggers: a pad controller
// can drive the deck hands-free while both hands stay on an instrument. Notes
// base..base+9 copy into slots 1..10; the bank at base+offset pastes.
package midi

import (
	"context"
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the default input driver

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/platform"
)

// Listener maps NoteOn events from one MIDI input port to slot triggers.
type Listener struct {
	cfg config.MIDIConfig
}

// NewListener creates a listener for the configured port and note banks.
func NewListener(cfg config.MIDIConfig) *Listener {
	return &Listener{cfg: cfg}
}

// Listen opens the configured input port and forwards triggers onto out until
// ctx is cancelled. Notes outside both banks are ignored.
func (l *Listener) Listen(ctx context.Context, out chan<- platform.Trigger) error {
	in, err := midi.FindInPort(l.cfg.Port)
	if err != nil {
		return fmt.Errorf("find MIDI input port %q: %w", l.cfg.Port, err)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var channel, note, velocity uint8
		if !msg.GetNoteStart(&channel, &note, &velocity) {
			return
		}

		trigger, ok := l.triggerFor(int(note))
		if !ok {
			return
		}

		select {
		case out <- trigger:
		default:
			slog.Warn("Trigger channel full, dropping MIDI event", "note", note)
		}
	})
	if err != nil {
		return fmt.Errorf("listen on MIDI port %q: %w", in.String(), err)
	}

	slog.Info("MIDI listener started", "port", in.String(), "base_note", l.cfg.BaseNote)

	go func() {
		<-ctx.Done()
		stop()
		midi.CloseDriver()
	}()

	return nil
}

// triggerFor resolves a note number to a trigger via the two note banks.
func (l *Listener) triggerFor(note int) (platform.Trigger, bool) {
	if slot := note - l.cfg.BaseNote + 1; slot >= 1 && slot <= 10 {
		return platform.Trigger{Action: platform.ActionCopy, Slot: slot, Source: "midi"}, true
	}
	pasteBase := l.cfg.BaseNote + l.cfg.PasteOffset
	if slot := note - pasteBase + 1; slot >= 1 && slot <= 10 {
		return platform.Trigger{Action: platform.ActionPaste, Slot: slot, Source: "midi"}, true
	}
	return platform.Trigger{}, false
}
