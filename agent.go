package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/keyseq"
	"markestedt/clipdeck/midi"
	"markestedt/clipdeck/platform"
	"markestedt/clipdeck/slots"
	"markestedt/clipdeck/storage"
	"markestedt/clipdeck/web"
)

// clipboardSettleDelay gives the focused application time to publish the
// selection after a synthetic Ctrl+C, and the clipboard time to update
// before a synthetic Ctrl+V.
const clipboardSettleDelay = 50 * time.Millisecond

// Agent coordinates the trigger sources (hotkeys, MIDI, web UI) with the
// keyboard sequencer, the clipboard and the slot deck
type Agent struct {
	cfg       *config.Config
	seq       *keyseq.Sequencer
	hotkeys   platform.Hotkeys
	clipboard platform.Clipboard
	deck      *slots.Deck
	db        *storage.DB
	midi      *midi.Listener
	web       *web.Server
	triggers  chan platform.Trigger
}

// NewAgent creates a new agent instance. webServer may be nil when the
// dashboard is disabled.
func NewAgent(cfg *config.Config, db *storage.DB, deck *slots.Deck, seq *keyseq.Sequencer, triggers chan platform.Trigger, webServer *web.Server) *Agent {
	return &Agent{
		cfg:       cfg,
		seq:       seq,
		hotkeys:   platform.NewHotkeys(),
		clipboard: platform.NewClipboard(),
		deck:      deck,
		db:        db,
		midi:      midi.NewListener(cfg.MIDI),
		web:       webServer,
		triggers:  triggers,
	}
}

// Run starts the agent's main event loop
func (a *Agent) Run(ctx context.Context) error {
	bindings, err := a.buildBindings()
	if err != nil {
		return fmt.Errorf("failed to build hotkey bindings: %w", err)
	}

	hotkeyEvents, err := a.hotkeys.Listen(ctx, bindings)
	if err != nil {
		return fmt.Errorf("failed to start hotkey listener: %w", err)
	}

	if a.cfg.MIDI.Enabled {
		// A missing controller should not take the hotkeys down with it.
		if err := a.midi.Listen(ctx, a.triggers); err != nil {
			slog.Error("MIDI listener unavailable, continuing without it", "error", err)
		}
	}

	cleanupInterval := time.Duration(a.cfg.Cleanup.IntervalMs) * time.Millisecond
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	slog.Info("ClipDeck started",
		"copy_hotkeys", a.cfg.Hotkeys.CopyModifiers+"+1..0",
		"paste_hotkeys", a.cfg.Hotkeys.PasteModifiers+"+1..0",
		"midi", a.cfg.MIDI.Enabled)

	for {
		select {
		case <-ctx.Done():
			return nil

		case trg := <-hotkeyEvents:
			a.handleTrigger(trg)

		case trg := <-a.triggers:
			a.handleTrigger(trg)

		case <-cleanup.C:
			if err := a.seq.CleanupStuckModifiers(); err != nil {
				slog.Error("Stuck-modifier cleanup failed", "error", err)
			}
		}
	}
}

// buildBindings expands the configured modifier chords into one copy and one
// paste binding per slot, on the digit keys 1..0.
func (a *Agent) buildBindings() ([]platform.Binding, error) {
	copyMods, err := config.ParseModifiers(a.cfg.Hotkeys.CopyModifiers)
	if err != nil {
		return nil, fmt.Errorf("invalid copy modifiers: %w", err)
	}
	pasteMods, err := config.ParseModifiers(a.cfg.Hotkeys.PasteModifiers)
	if err != nil {
		return nil, fmt.Errorf("invalid paste modifiers: %w", err)
	}
	if copyMods == pasteMods {
		return nil, fmt.Errorf("copy and paste hotkeys use the same modifiers %q", a.cfg.Hotkeys.CopyModifiers)
	}

	var bindings []platform.Binding
	for slot := 1; slot <= slots.Count; slot++ {
		key, err := platform.SlotKey(slot)
		if err != nil {
			return nil, err
		}

		bindings = append(bindings,
			platform.Binding{
				Combo:   platform.KeyCombo{Ctrl: copyMods.Ctrl, Shift: copyMods.Shift, Alt: copyMods.Alt, Win: copyMods.Win, Key: key},
				Trigger: platform.Trigger{Action: platform.ActionCopy, Slot: slot, Source: "hotkey"},
			},
			platform.Binding{
				Combo:   platform.KeyCombo{Ctrl: pasteMods.Ctrl, Shift: pasteMods.Shift, Alt: pasteMods.Alt, Win: pasteMods.Win, Key: key},
				Trigger: platform.Trigger{Action: platform.ActionPaste, Slot: slot, Source: "hotkey"},
			},
		)
	}
	return bindings, nil
}

func (a *Agent) handleTrigger(trg platform.Trigger) {
	slog.Info("Trigger", "action", trg.Action, "slot", trg.Slot, "source", trg.Source)

	capture := &storage.Capture{
		Timestamp: time.Now(),
		Slot:      trg.Slot,
		Action:    trg.Action.String(),
		Source:    trg.Source,
	}

	var chars int
	var err error
	switch trg.Action {
	case platform.ActionCopy:
		chars, err = a.copyToSlot(trg.Slot)
	case platform.ActionPaste:
		chars, err = a.pasteFromSlot(trg.Slot)
	default:
		err = fmt.Errorf("unknown action %d", trg.Action)
	}

	capture.CharacterCount = chars
	capture.Success = err == nil
	if err != nil {
		capture.ErrorMessage = err.Error()
		slog.Error("Trigger failed", "action", trg.Action, "slot", trg.Slot, "error", err)
	}

	if dbErr := a.db.SaveCapture(capture); dbErr != nil {
		slog.Error("Failed to save capture", "error", dbErr)
	}
	if a.web != nil {
		a.web.BroadcastCapture(capture)
	}
}

// copyToSlot sends Ctrl+C into the focused window, then stores whatever
// landed on the clipboard into the slot.
func (a *Agent) copyToSlot(slot int) (int, error) {
	if err := a.seq.SendCopyWithModifierRelease(); err != nil {
		return 0, err
	}

	// Wait for the focused application to publish the selection
	time.Sleep(clipboardSettleDelay)

	text, err := a.clipboard.Get()
	if err != nil {
		return 0, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if text == "" {
		return 0, fmt.Errorf("nothing captured: selection was empty or not text")
	}

	if err := a.deck.Store(slot, text); err != nil {
		return 0, err
	}
	return len(text), nil
}

// pasteFromSlot loads the slot onto the clipboard and sends Ctrl+V into the
// focused window.
func (a *Agent) pasteFromSlot(slot int) (int, error) {
	text, ok := a.deck.Get(slot)
	if !ok {
		return 0, fmt.Errorf("slot %d is empty", slot)
	}

	if err := a.clipboard.Set(text); err != nil {
		return 0, fmt.Errorf("failed to set clipboard: %w", err)
	}

	// Wait for the clipboard to update before the paste lands
	time.Sleep(clipboardSettleDelay)

	if err := a.seq.SendPasteWithModifierRelease(); err != nil {
		return 0, err
	}
	return len(text), nil
}
