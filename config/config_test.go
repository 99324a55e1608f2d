package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		chord   string
		want    Modifiers
		wantErr bool
	}{
		{chord: "ctrl+alt", want: Modifiers{Ctrl: true, Alt: true}},
		{chord: "ctrl+shift", want: Modifiers{Ctrl: true, Shift: true}},
		{chord: "CTRL+Shift", want: Modifiers{Ctrl: true, Shift: true}},
		{chord: "control+win", want: Modifiers{Ctrl: true, Win: true}},
		{chord: " ctrl + alt ", want: Modifiers{Ctrl: true, Alt: true}},
		{chord: "shift", want: Modifiers{Shift: true}},
		{chord: "", wantErr: true},
		{chord: "ctrl+", wantErr: true},
		{chord: "ctrl+q", wantErr: true},
		{chord: "hyper", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.chord, func(t *testing.T) {
			got, err := ParseModifiers(tt.chord)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ctrl+alt", cfg.Hotkeys.CopyModifiers)
	assert.Equal(t, "ctrl+shift", cfg.Hotkeys.PasteModifiers)
	assert.False(t, cfg.MIDI.Enabled)
	assert.Equal(t, 36, cfg.MIDI.BaseNote)
	assert.Equal(t, 16, cfg.MIDI.PasteOffset)
	assert.True(t, cfg.Web.Enabled)
	assert.Equal(t, 500, cfg.Cleanup.IntervalMs)

	// A second load reads the file written by the first.
	again, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	cfg.MIDI.Enabled = true
	cfg.MIDI.Port = "Launchpad"
	cfg.Web.Port = 9000
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.MIDI.Enabled)
	assert.Equal(t, "Launchpad", loaded.MIDI.Port)
	assert.Equal(t, 9000, loaded.Web.Port)
}
