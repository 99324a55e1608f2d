package keyseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderKeyPress(t *testing.T) {
	var b Builder
	b.KeyPress(KeyC)

	require.Equal(t, []KeyEvent{
		{Key: KeyC, Up: false},
		{Key: KeyC, Up: true},
	}, b.Build())
}

func TestBuilderReleaseAllModifiers(t *testing.T) {
	var b Builder
	b.ReleaseAllModifiers()

	events := b.Build()
	require.Len(t, events, 9)

	released := make(map[Key]bool)
	for _, ev := range events {
		assert.True(t, ev.Up, "release block must contain only key-up events, got down for 0x%X", ev.Key)
		released[ev.Key] = true
	}

	for _, key := range []Key{
		KeyControl, KeyLeftControl, KeyRightControl,
		KeyShift, KeyLeftShift, KeyRightShift,
		KeyAlt, KeyLeftAlt, KeyRightAlt,
	} {
		assert.True(t, released[key], "expected release of 0x%X", key)
	}
}

func TestBuilderTransitionModifiers(t *testing.T) {
	tests := []struct {
		name string
		from ModifierState
		to   ModifierState
		want []KeyEvent
	}{
		{
			name: "none to none",
			want: nil,
		},
		{
			name: "none to ctrl+alt",
			to:   ModifierState{Ctrl: true, Alt: true},
			want: []KeyEvent{
				{Key: KeyControl},
				{Key: KeyAlt},
			},
		},
		{
			name: "none to all",
			to:   ModifierState{Ctrl: true, Shift: true, Alt: true},
			want: []KeyEvent{
				{Key: KeyControl},
				{Key: KeyShift},
				{Key: KeyAlt},
			},
		},
		{
			name: "ctrl to shift",
			from: ModifierState{Ctrl: true},
			to:   ModifierState{Shift: true},
			want: []KeyEvent{
				{Key: KeyControl, Up: true},
				{Key: KeyShift},
			},
		},
		{
			name: "identical states are a no-op",
			from: ModifierState{Ctrl: true, Shift: true},
			to:   ModifierState{Ctrl: true, Shift: true},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Builder
			b.TransitionModifiers(tt.from, tt.to)
			if tt.want == nil {
				assert.Zero(t, b.Len())
				return
			}
			assert.Equal(t, tt.want, b.Build())
		})
	}
}

func TestBuilderClear(t *testing.T) {
	var b Builder
	b.KeyDown(KeyControl)
	b.KeyPress(KeyV)
	require.Equal(t, 3, b.Len())

	b.Clear()
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Build())
}

func TestBuilderBuildDoesNotClear(t *testing.T) {
	var b Builder
	b.KeyPress(KeyC)

	first := b.Build()
	second := b.Build()
	assert.Equal(t, first, second)
	assert.Equal(t, 2, b.Len())
}
