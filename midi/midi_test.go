package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"markestedt/clipdeck/config"
	"markestedt/clipdeck/platform"
)

func TestTriggerFor(t *testing.T) {
	l := NewListener(config.MIDIConfig{BaseNote: 36, PasteOffset: 16})

	tests := []struct {
		note string
		n    int
		want platform.Trigger
		ok   bool
	}{
		{"first copy pad", 36, platform.Trigger{Action: platform.ActionCopy, Slot: 1, Source: "midi"}, true},
		{"last copy pad", 45, platform.Trigger{Action: platform.ActionCopy, Slot: 10, Source: "midi"}, true},
		{"first paste pad", 52, platform.Trigger{Action: platform.ActionPaste, Slot: 1, Source: "midi"}, true},
		{"last paste pad", 61, platform.Trigger{Action: platform.ActionPaste, Slot: 10, Source: "midi"}, true},
		{"below copy bank", 35, platform.Trigger{}, false},
		{"between banks", 46, platform.Trigger{}, false},
		{"above paste bank", 62, platform.Trigger{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			got, ok := l.triggerFor(tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
