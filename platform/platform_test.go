package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKey(t *testing.T) {
	tests := []struct {
		slot    int
		want    int
		wantErr bool
	}{
		{slot: 1, want: 0x31},
		{slot: 5, want: 0x35},
		{slot: 9, want: 0x39},
		{slot: 10, want: 0x30},
		{slot: 0, wantErr: true},
		{slot: 11, wantErr: true},
		{slot: -3, wantErr: true},
	}

	for _, tt := range tests {
		got, err := SlotKey(tt.slot)
		if tt.wantErr {
			assert.Error(t, err, "slot %d", tt.slot)
			continue
		}
		require.NoError(t, err, "slot %d", tt.slot)
		assert.Equal(t, tt.want, got, "slot %d", tt.slot)
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "copy", ActionCopy.String())
	assert.Equal(t, "paste", ActionPaste.String())
	assert.Equal(t, "unknown", Action(42).String())
}
