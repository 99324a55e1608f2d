package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSlotUpsertAndGet(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertSlot(1, "first"))
	require.NoError(t, db.UpsertSlot(3, "third"))
	require.NoError(t, db.UpsertSlot(1, "first, replaced"))

	slots, err := db.GetSlots()
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, 1, slots[0].Slot)
	assert.Equal(t, "first, replaced", slots[0].Content)
	assert.Equal(t, 3, slots[1].Slot)
	assert.Equal(t, "third", slots[1].Content)
}

func TestDeleteSlot(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertSlot(2, "content"))
	require.NoError(t, db.DeleteSlot(2))
	// Deleting again is not an error.
	require.NoError(t, db.DeleteSlot(2))

	slots, err := db.GetSlots()
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSaveAndGetCaptures(t *testing.T) {
	db := openTestDB(t)

	c := &Capture{
		Slot:           4,
		Action:         "copy",
		Source:         "hotkey",
		CharacterCount: 42,
		Success:        true,
	}
	require.NoError(t, db.SaveCapture(c))
	assert.NotZero(t, c.ID)

	failed := &Capture{
		Slot:         4,
		Action:       "paste",
		Source:       "midi",
		Success:      false,
		ErrorMessage: "send combo batch: dispatch failed",
	}
	require.NoError(t, db.SaveCapture(failed))

	captures, err := db.GetCaptures(10, 0)
	require.NoError(t, err)
	require.Len(t, captures, 2)

	count, err := db.GetCaptureCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteCapture(t *testing.T) {
	db := openTestDB(t)

	c := &Capture{Slot: 1, Action: "copy", Source: "web", Success: true}
	require.NoError(t, db.SaveCapture(c))

	require.NoError(t, db.DeleteCapture(c.ID))
	assert.Error(t, db.DeleteCapture(c.ID), "deleting a missing capture should fail")
}

func TestOverallStats(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.SaveCapture(&Capture{
			Slot: 1, Action: "copy", Source: "hotkey", CharacterCount: 10, Success: true,
		}))
	}
	require.NoError(t, db.SaveCapture(&Capture{
		Slot: 2, Action: "paste", Source: "hotkey", Success: false, ErrorMessage: "boom",
	}))

	stats, err := db.GetOverallStats(7)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalCaptures)
	assert.Equal(t, 3, stats.TotalCopies)
	assert.Equal(t, 1, stats.TotalPastes)
	assert.Equal(t, int64(30), stats.TotalCharacters)
	assert.Equal(t, 3, stats.SuccessCount)
	assert.Equal(t, 1, stats.FailureCount)
}

func TestSlotStats(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveCapture(&Capture{Slot: 1, Action: "copy", Source: "hotkey", Success: true}))
	require.NoError(t, db.SaveCapture(&Capture{Slot: 1, Action: "paste", Source: "hotkey", Success: true}))
	require.NoError(t, db.SaveCapture(&Capture{Slot: 2, Action: "copy", Source: "midi", Success: false}))

	stats, err := db.GetSlotStats(7)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].Slot)
	assert.Equal(t, 1, stats[0].Copies)
	assert.Equal(t, 1, stats[0].Pastes)
	assert.Equal(t, 2, stats[1].Slot)
	assert.Equal(t, 1, stats[1].FailureCount)
}
