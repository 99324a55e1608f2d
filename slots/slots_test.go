package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/clipdeck/storage"
)

func openTestDeck(t *testing.T) (*Deck, *storage.DB) {
	t.Helper()

	db, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deck, err := Open(db)
	require.NoError(t, err)
	return deck, db
}

func TestStoreAndGet(t *testing.T) {
	deck, _ := openTestDeck(t)

	require.NoError(t, deck.Store(1, "hello"))

	content, ok := deck.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "hello", content)

	_, ok = deck.Get(2)
	assert.False(t, ok)
}

func TestStoreRejectsOutOfRangeSlots(t *testing.T) {
	deck, _ := openTestDeck(t)

	assert.Error(t, deck.Store(0, "x"))
	assert.Error(t, deck.Store(Count+1, "x"))
	assert.Error(t, deck.Clear(-1))
}

func TestDeckPersistsAcrossReopen(t *testing.T) {
	deck, db := openTestDeck(t)

	require.NoError(t, deck.Store(3, "kept"))
	require.NoError(t, deck.Store(7, "also kept"))

	reopened, err := Open(db)
	require.NoError(t, err)

	content, ok := reopened.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "kept", content)
	assert.Len(t, reopened.All(), 2)
}

func TestClear(t *testing.T) {
	deck, db := openTestDeck(t)

	require.NoError(t, deck.Store(5, "temp"))
	require.NoError(t, deck.Clear(5))

	_, ok := deck.Get(5)
	assert.False(t, ok)

	reopened, err := Open(db)
	require.NoError(t, err)
	_, ok = reopened.Get(5)
	assert.False(t, ok)
}

func TestOnChangeFires(t *testing.T) {
	deck, _ := openTestDeck(t)

	type change struct {
		slot    int
		content string
	}
	var changes []change
	deck.OnChange(func(slot int, content string) {
		changes = append(changes, change{slot, content})
	})

	require.NoError(t, deck.Store(2, "a"))
	require.NoError(t, deck.Clear(2))

	require.Len(t, changes, 2)
	assert.Equal(t, change{2, "a"}, changes[0])
	assert.Equal(t, change{2, ""}, changes[1])
}
