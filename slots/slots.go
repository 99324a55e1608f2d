// Package slots manages the ten numbered clipboard slots: current values in
// memory, persisted through the storage layer so a restart keeps the deck.
package slots

import (
	"fmt"
	"sync"

	"markestedt/clipdeck/storage"
)

// Count is the number of slots in a deck.
const Count = 10

// Deck holds the current slot contents. All methods are safe for concurrent
// use; change notifications fire outside the lock via the registered callback.
type Deck struct {
	mu       sync.RWMutex
	db       *storage.DB
	items    map[int]string
	onChange func(slot int, content string)
}

// Open loads the persisted slot contents from db.
func Open(db *storage.DB) (*Deck, error) {
	rows, err := db.GetSlots()
	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	items := make(map[int]string, len(rows))
	for _, r := range rows {
		if r.Slot >= 1 && r.Slot <= Count {
			items[r.Slot] = r.Content
		}
	}

	return &Deck{db: db, items: items}, nil
}

// OnChange registers a callback fired after every successful Store or Clear.
// Must be called before the deck is shared.
func (d *Deck) OnChange(fn func(slot int, content string)) {
	d.onChange = fn
}

// Store writes content into a slot and persists it.
func (d *Deck) Store(slot int, content string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	d.mu.Lock()
	if err := d.db.UpsertSlot(slot, content); err != nil {
		d.mu.Unlock()
		return err
	}
	d.items[slot] = content
	d.mu.Unlock()

	if d.onChange != nil {
		d.onChange(slot, content)
	}
	return nil
}

// Get returns a slot's content and whether the slot holds anything.
func (d *Deck) Get(slot int) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	content, ok := d.items[slot]
	return content, ok
}

// All returns a copy of every occupied slot.
func (d *Deck) All() map[int]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[int]string, len(d.items))
	for k, v := range d.items {
		out[k] = v
	}
	return out
}

// Clear empties a slot and removes it from persistence.
func (d *Deck) Clear(slot int) error {
	if err := checkSlot(slot); err != nil {
		return err
	}

	d.mu.Lock()
	if err := d.db.DeleteSlot(slot); err != nil {
		d.mu.Unlock()
		return err
	}
	delete(d.items, slot)
	d.mu.Unlock()

	if d.onChange != nil {
		d.onChange(slot, "")
	}
	return nil
}

func checkSlot(slot int) error {
	if slot < 1 || slot > Count {
		return fmt.Errorf("slot %d out of range 1..%d", slot, Count)
	}
	return nil
}
