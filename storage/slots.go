package storage

import (
	"fmt"
	"time"
)

// SlotRow is the persisted content of one numbered slot.
type SlotRow struct {
	Slot      int
	Content   string
	UpdatedAt time.Time
}

// UpsertSlot stores or replaces a slot's content.
func (db *DB) UpsertSlot(slot int, content string) error {
	query := `
		INSERT INTO slots (slot, content, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := db.conn.Exec(query, slot, content); err != nil {
		return fmt.Errorf("failed to upsert slot %d: %w", slot, err)
	}
	return nil
}

// GetSlots retrieves all persisted slots ordered by slot number.
func (db *DB) GetSlots() ([]SlotRow, error) {
	rows, err := db.conn.Query(`SELECT slot, content, updated_at FROM slots ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotRow
	for rows.Next() {
		var s SlotRow
		if err := rows.Scan(&s.Slot, &s.Content, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}

// DeleteSlot removes a slot's persisted content. Deleting an empty slot is
// not an error.
func (db *DB) DeleteSlot(slot int) error {
	if _, err := db.conn.Exec(`DELETE FROM slots WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("failed to delete slot %d: %w", slot, err)
	}
	return nil
}
