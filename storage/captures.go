package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Capture represents a single copy or paste operation against a slot.
type Capture struct {
	ID             int64
	Timestamp      time.Time
	Slot           int
	Action         string // "copy" or "paste"
	Source         string // "hotkey", "midi" or "web"
	CharacterCount int
	Success        bool
	ErrorMessage   string
}

// SaveCapture saves a capture to the database
func (db *DB) SaveCapture(c *Capture) error {
	query := `
		INSERT INTO captures (
			slot, action, source, character_count, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := db.conn.Exec(query,
		c.Slot, c.Action, c.Source, c.CharacterCount, c.Success, c.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	c.ID = id
	return nil
}

// GetCaptures retrieves captures with pagination
func (db *DB) GetCaptures(limit, offset int) ([]Capture, error) {
	query := `
		SELECT id, timestamp, slot, action, source, character_count, success, error_message
		FROM captures
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.conn.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		var errorMessage sql.NullString

		err := rows.Scan(
			&c.ID, &c.Timestamp, &c.Slot, &c.Action, &c.Source,
			&c.CharacterCount, &c.Success, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}

		if errorMessage.Valid {
			c.ErrorMessage = errorMessage.String
		}

		captures = append(captures, c)
	}

	return captures, rows.Err()
}

// DeleteCapture deletes a capture by ID
func (db *DB) DeleteCapture(id int64) error {
	result, err := db.conn.Exec(`DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("capture not found")
	}

	return nil
}

// GetCaptureCount returns the total number of captures
func (db *DB) GetCaptureCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM captures").Scan(&count)
	return count, err
}
