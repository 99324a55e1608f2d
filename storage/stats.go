package storage

import "fmt"

// DailyStats represents capture statistics for a single day
type DailyStats struct {
	Date         string
	Copies       int
	Pastes       int
	SuccessCount int
	FailureCount int
}

// SlotStats represents statistics grouped by slot
type SlotStats struct {
	Slot         int
	Copies       int
	Pastes       int
	FailureCount int
}

// OverallStats represents overall statistics
type OverallStats struct {
	TotalCaptures   int
	TotalCopies     int
	TotalPastes     int
	TotalCharacters int64
	SuccessCount    int
	FailureCount    int
}

// GetDailyStats retrieves statistics grouped by date for the last N days
func (db *DB) GetDailyStats(days int) ([]DailyStats, error) {
	query := `
		SELECT
			DATE(timestamp) as date,
			SUM(CASE WHEN action = 'copy' THEN 1 ELSE 0 END) as copies,
			SUM(CASE WHEN action = 'paste' THEN 1 ELSE 0 END) as pastes,
			SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END) as success_count,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM captures
		WHERE timestamp >= datetime('now', ?)
		GROUP BY DATE(timestamp)
		ORDER BY date DESC
	`

	rows, err := db.conn.Query(query, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStats
	for rows.Next() {
		var s DailyStats
		if err := rows.Scan(&s.Date, &s.Copies, &s.Pastes, &s.SuccessCount, &s.FailureCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetSlotStats retrieves statistics grouped by slot for the last N days
func (db *DB) GetSlotStats(days int) ([]SlotStats, error) {
	query := `
		SELECT
			slot,
			SUM(CASE WHEN action = 'copy' THEN 1 ELSE 0 END) as copies,
			SUM(CASE WHEN action = 'paste' THEN 1 ELSE 0 END) as pastes,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) as failure_count
		FROM captures
		WHERE timestamp >= datetime('now', ?)
		GROUP BY slot
		ORDER BY slot
	`

	rows, err := db.conn.Query(query, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, fmt.Errorf("failed to query slot stats: %w", err)
	}
	defer rows.Close()

	var stats []SlotStats
	for rows.Next() {
		var s SlotStats
		if err := rows.Scan(&s.Slot, &s.Copies, &s.Pastes, &s.FailureCount); err != nil {
			return nil, fmt.Errorf("failed to scan slot stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// GetOverallStats retrieves aggregate statistics for the last N days
func (db *DB) GetOverallStats(days int) (*OverallStats, error) {
	query := `
		SELECT
			COUNT(*) as total_captures,
			COALESCE(SUM(CASE WHEN action = 'copy' THEN 1 ELSE 0 END), 0) as total_copies,
			COALESCE(SUM(CASE WHEN action = 'paste' THEN 1 ELSE 0 END), 0) as total_pastes,
			COALESCE(SUM(character_count), 0) as total_characters,
			COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0) as success_count,
			COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0) as failure_count
		FROM captures
		WHERE timestamp >= datetime('now', ?)
	`

	var s OverallStats
	err := db.conn.QueryRow(query, fmt.Sprintf("-%d days", days)).Scan(
		&s.TotalCaptures, &s.TotalCopies, &s.TotalPastes,
		&s.TotalCharacters, &s.SuccessCount, &s.FailureCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	return &s, nil
}
