package database

import (
	"fmt"
	"time"

	"github.com/example/flashdrill/pkg/models"
)

// SessionRepository handles database operations for finished drill sessions
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// SessionStats aggregates session results over a period
type SessionStats struct {
	Sessions int `db:"sessions"`
	Answered int `db:"answered"`
	Correct  int `db:"correct"`
}

// Create inserts a session result and fills in its ID
func (r *SessionRepository) Create(result *models.SessionResult) error {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}
	if result.StartedAt.IsZero() {
		result.StartedAt = result.FinishedAt
	}

	query := DB.Rebind(`
		INSERT INTO session_results (
			mode, total_items, answered, correct, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := DB.QueryRow(
		query,
		result.Mode,
		result.TotalItems,
		result.Answered,
		result.Correct,
		result.StartedAt.UTC(),
		result.FinishedAt.UTC(),
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("failed to create session result: %w", err)
	}
	return nil
}

// GetRecent returns the latest session results, newest first
func (r *SessionRepository) GetRecent(limit int) ([]models.SessionResult, error) {
	var results []models.SessionResult
	err := DB.Select(&results, DB.Rebind(`
		SELECT id, mode, total_items, answered, correct, started_at, finished_at
		FROM session_results
		ORDER BY finished_at DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get session results: %w", err)
	}
	return results, nil
}

// StatsSince returns totals over the sessions finished at or after since
func (r *SessionRepository) StatsSince(since time.Time) (SessionStats, error) {
	var stats SessionStats
	err := DB.Get(&stats, DB.Rebind(`
		SELECT COUNT(*) AS sessions,
			COALESCE(SUM(answered), 0) AS answered,
			COALESCE(SUM(correct), 0) AS correct
		FROM session_results
		WHERE finished_at >= ?
	`), since.UTC())
	if err != nil {
		return SessionStats{}, fmt.Errorf("failed to get session stats: %w", err)
	}
	return stats, nil
}
