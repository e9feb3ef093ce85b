package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/flashdrill/pkg/models"
)

// ProgressRepository persists the learner's progress store
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

type progressRow struct {
	ItemID string `db:"item_id"`
	models.ProgressRecord
}

const upsertProgressQuery = `
	INSERT INTO progress (
		item_id, correct_attempts, incorrect_attempts, last_attempt_correct,
		repetitions, interval_days, ease_factor, last_reviewed
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (item_id) DO UPDATE SET
		correct_attempts = excluded.correct_attempts,
		incorrect_attempts = excluded.incorrect_attempts,
		last_attempt_correct = excluded.last_attempt_correct,
		repetitions = excluded.repetitions,
		interval_days = excluded.interval_days,
		ease_factor = excluded.ease_factor,
		last_reviewed = excluded.last_reviewed
`

// LoadAll reads every progress row into a store. Rows that fail validation
// are left out and reported through an error matching
// models.ErrCorruptProgressState; the returned store is usable either way.
func (r *ProgressRepository) LoadAll() (models.ProgressStore, error) {
	var rows []progressRow
	err := DB.Select(&rows, `
		SELECT item_id, correct_attempts, incorrect_attempts, last_attempt_correct,
			repetitions, interval_days, ease_factor, last_reviewed
		FROM progress
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	store := make(models.ProgressStore, len(rows))
	var corrupt []error
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			corrupt = append(corrupt, &models.CorruptRecordError{ItemID: row.ItemID, Reason: err})
			continue
		}
		store[row.ItemID] = row.ProgressRecord
	}
	return store, errors.Join(corrupt...)
}

// Save creates or replaces the progress row of a single item
func (r *ProgressRepository) Save(itemID string, p models.ProgressRecord) error {
	_, err := DB.Exec(DB.Rebind(upsertProgressQuery),
		itemID,
		p.CorrectAttempts,
		p.IncorrectAttempts,
		p.LastAttemptCorrect,
		p.Repetitions,
		p.Interval,
		p.EaseFactor,
		p.LastReviewed,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress for %q: %w", itemID, err)
	}
	return nil
}

// ReplaceAll swaps the whole persisted store for the given one in a single
// transaction
func (r *ProgressRepository) ReplaceAll(store models.ProgressStore) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM progress"); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}

	query := tx.Rebind(upsertProgressQuery)
	for id, p := range store {
		_, err := tx.Exec(query,
			id,
			p.CorrectAttempts,
			p.IncorrectAttempts,
			p.LastAttemptCorrect,
			p.Repetitions,
			p.Interval,
			p.EaseFactor,
			p.LastReviewed,
		)
		if err != nil {
			return fmt.Errorf("failed to save progress for %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress: %w", err)
	}
	return nil
}

// ExportJSON encodes the persisted store in the snapshot layout. Corrupt
// rows are skipped.
func (r *ProgressRepository) ExportJSON() ([]byte, error) {
	store, err := r.LoadAll()
	if store == nil {
		return nil, err
	}
	if err != nil {
		log.Printf("Skipping corrupt progress rows in export: %v", err)
	}
	return models.MarshalProgressStore(store)
}

// ImportJSON replaces the persisted store with a snapshot. Valid records are
// imported even when others are corrupt; the returned error then matches
// models.ErrCorruptProgressState.
func (r *ProgressRepository) ImportJSON(data []byte) (int, error) {
	store, parseErr := models.ParseProgressStore(data)
	if store == nil {
		return 0, parseErr
	}
	if err := r.ReplaceAll(store); err != nil {
		return 0, err
	}
	return len(store), parseErr
}
