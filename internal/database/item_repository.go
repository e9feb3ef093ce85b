package database

import (
	"fmt"

	"github.com/example/flashdrill/pkg/models"
)

// ItemRepository handles database operations for the drill catalog
type ItemRepository struct{}

// NewItemRepository creates a new repository instance
func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

const itemColumns = "id, prompt, answer, example, topic"

// GetAll returns all items in catalog order
func (r *ItemRepository) GetAll() ([]models.Item, error) {
	var items []models.Item
	err := DB.Select(&items, "SELECT "+itemColumns+" FROM items ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

// GetWithoutExample returns the items whose example is empty, in catalog order
func (r *ItemRepository) GetWithoutExample() ([]models.Item, error) {
	var items []models.Item
	err := DB.Select(&items, "SELECT "+itemColumns+" FROM items WHERE example = '' ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get items without example: %w", err)
	}
	return items, nil
}

// Count returns the number of catalog items
func (r *ItemRepository) Count() (int, error) {
	var n int
	if err := DB.Get(&n, "SELECT COUNT(*) FROM items"); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// Upsert inserts new items at the end of the catalog and updates the text of
// existing ones in place. Items are written in a single transaction.
func (r *ItemRepository) Upsert(items []models.Item) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO items (id, prompt, answer, example, topic, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM items))
		ON CONFLICT (id) DO UPDATE SET
			prompt = excluded.prompt,
			answer = excluded.answer,
			example = excluded.example,
			topic = excluded.topic
	`)
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item with prompt %q has no ID", item.Prompt)
		}
		if _, err := tx.Exec(query, item.ID, item.Prompt, item.Answer, item.Example, item.Topic); err != nil {
			return fmt.Errorf("failed to save item %q: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// UpdateExample sets the usage example of an item
func (r *ItemRepository) UpdateExample(id, example string) error {
	res, err := DB.Exec(DB.Rebind("UPDATE items SET example = ? WHERE id = ?"), example, id)
	if err != nil {
		return fmt.Errorf("failed to update example: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update example: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %q: %w", id, ErrItemNotFound)
	}
	return nil
}
