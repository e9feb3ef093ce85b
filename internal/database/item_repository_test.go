package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashdrill/pkg/models"
)

func TestItemRepository_UpsertKeepsCatalogOrder(t *testing.T) {
	setupTestDB(t)
	repo := NewItemRepository()

	require.NoError(t, repo.Upsert([]models.Item{
		{ID: "z", Prompt: "der Hund", Answer: "the dog"},
		{ID: "a", Prompt: "die Katze", Answer: "the cat"},
	}))
	require.NoError(t, repo.Upsert([]models.Item{
		{ID: "m", Prompt: "das Haus", Answer: "the house"},
		{ID: "z", Prompt: "der Hund", Answer: "the hound", Topic: "animals"},
	}))

	items, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, models.ItemIDs(items))
	assert.Equal(t, "the hound", items[0].Answer)
	assert.Equal(t, "animals", items[0].Topic)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestItemRepository_UpsertRejectsEmptyID(t *testing.T) {
	setupTestDB(t)
	repo := NewItemRepository()

	err := repo.Upsert([]models.Item{
		{ID: "ok", Prompt: "eins", Answer: "one"},
		{Prompt: "zwei", Answer: "two"},
	})
	require.Error(t, err)

	// The whole batch is rolled back
	n, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemRepository_Examples(t *testing.T) {
	setupTestDB(t)
	repo := NewItemRepository()
	require.NoError(t, repo.Upsert([]models.Item{
		{ID: "1", Prompt: "gato", Answer: "cat", Example: "El gato duerme."},
		{ID: "2", Prompt: "perro", Answer: "dog"},
		{ID: "3", Prompt: "casa", Answer: "house"},
	}))

	missing, err := repo.GetWithoutExample()
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, models.ItemIDs(missing))

	require.NoError(t, repo.UpdateExample("2", "El perro corre."))
	missing, err = repo.GetWithoutExample()
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, models.ItemIDs(missing))

	err = repo.UpdateExample("404", "nothing")
	assert.True(t, errors.Is(err, ErrItemNotFound))
}
