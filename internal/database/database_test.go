package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB points the global connection at a fresh in-memory SQLite database
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Open("sqlite3", ":memory:"))
	db := DB
	t.Cleanup(func() {
		db.Close()
		if DB == db {
			DB = nil
		}
	})
}
