package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/flashdrill/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect opens the database selected by cfg.DBType and prepares the schema
func Connect(cfg *config.Config) error {
	switch cfg.DBType {
	case config.DBTypePostgres:
		return Open("postgres", cfg.DatabaseURL)
	case config.DBTypeSQLite:
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return Open("sqlite3", cfg.SQLitePath)
	default:
		return fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

// Open connects with the given driver and data source and initializes the schema
func Open(driverName, dsn string) error {
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if driverName == "sqlite3" {
		// SQLite doesn't support multiple writers, and every connection to
		// :memory: would see its own empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	if err := initializeSchema(); err != nil {
		DB.Close()
		DB = nil
		return err
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// idColumn returns an auto-incrementing primary key for the current driver
func idColumn() string {
	if DB.DriverName() == "postgres" {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create items table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			example TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}

	// Create progress table. Rows for items missing from the catalog are
	// kept so a re-import restores them.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			item_id TEXT PRIMARY KEY,
			correct_attempts INTEGER NOT NULL DEFAULT 0,
			incorrect_attempts INTEGER NOT NULL DEFAULT 0,
			last_attempt_correct BOOLEAN,
			repetitions INTEGER NOT NULL DEFAULT 0,
			interval_days DOUBLE PRECISION NOT NULL DEFAULT 0,
			ease_factor DOUBLE PRECISION NOT NULL DEFAULT 2.5,
			last_reviewed BIGINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress table: %w", err)
	}

	// Create session_results table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS session_results (
			` + idColumn() + `,
			mode TEXT NOT NULL,
			total_items INTEGER NOT NULL,
			answered INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create session_results table: %w", err)
	}

	return nil
}
