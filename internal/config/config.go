package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported database backends
const (
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

type Config struct {
	// Storage
	DBType      string // sqlite or postgres
	DatabaseURL string // postgres connection string
	SQLitePath  string

	// Telegram
	TelegramToken string
	LearnerChatID int64 // the only chat the bot answers

	// Reminders
	EnableScheduler       bool
	NotificationStartHour int
	NotificationEndHour   int

	// Example generation
	OpenAIKey   string
	OpenAIModel string

	// Items per quiz session, 0 means the whole catalog
	SessionSize int
}

// Load reads the .env file at path when it exists and builds the
// configuration from the environment. An empty path means ".env".
func Load(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Printf("config: could not load %s: %v", path, err)
	}

	cfg := &Config{
		DBType:      strings.ToLower(getenvDefault("DB_TYPE", DBTypeSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenvDefault("SQLITE_PATH", "data/flashdrill.db"),

		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}

	var err error
	if cfg.LearnerChatID, err = getenvInt64("LEARNER_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.EnableScheduler, err = getenvBool("ENABLE_SCHEDULER", true); err != nil {
		return nil, err
	}
	if cfg.NotificationStartHour, err = getenvInt("NOTIFICATION_START_HOUR", 9); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = getenvInt("NOTIFICATION_END_HOUR", 21); err != nil {
		return nil, err
	}
	if cfg.SessionSize, err = getenvInt("SESSION_SIZE", 20); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on which command runs
func (c *Config) Validate() error {
	switch c.DBType {
	case DBTypeSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config: SQLITE_PATH is empty")
		}
	case DBTypePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for DB_TYPE=postgres")
		}
	default:
		return fmt.Errorf("config: unsupported DB_TYPE %q", c.DBType)
	}

	if c.NotificationStartHour < 0 || c.NotificationStartHour > 23 {
		return fmt.Errorf("config: NOTIFICATION_START_HOUR=%d is not an hour", c.NotificationStartHour)
	}
	if c.NotificationEndHour < 0 || c.NotificationEndHour > 23 {
		return fmt.Errorf("config: NOTIFICATION_END_HOUR=%d is not an hour", c.NotificationEndHour)
	}
	if c.SessionSize < 0 {
		return fmt.Errorf("config: SESSION_SIZE=%d is negative", c.SessionSize)
	}
	return nil
}

// RequireBot checks the settings the Telegram bot cannot start without
func (c *Config) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("config: required environment variable TELEGRAM_BOT_TOKEN is not set")
	}
	if c.LearnerChatID == 0 {
		return fmt.Errorf("config: required environment variable LEARNER_CHAT_ID is not set")
	}
	return nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

func getenvInt64(k string, fallback int64) (int64, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

func getenvBool(k string, fallback bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q is not a valid boolean: %w", k, v, err)
	}
	return b, nil
}
