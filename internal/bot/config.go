package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Number of consistently missed items listed by /progress
	WeakItemsShown int
	// Largest catalog file accepted for import, in bytes
	MaxImportSize int
	// An unanswered session is closed after this long
	SessionIdleTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		WeakItemsShown:     5,
		MaxImportSize:      5 << 20,
		SessionIdleTimeout: time.Hour * 2,
	}
}
