package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/flashdrill/internal/config"
	"github.com/example/flashdrill/internal/database"
	"github.com/example/flashdrill/internal/drill"
	"github.com/example/flashdrill/pkg/models"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "flashdrill",
	Short:         "Spaced-repetition flashcard drills over Telegram",
	Long:          "Flashdrill schedules vocabulary reviews with a simplified SM-2 algorithm and drills a single learner through a Telegram bot.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env", "Path to the .env file with configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(enrichCmd)
}

// loadConfig reads configuration from the file named by --env and the environment
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("env")
	return config.Load(path)
}

// connect loads the configuration and opens the database
func connect(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadState reads the catalog and the progress store. Corrupt progress rows
// are logged and treated as never attempted.
func loadState() ([]models.Item, models.ProgressStore, error) {
	items, err := database.NewItemRepository().GetAll()
	if err != nil {
		return nil, nil, err
	}

	store, err := database.NewProgressRepository().LoadAll()
	if errors.Is(err, models.ErrCorruptProgressState) {
		log.Printf("Warning: %v", err)
	} else if err != nil {
		return nil, nil, err
	}
	return items, store, nil
}

// newService builds the drill service over the persisted state
func newService(cfg *config.Config) (*drill.Service, error) {
	items, store, err := loadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return drill.NewService(items, store, database.NewProgressRepository(),
		drill.WithSessionSize(cfg.SessionSize),
		drill.WithSessionRecorder(database.NewSessionRepository()),
	), nil
}
