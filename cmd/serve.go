package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/flashdrill/internal/ai"
	"github.com/example/flashdrill/internal/bot"
	"github.com/example/flashdrill/internal/database"
	"github.com/example/flashdrill/internal/scheduler"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the review reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := connect(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := cfg.RequireBot(); err != nil {
			return err
		}

		svc, err := newService(cfg)
		if err != nil {
			return err
		}

		var examples ai.ExampleGenerator
		if cfg.OpenAIKey != "" {
			chatGPT, err := ai.New(cfg.OpenAIKey, cfg.OpenAIModel, "")
			if err != nil {
				log.Printf("Warning: Unable to initialize OpenAI client: %v", err)
			} else {
				examples = chatGPT
			}
		}

		b, err := bot.New(cfg.TelegramToken, cfg.LearnerChatID, svc, database.NewItemRepository(), examples)
		if err != nil {
			return err
		}
		defer b.Stop()

		if cfg.EnableScheduler {
			sched := scheduler.New(b, svc, cfg.LearnerChatID, cfg.NotificationStartHour, cfg.NotificationEndHour)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
			log.Println("Reminder scheduler started successfully")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("Bot started. Press Ctrl+C to stop.")
		if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
