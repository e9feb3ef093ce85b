package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/example/flashdrill/internal/ai"
	"github.com/example/flashdrill/internal/drill"
	"github.com/example/flashdrill/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// telegramAPI is the part of *tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// catalog stores imported items and reloads the full catalog
type catalog interface {
	GetAll() ([]models.Item, error)
	Upsert(items []models.Item) error
	UpdateExample(id, example string) error
}

// Bot represents the Telegram bot application. It serves a single learner,
// identified by the chat ID it was created with.
type Bot struct {
	client     *tgbotapi.BotAPI
	api        telegramAPI
	svc        *drill.Service
	items      catalog
	chatGPT    ai.ExampleGenerator
	config     *BotConfig
	chatID     int64
	httpClient *http.Client
	now        func() time.Time

	mu           sync.Mutex
	session      *drill.Session
	lastActivity time.Time
	deck         *drill.Deck
	awaitingFile bool
}

// New creates a bot for the learner chat. chatGPT may be nil, in which case
// example generation is disabled.
func New(token string, chatID int64, svc *drill.Service, items catalog, chatGPT ai.ExampleGenerator) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	b := newBot(botAPI, chatID, svc, items, chatGPT)
	b.client = botAPI
	return b, nil
}

func newBot(api telegramAPI, chatID int64, svc *drill.Service, items catalog, chatGPT ai.ExampleGenerator) *Bot {
	return &Bot{
		api:        api,
		svc:        svc,
		items:      items,
		chatGPT:    chatGPT,
		config:     DefaultConfig(),
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// Start receives updates until ctx is cancelled. Every update is handled in
// its own goroutine.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("bot was not created with a Telegram client")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.client.GetUpdatesChan(updateConfig)
	defer b.client.StopReceivingUpdates()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

// Stop records the open session, if any
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finishSession()
	log.Println("Bot stopped")
}

// SendReminders implements the scheduler.Notifier interface
func (b *Bot) SendReminders(chatID int64, count int) error {
	noun := "items are"
	if count == 1 {
		noun = "item is"
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⏰ %d %s due for review. Tap Start Quiz to begin.", count, noun))
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	_, err := b.api.Send(msg)

	if err != nil {
		log.Printf("Error sending reminder to chat %d: %v", chatID, err)
	} else {
		log.Printf("Successfully sent reminder to chat %d for %d items", chatID, count)
	}
	return err
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Start Quiz", CallbackData: callbackStartQuiz},
			{Text: "🔁 Practice Mistakes", CallbackData: callbackStartPractice},
		},
		{
			{Text: "🃏 Flashcards", CallbackData: callbackShowCards},
			{Text: "📊 Progress", CallbackData: callbackShowProgress},
		},
	}
}

// send delivers a message and logs failures
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.send(msg)
}
