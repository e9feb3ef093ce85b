package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashdrill/internal/drill"
	"github.com/example/flashdrill/internal/excel"
	"github.com/example/flashdrill/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Constants for callback data
const (
	callbackMainMenu      = "main_menu"
	callbackStartQuiz     = "start_quiz"
	callbackStartPractice = "start_practice"
	callbackShowProgress  = "show_progress"
	callbackShowCards     = "show_cards"
	callbackCardNext      = "card_next"
	callbackCardPrev      = "card_prev"
	callbackCardFlip      = "card_flip"
	callbackStopSession   = "stop_session"
)

var errFileTooLarge = errors.New("file too large")

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil || update.Message.Chat.ID != b.chatID {
			log.Printf("Ignoring message from unknown chat")
			return
		}
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		callback := update.CallbackQuery
		if callback.Message == nil || callback.Message.Chat == nil || callback.Message.Chat.ID != b.chatID {
			log.Printf("Ignoring callback from unknown chat")
			return
		}
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Printf("Error answering callback: %v", err)
		}
		b.handleCallbackQuery(ctx, callback.Data)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		switch message.Command() {
		case "start", "menu", "help":
			b.handleStartCommand()
		case "quiz":
			b.handleStartSession(false)
		case "practice":
			b.handleStartSession(true)
		case "stop":
			b.handleStopSession()
		case "progress", "stats":
			b.handleProgressCommand()
		case "cards":
			b.handleCardsCommand()
		case "example":
			b.handleExampleCommand(ctx)
		case "import":
			b.handleImportCommand()
		case "export":
			b.handleExportCommand()
		default:
			b.sendWithMenu(b.chatID, "Unknown command. Use /menu to show the main menu.")
		}
		return
	}

	if message.Document != nil {
		b.handleDocument(ctx, message.Document)
		return
	}

	if strings.TrimSpace(message.Text) == "" {
		b.sendText(b.chatID, "Please answer with text.")
		return
	}
	b.handleAnswer(message.Text)
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, data string) {
	switch data {
	case callbackMainMenu:
		b.sendWithMenu(b.chatID, "Main Menu - choose an option:")
	case callbackStartQuiz:
		b.handleStartSession(false)
	case callbackStartPractice:
		b.handleStartSession(true)
	case callbackStopSession:
		b.handleStopSession()
	case callbackShowProgress:
		b.handleProgressCommand()
	case callbackShowCards:
		b.handleCardsCommand()
	case callbackCardNext, callbackCardPrev, callbackCardFlip:
		b.handleCardMove(data)
	default:
		log.Printf("Unknown callback data %q", data)
	}
}

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand() {
	welcomeText := `Welcome to Flashdrill! 🎓

Available commands:
/quiz - Review items, most urgent first
/practice - Drill the items you have not mastered yet
/cards - Browse the catalog as flashcards
/progress - Show your statistics
/example - Generate an example for the current card
/import - Upload a catalog file (.xlsx or .csv)
/export - Download your progress as JSON
/stop - End the current session`

	b.sendWithMenu(b.chatID, welcomeText)
}

// handleStartSession starts a quiz or a practice session, replacing any
// session in progress
func (b *Bot) handleStartSession(practice bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.finishSession()

	var sess *drill.Session
	if practice {
		sess = b.svc.StartPractice()
	} else {
		sess = b.svc.StartQuiz()
	}

	if sess.Done() {
		if practice {
			b.sendWithMenu(b.chatID, "🏆 Great job! Nothing needs practice right now.")
		} else {
			b.sendWithMenu(b.chatID, "The catalog is empty. Use /import to load items.")
		}
		return
	}

	b.session = sess
	b.lastActivity = b.now()
	if practice {
		b.sendText(b.chatID, fmt.Sprintf("🔁 Practice: %d items to master. Type the answer to each prompt.", sess.Remaining()))
	} else {
		b.sendText(b.chatID, "🎯 Quiz started. Type the answer to each prompt.")
	}
	b.sendPrompt()
}

// handleStopSession ends the current session
func (b *Bot) handleStopSession() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		b.sendWithMenu(b.chatID, "No session in progress.")
		return
	}
	b.finishSession()
	b.sendWithMenu(b.chatID, "Session ended.")
}

// handleAnswer checks a typed answer against the current session item
func (b *Bot) handleAnswer(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session != nil && b.now().Sub(b.lastActivity) > b.config.SessionIdleTimeout {
		b.finishSession()
		b.sendWithMenu(b.chatID, "Your last session timed out. Start a new one from the menu.")
		return
	}
	if b.session == nil {
		b.sendWithMenu(b.chatID, "I don't understand. Use /menu to show the main menu.")
		return
	}

	sess := b.session
	result, err := b.svc.Submit(sess, text)
	if errors.Is(err, drill.ErrSessionFinished) {
		b.sendPrompt()
		return
	}
	if err != nil {
		log.Printf("Error recording answer: %v", err)
		b.sendText(b.chatID, "⚠️ Could not save your answer, please try again.")
		return
	}
	b.lastActivity = b.now()

	b.sendText(b.chatID, formatFeedback(result))

	if sess.Done() {
		text := formatSessionEnd(sess.Result(b.now()))
		b.finishSession()
		b.sendWithMenu(b.chatID, text)
		return
	}
	b.sendPrompt()
}

// sendPrompt shows the current session item, or ends the session when
// nothing is left. Callers hold b.mu.
func (b *Bot) sendPrompt() {
	if b.session == nil {
		return
	}
	item, ok := b.svc.Current(b.session)
	if !ok {
		text := formatSessionEnd(b.session.Result(b.now()))
		b.finishSession()
		b.sendWithMenu(b.chatID, text)
		return
	}

	msg := tgbotapi.NewMessage(b.chatID, formatPrompt(b.session, item))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "⏹ Stop", CallbackData: callbackStopSession}}})
	b.send(msg)
}

// finishSession stores and clears the current session. Callers hold b.mu.
func (b *Bot) finishSession() {
	if b.session == nil {
		return
	}
	if err := b.svc.Finish(b.session); err != nil {
		log.Printf("Error finishing session: %v", err)
	}
	b.session = nil
}

// handleProgressCommand shows the progress summary
func (b *Bot) handleProgressCommand() {
	summary := b.svc.Report()
	text := formatSummary(summary, b.svc.DueCount(), b.config.WeakItemsShown)

	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🎯 Start Quiz", CallbackData: callbackStartQuiz}},
		{{Text: "« Back to menu", CallbackData: callbackMainMenu}},
	})
	b.send(msg)
}

// handleCardsCommand opens the flashcard deck at the first card
func (b *Bot) handleCardsCommand() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deck = drill.NewDeck(b.svc.Items())
	b.sendCard(false)
}

func (b *Bot) handleCardMove(data string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.deck == nil {
		b.deck = drill.NewDeck(b.svc.Items())
	}
	flipped := false
	switch data {
	case callbackCardNext:
		b.deck.Next()
	case callbackCardPrev:
		b.deck.Prev()
	case callbackCardFlip:
		flipped = true
	}
	b.sendCard(flipped)
}

// sendCard shows the card under the deck cursor. Callers hold b.mu.
func (b *Bot) sendCard(flipped bool) {
	item, ok := b.deck.Current()
	if !ok {
		b.sendWithMenu(b.chatID, "The catalog is empty. Use /import to load items.")
		return
	}
	pos, total := b.deck.Position()

	msg := tgbotapi.NewMessage(b.chatID, formatCard(item, pos, total, flipped))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "◀️", CallbackData: callbackCardPrev},
			{Text: "🔄 Flip", CallbackData: callbackCardFlip},
			{Text: "▶️", CallbackData: callbackCardNext},
		},
		{{Text: "« Back to menu", CallbackData: callbackMainMenu}},
	})
	b.send(msg)
}

// handleExampleCommand generates a usage example for the current flashcard
func (b *Bot) handleExampleCommand(ctx context.Context) {
	if b.chatGPT == nil {
		b.sendText(b.chatID, "Example generation is not configured.")
		return
	}

	b.mu.Lock()
	item, ok := b.currentCard()
	b.mu.Unlock()
	if !ok {
		b.sendText(b.chatID, "Open a card with /cards first.")
		return
	}

	example, err := b.chatGPT.GenerateExample(ctx, item)
	if err != nil {
		log.Printf("Error generating example for %q: %v", item.ID, err)
		b.sendText(b.chatID, "⚠️ Could not generate an example right now.")
		return
	}
	if err := b.items.UpdateExample(item.ID, example); err != nil {
		log.Printf("Error saving example for %q: %v", item.ID, err)
	} else {
		b.reloadCatalog()
	}
	b.sendText(b.chatID, "💬 "+example)
}

// currentCard returns the card under the deck cursor. Callers hold b.mu.
func (b *Bot) currentCard() (models.Item, bool) {
	if b.deck == nil {
		return models.Item{}, false
	}
	return b.deck.Current()
}

// handleImportCommand waits for a catalog file
func (b *Bot) handleImportCommand() {
	b.mu.Lock()
	b.awaitingFile = true
	b.mu.Unlock()

	b.sendText(b.chatID, "Send me an .xlsx or .csv file with the columns:\nid, prompt, answer, example, topic\n\nThe first row is treated as a header.")
}

// handleDocument imports an uploaded catalog file
func (b *Bot) handleDocument(ctx context.Context, doc *tgbotapi.Document) {
	b.mu.Lock()
	awaiting := b.awaitingFile
	b.awaitingFile = false
	b.mu.Unlock()

	if !awaiting {
		b.sendWithMenu(b.chatID, "Use /import before sending a catalog file.")
		return
	}
	if doc.FileSize > b.config.MaxImportSize {
		b.sendText(b.chatID, "⚠️ The file is too large.")
		return
	}

	path, err := b.downloadDocument(ctx, doc)
	if errors.Is(err, errFileTooLarge) {
		b.sendText(b.chatID, "⚠️ The file is too large.")
		return
	}
	if err != nil {
		log.Printf("Error downloading document: %v", err)
		b.sendText(b.chatID, "⚠️ Could not download the file.")
		return
	}
	defer os.Remove(path)

	config := excel.DefaultImportConfig()
	config.FilePath = path
	result, err := excel.ImportItems(config, b.items)
	if err != nil {
		log.Printf("Error importing catalog: %v", err)
		b.sendText(b.chatID, "⚠️ Import failed: "+err.Error())
		return
	}
	b.reloadCatalog()

	b.sendWithMenu(b.chatID, formatImportResult(result))
}

// downloadDocument saves an uploaded file to a temporary path that keeps the
// original extension
func (b *Bot) downloadDocument(ctx context.Context, doc *tgbotapi.Document) (string, error) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: %s", resp.Status)
	}

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	f, err := os.CreateTemp("", "catalog-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(resp.Body, int64(b.config.MaxImportSize)+1))
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if n > int64(b.config.MaxImportSize) {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: more than %d bytes", errFileTooLarge, b.config.MaxImportSize)
	}
	return f.Name(), nil
}

// handleExportCommand sends the progress store as a JSON document
func (b *Bot) handleExportCommand() {
	store := b.svc.Snapshot()
	data, err := models.MarshalProgressStore(store)
	if err != nil {
		log.Printf("Error exporting progress: %v", err)
		b.sendText(b.chatID, "⚠️ Could not export your progress.")
		return
	}

	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{
		Name:  "progress-" + b.now().Format("2006-01-02") + ".json",
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📦 Progress export: %d records", len(store))
	b.send(doc)
}

// reloadCatalog refreshes the service's items from the repository
func (b *Bot) reloadCatalog() {
	items, err := b.items.GetAll()
	if err != nil {
		log.Printf("Error reloading catalog: %v", err)
		return
	}
	b.svc.SetItems(items)

	b.mu.Lock()
	if b.deck != nil {
		b.deck.Replace(items)
	}
	b.mu.Unlock()
}
