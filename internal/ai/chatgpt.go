package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/example/flashdrill/pkg/models"
	openai "github.com/sashabaranov/go-openai"
)

// ChatGPT writes usage examples for catalog items through the OpenAI API
type ChatGPT struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// New creates a new ChatGPT client. baseURL may be empty for the public API.
func New(apiKey, model, baseURL string) (*ChatGPT, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &ChatGPT{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   100,
		temperature: 0.7,
	}, nil
}

// GenerateExample returns a short sentence that uses the item's prompt
func (c *ChatGPT) GenerateExample(ctx context.Context, item models.Item) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short, natural example sentence that uses %q (meaning %q). Reply with the sentence only.",
		item.Prompt, item.Answer,
	)
	if item.Topic != "" {
		prompt += fmt.Sprintf(" The topic is %q.", item.Topic)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You help a language learner by writing simple, correct example sentences in the language of the word."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate example: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	example := strings.TrimSpace(resp.Choices[0].Message.Content)
	if example == "" {
		return "", fmt.Errorf("empty example returned")
	}
	return example, nil
}

// ExampleGenerator produces a usage example for an item
type ExampleGenerator interface {
	GenerateExample(ctx context.Context, item models.Item) (string, error)
}

// ExampleStore lists items without an example and saves generated ones
type ExampleStore interface {
	GetWithoutExample() ([]models.Item, error)
	UpdateExample(id, example string) error
}

// Enrich fills in missing examples, at most limit of them when limit > 0.
// Items the generator fails on are logged and left empty.
func Enrich(ctx context.Context, gen ExampleGenerator, store ExampleStore, limit int) (int, error) {
	items, err := store.GetWithoutExample()
	if err != nil {
		return 0, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	updated := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		example, err := gen.GenerateExample(ctx, item)
		if err != nil {
			log.Printf("Error generating example for %q: %v", item.ID, err)
			continue
		}
		if err := store.UpdateExample(item.ID, example); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
