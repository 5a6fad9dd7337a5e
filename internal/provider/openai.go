package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// OpenAI translates through a chat completion. The system prompt pins the
// model to translation-only output and tells it to leave opaque token
// sequences alone.
type OpenAI struct {
	client *openai.Client
	model  string
}

// translateSystemPrompt is shared by the chat-style backends (OpenAI,
// Bedrock). The "code words" rule covers the pipeline's placeholder tokens
// without naming them.
const translateSystemPrompt = `You are a translation engine. Translate the user's text %s into %s.
Rules:
- Output only the translation, no commentary, no quotes.
- Copy any uppercase letter-and-digit code words through unchanged.
- Preserve line breaks.`

// NewOpenAI creates an OpenAI-backed provider. model may be empty for a
// small default.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// Translate implements Provider.
func (o *OpenAI) Translate(ctx context.Context, req Request) (Result, error) {
	source := "from the language you detect"
	if req.Source != language.Und {
		source = "from " + display.English.Tags().Name(req.Source)
	}
	target := display.English.Tags().Name(req.Target)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(translateSystemPrompt, source, target),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Text,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return Result{}, fmt.Errorf("openai: %w", ErrRateLimited)
		}
		return Result{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("openai: no choices returned")
	}

	return Result{
		Text:           strings.TrimSpace(resp.Choices[0].Message.Content),
		DetectedSource: language.Und,
	}, nil
}
