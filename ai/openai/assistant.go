package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shelfwise/shelfwise/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Assistant implements ai.Assistant using OpenAI-compatible chat APIs.
type Assistant struct {
	client llms.Model
	logger *slog.Logger
}

// newAssistant is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAssistant(config *ai.Config) (*Assistant, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		client: client,
		logger: slog.Default().With("component", "openai-assistant"),
	}, nil
}

// NewAssistant creates a new assistant using the provided configuration.
//
// Returns ai.Assistant interface to enforce abstraction.
func NewAssistant(config *ai.Config) (ai.Assistant, error) {
	return newAssistant(config)
}

// EnhanceQuery rewrites a book search query with themes, genres, and
// literary elements relevant to it.
func (a *Assistant) EnhanceQuery(ctx context.Context, query string) (string, error) {
	return a.complete(ctx, enhancePrompt, query, 0.3)
}

// ExplainMatch generates a natural explanation for why a book matches the
// user's query.
func (a *Assistant) ExplainMatch(ctx context.Context, bookSummary, query string) (string, error) {
	return a.complete(ctx, explainPrompt, "Query: "+query+"\nBook: "+bookSummary, 0.7)
}

func (a *Assistant) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(temperature))
	if err != nil {
		a.logger.Error("chat completion failed", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		a.logger.Debug("no choices returned from model")
		return "", errors.New("empty chat response")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
