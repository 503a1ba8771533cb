package generator

import (
	"context"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"

	"github.com/revrost/go-openrouter"
)

const DefaultModel = "openai/gpt-4o-mini"

var ErrNoChoices = errors.New("openrouter returned no choices")

type OpenRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		request openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
}

type OpenRouter struct {
	client       OpenRouterClient
	systemPrompt string
	model        string
}

func NewOpenRouter(apiKey, systemPrompt, model string) (*OpenRouter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openrouter api key", domain.ErrMissingConfig)
	}
	if model == "" {
		model = DefaultModel
	}

	return &OpenRouter{
		systemPrompt: systemPrompt,
		model:        model,
		client: openrouter.NewClient(
			apiKey,
			openrouter.WithXTitle("ratebot"),
		),
	}, nil
}

func (c *OpenRouter) GenerateFromPrompt(
	ctx context.Context, prompts []domain.Prompt) (domain.ModelResponse, error) {
	if len(prompts) == 0 {
		return domain.ModelResponse{}, domain.ErrEmptyPrompt
	}

	messages := make([]openrouter.ChatCompletionMessage, 0, len(prompts)+1)

	if c.systemPrompt != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: c.systemPrompt},
		})
	}

	for _, prompt := range prompts {
		role := openrouter.ChatMessageRoleUser
		if prompt.Author == domain.System {
			role = openrouter.ChatMessageRoleAssistant
		}

		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    role,
			Content: openrouter.Content{Text: prompt.Prompt},
		})
	}

	ccr := openrouter.ChatCompletionRequest{
		Messages: messages,
		Model:    c.model,
	}

	resp, err := c.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return domain.ModelResponse{}, fmt.Errorf("openrouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return domain.ModelResponse{}, ErrNoChoices
	}

	return domain.ModelResponse{
		Response: resp.Choices[0].Message.Content.Text,
		Metadata: domain.ResponseMetadata{
			Model:            resp.Model,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
