package intel

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/datvo/accessengine/internal/config"
)

// LLMClient abstracts the chat model so generators can be tested with a stub.
type LLMClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// OpenAIClient talks to the OpenAI chat-completions API.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient builds an OpenAI-backed LLM client from config.
func NewOpenAIClient(cfg config.AIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client:    openai.NewClient(cfg.APIKey),
		model:     model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Complete sends a single-turn prompt and returns the model's reply text. The
// configured token budget caps whatever the caller asks for.
func (o *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.maxTokens > 0 && (maxTokens <= 0 || maxTokens > o.maxTokens) {
		maxTokens = o.maxTokens
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a world-class relationship strategist."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if maxTokens > 0 {
		req.MaxCompletionTokens = maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
