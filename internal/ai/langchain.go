package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// LangchainAssistant routes prompts through a langchaingo model.
type LangchainAssistant struct {
	LLM       llms.Model
	MaxTokens int
}

func NewLangchainAssistant(baseURL, model, apiKey string, maxTokens int) (*LangchainAssistant, error) {
	opts := []openai.Option{}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	return &LangchainAssistant{LLM: llm, MaxTokens: maxTokens}, nil
}

func (a *LangchainAssistant) Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	msgs := make([]llms.MessageContent, 0, len(history)+1)
	for _, h := range history {
		msgs = append(msgs, llms.TextParts(messageType(h.Role), h.Content))
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeHuman, prompt))

	var opts []llms.CallOption
	if a.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(a.MaxTokens))
	}
	resp, err := a.LLM.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrProviderTimeout
		}
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty assistant response")
	}
	return resp.Choices[0].Content, nil
}

func messageType(role string) schema.ChatMessageType {
	switch role {
	case "system":
		return schema.ChatMessageTypeSystem
	case "assistant":
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
