package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	got  []llms.MessageContent
	resp *llms.ContentResponse
	err  error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.got = messages
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangchainAssistant_Ask(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "use a guard"}}}}
	a := &LangchainAssistant{LLM: model, MaxTokens: 256}

	answer, err := a.Ask(context.Background(), "fix it", []ChatMessage{
		{Role: "system", Content: "you help"},
		{Role: "assistant", Content: "earlier answer"},
	})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "use a guard" {
		t.Fatalf("unexpected answer %q", answer)
	}
	if len(model.got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(model.got))
	}
	wantRoles := []schema.ChatMessageType{schema.ChatMessageTypeSystem, schema.ChatMessageTypeAI, schema.ChatMessageTypeHuman}
	for i, want := range wantRoles {
		if model.got[i].Role != want {
			t.Fatalf("message %d: expected role %s, got %s", i, want, model.got[i].Role)
		}
	}
}

func TestLangchainAssistant_Errors(t *testing.T) {
	a := &LangchainAssistant{LLM: &fakeModel{err: errors.New("upstream down")}}
	if _, err := a.Ask(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected upstream error")
	}

	a = &LangchainAssistant{LLM: &fakeModel{resp: &llms.ContentResponse{}}}
	if _, err := a.Ask(context.Background(), "x", nil); err == nil {
		t.Fatalf("expected error for empty choices")
	}

	a = &LangchainAssistant{LLM: &fakeModel{err: context.DeadlineExceeded}}
	if _, err := a.Ask(context.Background(), "x", nil); !errors.Is(err, ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
}
