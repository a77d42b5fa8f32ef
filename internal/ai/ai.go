package ai

import (
	"context"
	"fmt"
	"time"
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// Assistant sends one prompt, with optional prior turns, to a chat model and
// returns the reply text.
type Assistant interface {
	Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error)
}

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}
