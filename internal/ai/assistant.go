package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roadside-plus/backend/internal/utils"
)

var ErrProviderTimeout = errors.New("assistant request timed out")

// OpenAICompatAssistant talks to any endpoint that implements the OpenAI
// chat-completions API. Answers are cached per prompt and history for CacheTTL.
type OpenAICompatAssistant struct {
	BaseURL   string
	Model     string
	APIKey    string
	MaxTokens int
	CacheTTL  time.Duration
	Client    *http.Client

	cache responseCache
}

type responseCache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	value string
	exp   time.Time
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Messages    []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAICompatAssistant) Ask(ctx context.Context, prompt string, history []ChatMessage) (string, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return "", fmt.Errorf("ASSISTANT_BASE_URL is not set")
	}
	if strings.TrimSpace(a.Model) == "" {
		return "", fmt.Errorf("ASSISTANT_MODEL is not set")
	}

	key := cacheKey(a.Model, prompt, history)
	if v, ok := a.cache.get(key); ok {
		return v, nil
	}

	payload := chatRequest{
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		Messages:  make([]ChatMessage, 0, len(history)+1),
	}
	payload.Messages = append(payload.Messages, history...)
	payload.Messages = append(payload.Messages, ChatMessage{Role: "user", Content: prompt})

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(a.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	resp, err := a.client(ctx).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrProviderTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", ErrProviderTimeout
		}
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if resp.StatusCode == http.StatusTooManyRequests {
			if d := extractRetryAfter(errBody); d > 0 {
				return "", RateLimitError{RetryAfter: d}
			}
			if d := retryAfterHeader(resp.Header.Get("Retry-After")); d > 0 {
				return "", RateLimitError{RetryAfter: d}
			}
			return "", RateLimitError{}
		}
		return "", fmt.Errorf("assistant http error: %s: %v", resp.Status, errBody)
	}

	var res chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty assistant response")
	}
	answer := res.Choices[0].Message.Content
	a.cache.set(key, answer, a.ttl())
	return answer, nil
}

func (a *OpenAICompatAssistant) client(ctx context.Context) *http.Client {
	if a.Client != nil {
		return a.Client
	}
	timeout := 45 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return &http.Client{Timeout: timeout}
}

func (a *OpenAICompatAssistant) ttl() time.Duration {
	if a.CacheTTL <= 0 {
		return 60 * time.Second
	}
	return a.CacheTTL
}

func cacheKey(model, prompt string, history []ChatMessage) uint64 {
	parts := make([]string, 0, 2*len(history)+2)
	parts = append(parts, model)
	for _, h := range history {
		parts = append(parts, h.Role, h.Content)
	}
	parts = append(parts, prompt)
	return utils.HashParts(parts...)
}

func (c *responseCache) get(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if time.Now().Before(e.exp) {
			return e.value, true
		}
		delete(c.entries, key)
	}
	return "", false
}

func (c *responseCache) set(key uint64, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[uint64]cacheEntry{}
	}
	c.entries[key] = cacheEntry{
		value: value,
		exp:   time.Now().Add(ttl),
	}
}

func extractRetryAfter(errBody map[string]any) time.Duration {
	errObj, ok := errBody["error"].(map[string]any)
	if !ok {
		return 0
	}
	details, ok := errObj["details"].([]any)
	if !ok {
		return 0
	}
	for _, d := range details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["@type"].(string); ok && strings.Contains(t, "RetryInfo") {
			if s, ok := m["retryDelay"].(string); ok {
				if dur, err := time.ParseDuration(s); err == nil {
					return dur
				}
			}
		}
	}
	return 0
}

func retryAfterHeader(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
