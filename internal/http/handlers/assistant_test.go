package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadside-plus/backend/internal/ai"
)

type failingAssistant struct {
	err error
}

func (f failingAssistant) Ask(ctx context.Context, prompt string, history []ai.ChatMessage) (string, error) {
	return "", f.err
}

func TestAssistantDiagnose(t *testing.T) {
	r := newTestRouter(newTestHandler(nil, ai.MockAssistant{ModelVersion: "test"}))
	w := do(t, r, http.MethodPost, "/api/assistant/diagnose", `{"error":"TypeError: x is undefined","platform":"ios"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res ai.Diagnosis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RootCause)
	assert.Len(t, res.Fix, 1)
}

func TestAssistantReview(t *testing.T) {
	r := newTestRouter(newTestHandler(nil, ai.MockAssistant{ModelVersion: "test"}))
	w := do(t, r, http.MethodPost, "/api/assistant/review", `{"code":"let a = 1","language":"javascript"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res ai.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Issues, 2)
	assert.Len(t, res.Security, 1)
}

func TestAssistantChat(t *testing.T) {
	r := newTestRouter(newTestHandler(nil, ai.MockAssistant{}))
	w := do(t, r, http.MethodPost, "/api/assistant/chat", `{"prompt":"why does export fail?","history":[{"role":"user","content":"hi"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"answer":`)
}

func TestAssistantValidation(t *testing.T) {
	r := newTestRouter(newTestHandler(nil, ai.MockAssistant{}))
	for path, body := range map[string]string{
		"/api/assistant/diagnose": `{"platform":"ios"}`,
		"/api/assistant/review":   `{"language":"go"}`,
		"/api/assistant/chat":     `{"prompt":"x","history":[{"role":"robot","content":"hi"}]}`,
	} {
		w := do(t, r, http.MethodPost, path, body)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Code, path)
	}

	w := do(t, r, http.MethodPost, "/api/assistant/diagnose", `{"error":"x","platform":"symbian"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssistantErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{"rate limited", ai.RateLimitError{RetryAfter: 6500 * time.Millisecond}, http.StatusTooManyRequests, "RATE_LIMITED", "7"},
		{"timeout", ai.ErrProviderTimeout, http.StatusGatewayTimeout, "ASSISTANT_TIMEOUT", ""},
		{"upstream", errors.New("assistant http error: 500"), http.StatusBadGateway, "ASSISTANT_ERROR", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(newTestHandler(nil, failingAssistant{err: tc.err}))
			w := do(t, r, http.MethodPost, "/api/assistant/chat", `{"prompt":"hello"}`)
			require.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
			assert.Equal(t, tc.retryAfter, w.Header().Get("Retry-After"))
		})
	}
}

func TestAssistantNotConfigured(t *testing.T) {
	w := do(t, newTestRouter(newTestHandler(nil, nil)), http.MethodPost, "/api/assistant/chat", `{"prompt":"hello"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
