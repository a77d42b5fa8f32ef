package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roadside-plus/backend/internal/ai"
)

type ChatRequest struct {
	Prompt  string           `json:"prompt" validate:"required,max=8000"`
	History []ai.ChatMessage `json:"history" validate:"omitempty,max=50,dive"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// @Summary Diagnose an error
// @Tags assistant
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Param request body ai.DiagnoseRequest true "Error details"
// @Success 200 {object} ai.Diagnosis
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/assistant/diagnose [post]
func (h *Handler) AssistantDiagnose(c *gin.Context) {
	var req ai.DiagnoseRequest
	if !h.bindAssistant(c, &req) {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	start := time.Now()
	res, err := h.AI.Diagnose(ctx, req)
	if err != nil {
		h.assistantError(c, "diagnose", err, start)
		return
	}
	h.Metrics.RecordAssistant("diagnose", "success", time.Since(start))
	c.JSON(http.StatusOK, res)
}

// @Summary Review code
// @Tags assistant
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Param request body ai.ReviewRequest true "Code to review"
// @Success 200 {object} ai.Review
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/assistant/review [post]
func (h *Handler) AssistantReview(c *gin.Context) {
	var req ai.ReviewRequest
	if !h.bindAssistant(c, &req) {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	start := time.Now()
	res, err := h.AI.Review(ctx, req)
	if err != nil {
		h.assistantError(c, "review", err, start)
		return
	}
	h.Metrics.RecordAssistant("review", "success", time.Since(start))
	c.JSON(http.StatusOK, res)
}

// @Summary Chat with the assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Param X-Admin-Key header string false "Admin key"
// @Param request body ChatRequest true "Prompt and prior turns"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/assistant/chat [post]
func (h *Handler) AssistantChat(c *gin.Context) {
	var req ChatRequest
	if !h.bindAssistant(c, &req) {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	start := time.Now()
	answer, err := h.AI.Chat(ctx, req.Prompt, req.History)
	if err != nil {
		h.assistantError(c, "chat", err, start)
		return
	}
	h.Metrics.RecordAssistant("chat", "success", time.Since(start))
	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}

func (h *Handler) bindAssistant(c *gin.Context, req any) bool {
	if h.AI == nil {
		writeError(c, http.StatusServiceUnavailable, "ASSISTANT_UNAVAILABLE", "Assistant is not configured", nil)
		return false
	}
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err.Error())
		return false
	}
	return true
}

func (h *Handler) assistantError(c *gin.Context, op string, err error, start time.Time) {
	var rl ai.RateLimitError
	switch {
	case errors.As(err, &rl):
		h.Metrics.RecordAssistant(op, "rate_limited", time.Since(start))
		if rl.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		}
		writeError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Assistant rate limit reached", rl.Error())
	case errors.Is(err, ai.ErrProviderTimeout):
		h.Metrics.RecordAssistant(op, "timeout", time.Since(start))
		writeError(c, http.StatusGatewayTimeout, "ASSISTANT_TIMEOUT", "Assistant did not answer in time", nil)
	default:
		h.Metrics.RecordAssistant(op, "error", time.Since(start))
		writeError(c, http.StatusBadGateway, "ASSISTANT_ERROR", "Assistant request failed", err.Error())
	}
}
