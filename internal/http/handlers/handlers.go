package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/roadside-plus/backend/internal/ai"
	"github.com/roadside-plus/backend/internal/export"
	"github.com/roadside-plus/backend/internal/metrics"
	"github.com/roadside-plus/backend/internal/models"
)

// DatasetStore is the persistence the dataset routes need. *db.Store
// satisfies it.
type DatasetStore interface {
	Ping(ctx context.Context) error
	ListRecords(ctx context.Context, kind models.DatasetKind, filters map[string]string, limit int) ([]models.Record, error)
	InsertRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error)
	ReplaceRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error)
}

type Handler struct {
	Store          DatasetStore
	AI             *ai.Service
	Formatter      export.Formatter
	Metrics        *metrics.Collector
	Validator      *validator.Validate
	Logger         zerolog.Logger
	DatasetLimit   int
	RequestTimeout time.Duration
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.RequestTimeout)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
