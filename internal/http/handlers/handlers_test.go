package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/roadside-plus/backend/internal/ai"
	"github.com/roadside-plus/backend/internal/db"
	"github.com/roadside-plus/backend/internal/export"
	"github.com/roadside-plus/backend/internal/metrics"
	"github.com/roadside-plus/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

type fakeStore struct {
	records  []models.Record
	err      error
	pingErr  error
	kind     models.DatasetKind
	filters  map[string]string
	limit    int
	inserted []models.Record
	replaced bool
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) ListRecords(ctx context.Context, kind models.DatasetKind, filters map[string]string, limit int) ([]models.Record, error) {
	f.kind, f.filters, f.limit = kind, filters, limit
	return f.records, f.err
}

func (f *fakeStore) InsertRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error) {
	f.kind, f.inserted = kind, records
	return int64(len(records)), f.err
}

func (f *fakeStore) ReplaceRecords(ctx context.Context, kind models.DatasetKind, records []models.Record) (int64, error) {
	f.replaced = true
	return f.InsertRecords(ctx, kind, records)
}

func newTestHandler(store DatasetStore, assistant ai.Assistant) *Handler {
	h := &Handler{
		Formatter:    export.Formatter{Now: func() time.Time { return fixedNow }},
		Metrics:      metrics.NewCollector(prometheus.NewRegistry()),
		Validator:    validator.New(),
		Logger:       zerolog.Nop(),
		DatasetLimit: 50,
	}
	if store != nil {
		h.Store = store
	}
	if assistant != nil {
		h.AI = &ai.Service{Assistant: assistant, Logger: zerolog.Nop()}
	}
	return h
}

func newTestRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.POST("/api/export", h.Export)
	r.GET("/api/datasets/:dataType", h.DatasetList)
	r.GET("/api/datasets/:dataType/export", h.DatasetExport)
	r.POST("/api/datasets/:dataType", h.DatasetImport)
	r.POST("/api/assistant/diagnose", h.AssistantDiagnose)
	r.POST("/api/assistant/review", h.AssistantReview)
	r.POST("/api/assistant/chat", h.AssistantChat)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var res ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func records(t *testing.T, raw string) []models.Record {
	t.Helper()
	var out []models.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestHealthzWithoutDatabase(t *testing.T) {
	w := do(t, newTestRouter(newTestHandler(nil, nil)), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok","database":"disabled"}`, w.Body.String())
}

func TestHealthzDatabaseDown(t *testing.T) {
	store := &fakeStore{pingErr: context.DeadlineExceeded}
	w := do(t, newTestRouter(newTestHandler(store, nil)), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "DB_UNAVAILABLE", decodeError(t, w).Code)
}

func TestHealthzIntegration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := db.New(context.Background(), url)
	require.NoError(t, err)
	defer store.Close()

	w := do(t, newTestRouter(newTestHandler(store, nil)), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
}
