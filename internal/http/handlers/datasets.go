package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roadside-plus/backend/internal/db"
	"github.com/roadside-plus/backend/internal/models"
)

// query parameters that are not record filters
var reservedParams = map[string]bool{"limit": true, "format": true}

type DatasetResponse struct {
	DataType string          `json:"dataType"`
	Count    int             `json:"count"`
	Data     []models.Record `json:"data"`
}

type ImportResponse struct {
	DataType string `json:"dataType"`
	Inserted int64  `json:"inserted"`
	Replaced bool   `json:"replaced"`
}

// @Summary List stored records
// @Description Newest first. Any query parameter other than limit filters on a top-level field.
// @Tags datasets
// @Produce json
// @Param dataType path string true "Dataset kind"
// @Param limit query int false "Max records"
// @Success 200 {object} DatasetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/datasets/{dataType} [get]
func (h *Handler) DatasetList(c *gin.Context) {
	kind, filters, limit, ok := h.datasetQuery(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	records, ok := h.listRecords(ctx, c, kind, filters, limit)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, DatasetResponse{DataType: string(kind), Count: len(records), Data: records})
}

// @Summary Export stored records
// @Tags datasets
// @Produce text/csv
// @Produce application/pdf
// @Param dataType path string true "Dataset kind"
// @Param format query string true "csv or pdf"
// @Param limit query int false "Max records"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/datasets/{dataType}/export [get]
func (h *Handler) DatasetExport(c *gin.Context) {
	start := time.Now()
	kind, filters, limit, ok := h.datasetQuery(c)
	if !ok {
		return
	}
	format := c.Query("format")
	ctx, cancel := h.requestContext(c)
	defer cancel()

	records, ok := h.listRecords(ctx, c, kind, filters, limit)
	if !ok {
		return
	}
	doc, err := h.Formatter.Format(string(kind), format, records)
	if err != nil {
		h.exportError(c, string(kind), format, err)
		return
	}
	h.writeDocument(c, string(kind), format, doc, start)
}

// @Summary Store records
// @Description Appends records of one kind, or replaces all of them with replace=true.
// @Tags datasets
// @Accept json
// @Produce json
// @Param dataType path string true "Dataset kind"
// @Param replace query bool false "Replace existing records"
// @Param X-Admin-Key header string false "Admin key"
// @Param request body models.DatasetImportRequest true "Records"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/datasets/{dataType} [post]
func (h *Handler) DatasetImport(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	kind := models.DatasetKind(c.Param("dataType"))
	if !kind.Known() {
		writeError(c, http.StatusBadRequest, "UNKNOWN_DATASET", "Unknown dataset: "+string(kind), models.KnownKinds())
		return
	}

	var req models.DatasetImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "data must contain at least one record", err.Error())
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	replace := c.Query("replace") == "true"
	var (
		n   int64
		err error
	)
	if replace {
		n, err = h.Store.ReplaceRecords(ctx, kind, req.Data)
	} else {
		n, err = h.Store.InsertRecords(ctx, kind, req.Data)
	}
	if err != nil {
		h.Logger.Error().Err(err).Str("data_type", string(kind)).Msg("dataset import failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to store records", err.Error())
		return
	}
	h.Logger.Info().Str("data_type", string(kind)).Int64("inserted", n).Bool("replace", replace).Msg("dataset imported")
	c.JSON(http.StatusOK, ImportResponse{DataType: string(kind), Inserted: n, Replaced: replace})
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Dataset storage is not configured", nil)
		return false
	}
	return true
}

func (h *Handler) datasetQuery(c *gin.Context) (models.DatasetKind, map[string]string, int, bool) {
	if !h.requireStore(c) {
		return "", nil, 0, false
	}
	kind := models.DatasetKind(c.Param("dataType"))
	if !kind.Known() {
		writeError(c, http.StatusBadRequest, "UNKNOWN_DATASET", "Unknown dataset: "+string(kind), models.KnownKinds())
		return "", nil, 0, false
	}

	limit := h.DatasetLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer", v)
			return "", nil, 0, false
		}
		if limit <= 0 || n < limit {
			limit = n
		}
	}

	filters := map[string]string{}
	for k, vs := range c.Request.URL.Query() {
		if reservedParams[k] || len(vs) == 0 {
			continue
		}
		filters[k] = vs[0]
	}
	return kind, filters, limit, true
}

func (h *Handler) listRecords(ctx context.Context, c *gin.Context, kind models.DatasetKind, filters map[string]string, limit int) ([]models.Record, bool) {
	records, err := h.Store.ListRecords(ctx, kind, filters, limit)
	if err != nil {
		if errors.Is(err, db.ErrInvalidFilter) {
			writeError(c, http.StatusBadRequest, "INVALID_FILTER", "Invalid filter", err.Error())
			return nil, false
		}
		h.Logger.Error().Err(err).Str("data_type", string(kind)).Msg("dataset query failed")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load records", err.Error())
		return nil, false
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, true
}
