package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roadside-plus/backend/internal/export"
	"github.com/roadside-plus/backend/internal/models"
)

// @Summary Export a dataset
// @Description Renders the posted records as CSV or as a printable report
// @Description (HTML, base64-encoded, served as application/pdf).
// @Tags export
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param request body models.ExportRequest true "Records to export"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/export [post]
func (h *Handler) Export(c *gin.Context) {
	start := time.Now()

	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Metrics.RecordExport(req.DataType, req.Format, "too_large", 0, 0)
			writeError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return
		}
		h.Metrics.RecordExport(req.DataType, req.Format, "invalid_request", 0, 0)
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		h.exportError(c, req.DataType, req.Format, export.ErrMissingParameter)
		return
	}
	if len(req.Filters) > 0 {
		h.Logger.Debug().Str("data_type", req.DataType).Interface("filters", req.Filters).Msg("export filters ignored for inline data")
	}

	doc, err := h.Formatter.Format(req.DataType, req.Format, req.Data)
	if err != nil {
		h.exportError(c, req.DataType, req.Format, err)
		return
	}
	h.writeDocument(c, req.DataType, req.Format, doc, start)
}

func (h *Handler) writeDocument(c *gin.Context, dataType, format string, doc export.Document, start time.Time) {
	elapsed := time.Since(start)
	h.Metrics.RecordExport(dataType, format, "success", elapsed, len(doc.Body))
	h.Logger.Info().
		Str("data_type", dataType).
		Str("format", format).
		Int("records", doc.Records).
		Int("bytes", len(doc.Body)).
		Dur("latency", elapsed).
		Msg("export generated")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (h *Handler) exportError(c *gin.Context, dataType, format string, err error) {
	var unsupported export.UnsupportedFormatError
	switch {
	case errors.Is(err, export.ErrMissingParameter):
		h.Metrics.RecordExport(dataType, format, "missing_parameter", 0, 0)
		writeError(c, http.StatusBadRequest, "MISSING_PARAMETER", "Missing required parameters: dataType, format, data", nil)
	case errors.As(err, &unsupported):
		h.Metrics.RecordExport(dataType, format, "unsupported_format", 0, 0)
		writeError(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", fmt.Sprintf("Unsupported format: %s", unsupported.Format), nil)
	default:
		h.Metrics.RecordExport(dataType, format, "serialization_failure", 0, 0)
		h.Logger.Error().Err(err).Str("data_type", dataType).Str("format", format).Msg("export failed")
		writeError(c, http.StatusInternalServerError, "SERIALIZATION_FAILURE", "Failed to generate export", err.Error())
	}
}
