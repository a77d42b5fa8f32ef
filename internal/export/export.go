// Package export turns dashboard datasets into downloadable documents.
//
// A dataset is a list of records tagged with a kind (customers, technicians,
// emergency_requests, ...). The kind selects a fixed column layout; unknown kinds
// use the keys of the first record. Two outputs are supported: CSV text and a
// printable HTML report that is delivered base64-encoded under the
// application/pdf content type.
//
// Everything here is pure and works on in-memory values only.
package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/roadside-plus/backend/internal/models"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"

	ContentTypeCSV = "text/csv"
	ContentTypePDF = "application/pdf"
)

var (
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrSerialization     = errors.New("export serialization failed")
)

type UnsupportedFormatError struct {
	Format string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

func (e UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Document is a finished export ready to be written to a response.
type Document struct {
	Body        []byte
	ContentType string
	Filename    string
	Records     int
}

type Formatter struct {
	// Now stamps the filename date and the report's "Generated on" line.
	Now func() time.Time
}

func NewFormatter() Formatter {
	return Formatter{Now: time.Now}
}

func (f Formatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// Format builds the document for dataType in the requested format. A nil rows
// slice means the data was never supplied; an empty one is not an error and the
// body carries the "No data available" sentinel.
func (f Formatter) Format(dataType, format string, rows []models.Record) (doc Document, err error) {
	if dataType == "" || format == "" || rows == nil {
		return Document{}, ErrMissingParameter
	}
	if format != FormatCSV && format != FormatPDF {
		return Document{}, UnsupportedFormatError{Format: format}
	}

	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			err = fmt.Errorf("%w: %v", ErrSerialization, r)
		}
	}()

	now := f.now()
	switch format {
	case FormatCSV:
		text, err := CSV(dataType, rows)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return Document{
			Body:        []byte(text),
			ContentType: ContentTypeCSV,
			Filename:    Filename(dataType, FormatCSV, now),
			Records:     len(rows),
		}, nil
	default:
		page, err := HTML(dataType, rows, now)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		return Document{
			Body:        []byte(base64.StdEncoding.EncodeToString([]byte(page))),
			ContentType: ContentTypePDF,
			Filename:    Filename(dataType, FormatPDF, now),
			Records:     len(rows),
		}, nil
	}
}

// Filename is "{dataType}_export_{YYYY-MM-DD}.{ext}" using the UTC date of t.
func Filename(dataType, ext string, t time.Time) string {
	return fmt.Sprintf("%s_export_%s.%s", dataType, t.UTC().Format("2006-01-02"), ext)
}
