package export

import (
	"strings"

	"github.com/roadside-plus/backend/internal/models"
)

// NoData is written instead of a CSV document when the dataset is empty.
const NoData = "No data available"

// CSV renders rows as comma-separated text: one header line, one line per
// record, "\n" between lines and no trailing newline.
func CSV(dataType string, rows []models.Record) (string, error) {
	if len(rows) == 0 {
		return NoData, nil
	}
	schema := Resolve(dataType, rows)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinFields(schema.Headers()))
	for _, rec := range rows {
		cells, err := schema.Row(rec)
		if err != nil {
			return "", err
		}
		lines = append(lines, joinFields(cells))
	}
	return strings.Join(lines, "\n"), nil
}

func joinFields(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

// EscapeField quotes f when it contains a comma, a double quote or a newline,
// doubling any quotes inside. Every other field is written as is.
func EscapeField(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
