package export

import (
	"html/template"
	"strings"
	"time"

	"github.com/roadside-plus/backend/internal/models"
)

// NoDataHTML is the report body for an empty dataset.
const NoDataHTML = "<p>No data available</p>"

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #1f2937; }
h1 { color: #dc2626; border-bottom: 2px solid #dc2626; padding-bottom: 10px; }
.meta { color: #6b7280; font-size: 12px; margin-bottom: 20px; }
table { width: 100%; border-collapse: collapse; font-size: 11px; }
th { background: #dc2626; color: #ffffff; text-align: left; padding: 8px; }
td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; }
tr:nth-child(even) td { background: #f9fafb; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
<p>Generated on: {{.Generated}}</p>
<p>Total Records: {{.Total}}</p>
</div>
<table>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportView struct {
	Title     string
	Generated string
	Total     int
	Headers   []string
	Rows      [][]string
}

// ReportTitle turns a dataset kind into a heading: "emergency_requests" becomes
// "EMERGENCY REQUESTS".
func ReportTitle(dataType string) string {
	return strings.ToUpper(strings.ReplaceAll(dataType, "_", " "))
}

// HTML renders the printable report using the reduced table schema.
func HTML(dataType string, rows []models.Record, generated time.Time) (string, error) {
	if len(rows) == 0 {
		return NoDataHTML, nil
	}
	schema := ResolveTable(dataType, rows)

	view := reportView{
		Title:     ReportTitle(dataType),
		Generated: generated.UTC().Format("2006-01-02 15:04:05 UTC"),
		Total:     len(rows),
		Headers:   schema.Headers(),
		Rows:      make([][]string, 0, len(rows)),
	}
	for _, rec := range rows {
		cells, err := schema.Row(rec)
		if err != nil {
			return "", err
		}
		view.Rows = append(view.Rows, cells)
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}
