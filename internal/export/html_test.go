package export

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLReport(t *testing.T) {
	rows := records(t, `[
		{"id":"e1","user":{"name":"Dana <script>","membership":"Gold"},"serviceType":"Towing","location":"I-95","status":"pending","time":"10:42"},
		{"id":"e2","serviceType":"Fuel Delivery"}
	]`)

	page, err := HTML("emergency_requests", rows, fixedNow)
	require.NoError(t, err)

	assert.Contains(t, page, "<h1>EMERGENCY REQUESTS</h1>")
	assert.Contains(t, page, "Generated on: 2024-03-09 14:30:00 UTC")
	assert.Contains(t, page, "Total Records: 2")
	assert.Contains(t, page, "<th>Service Type</th>")
	assert.NotContains(t, page, "<th>Membership</th>")
	assert.NotContains(t, page, "Gold")
	assert.Contains(t, page, "Dana &lt;script&gt;")
	assert.Equal(t, 2, strings.Count(page, "<tr><td>"))
}

func TestHTMLDefaultKindUsesFirstRecordKeys(t *testing.T) {
	rows := records(t, `[{"sku":"A-1","qty":3},{"sku":"B-2"}]`)

	page, err := HTML("inventory_items", rows, fixedNow)
	require.NoError(t, err)
	assert.Contains(t, page, "<h1>INVENTORY ITEMS</h1>")
	assert.Contains(t, page, "<th>sku</th><th>qty</th>")
	assert.Contains(t, page, "<tr><td>B-2</td><td></td></tr>")
}

func TestPDFBodyIsEncodedReport(t *testing.T) {
	rows := records(t, `[{"id":"a1","title":"Battery low","severity":"high","message":"hidden in report"}]`)

	doc, err := testFormatter().Format("system_alerts", FormatPDF, rows)
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(string(doc.Body))
	require.NoError(t, err)
	page := string(decoded)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<h1>SYSTEM ALERTS</h1>")
	assert.Contains(t, page, "Battery low")
	assert.NotContains(t, page, "hidden in report")
}

func TestReportTitle(t *testing.T) {
	assert.Equal(t, "SYSTEM ALERTS", ReportTitle("system_alerts"))
	assert.Equal(t, "CUSTOMERS", ReportTitle("customers"))
}
