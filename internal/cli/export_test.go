package cli

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC) }

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewExportCmd(fixedNow)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExportWritesFile(t *testing.T) {
	in := writeInput(t, `[{"id":"a1","title":"Queue, backlog","severity":"high"}]`)
	outDir := filepath.Join(t.TempDir(), "exports")

	_, logs, err := run(t, "", in, "--type", "system_alerts", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, logs, "export written")

	body, err := os.ReadFile(filepath.Join(outDir, "system_alerts_export_2024-03-09.csv"))
	require.NoError(t, err)
	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Title,Message,Severity,Category,Status,Priority,Timestamp,Source", lines[0])
	assert.Equal(t, `a1,"Queue, backlog",,high,,,,,`, lines[1])
}

func TestExportStdinToStdout(t *testing.T) {
	out, _, err := run(t, `[{"a":1,"b":true}]`, "-", "--type", "widgets", "--stdout")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,Yes", out)
}

func TestExportPDFToStdout(t *testing.T) {
	out, _, err := run(t, `[]`, "-", "--type", "customers", "--format", "pdf", "--stdout")
	require.NoError(t, err)
	page, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>No data available</p>", string(page))
}

func TestExportErrors(t *testing.T) {
	in := writeInput(t, `[{"id":"c1"}]`)

	_, _, err := run(t, "", in, "--type", "customers", "--format", "xml", "--stdout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: xml")

	_, _, err = run(t, "", "--type", "customers")
	require.Error(t, err)

	_, _, err = run(t, "", in)
	require.Error(t, err, "--type is required")

	_, _, err = run(t, "null", "-", "--type", "customers", "--stdout")
	require.Error(t, err)

	_, _, err = run(t, "", in, "--type", "customers", "--from-db")
	require.Error(t, err)
}
