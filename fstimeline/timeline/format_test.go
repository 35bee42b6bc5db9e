package timeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

func sampleEntries() []Entry {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := record("/data/old.log", base)
	first.AccessedAt = base.Add(time.Minute)
	second := record("/data/new.log", base.Add(time.Hour))

	return Build([]*collector.FileRecord{second, first}, FieldModified)
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleEntries(), FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "/data/old.log", rows[1][5])
	assert.Equal(t, "/data/new.log", rows[2][5])

	// Absent timestamps render as empty columns
	assert.Equal(t, "", rows[1][3])    // created_at
	assert.NotEqual(t, "", rows[1][1]) // accessed_at was set
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleEntries(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "MODIFIED")
	assert.Contains(t, out, "/data/old.log")
	assert.Less(t, strings.Index(out, "/data/old.log"), strings.Index(out, "/data/new.log"))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleEntries(), FormatJSON))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/data/old.log", decoded[0]["path"])

	// Absent timestamps are omitted entirely, never serialized as zero times
	assert.Contains(t, decoded[0], "accessed_at")
	assert.NotContains(t, decoded[0], "created_at")
	assert.NotContains(t, decoded[1], "accessed_at")
	assert.NotContains(t, decoded[1], "captured_at")
}

func TestWrite_ToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "timeline.csv")

	require.NoError(t, Write(sampleEntries(), FormatCSV, outPath))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "/data/old.log")
}

func TestWrite_Unwritable(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "missing-dir", "timeline.csv")

	err := Write(sampleEntries(), FormatCSV, outPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputUnwritable)
}

func TestWrite_OverwritesExisting(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "timeline.csv")
	require.NoError(t, os.WriteFile(outPath, []byte("stale content that is much longer than the new timeline output"), 0o644))

	require.NoError(t, Write(sampleEntries()[:1], FormatCSV, outPath))

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale content")
}
