package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

func record(path string, mod time.Time) *collector.FileRecord {
	return &collector.FileRecord{
		Path:       path,
		Name:       path,
		Size:       1,
		Perms:      "-rw-r--r--",
		ModifiedAt: mod,
	}
}

func TestBuild_SortsByModTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	records := []*collector.FileRecord{
		record("/c", base.Add(2*time.Hour)),
		record("/a", base),
		record("/b", base.Add(time.Hour)),
	}

	entries := Build(records, FieldModified)

	require.Len(t, entries, 3)
	assert.Equal(t, "/a", entries[0].Record.Path)
	assert.Equal(t, "/b", entries[1].Record.Path)
	assert.Equal(t, "/c", entries[2].Record.Path)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Key.Before(entries[i-1].Key), "timeline must be non-decreasing")
	}
}

func TestBuild_TieBreaksByPath(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	records := []*collector.FileRecord{
		record("/z", ts),
		record("/a", ts),
		record("/m", ts),
	}

	entries := Build(records, FieldModified)

	assert.Equal(t, "/a", entries[0].Record.Path)
	assert.Equal(t, "/m", entries[1].Record.Path)
	assert.Equal(t, "/z", entries[2].Record.Path)
}

func TestBuild_AbsentFieldSortsFirst(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	withAccess := record("/a", ts)
	withAccess.AccessedAt = ts

	noAccess := record("/b", ts) // AccessedAt stays zero

	entries := Build([]*collector.FileRecord{withAccess, noAccess}, FieldAccessed)

	assert.Equal(t, "/b", entries[0].Record.Path)
	assert.True(t, entries[0].Key.IsZero())
	assert.Equal(t, "/a", entries[1].Record.Path)
}

func TestBuild_AlternateFields(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := record("/new", base)
	first.ChangedAt = base.Add(time.Hour)
	second := record("/old", base.Add(time.Hour))
	second.ChangedAt = base

	entries := Build([]*collector.FileRecord{first, second}, FieldChanged)

	assert.Equal(t, "/old", entries[0].Record.Path)
	assert.Equal(t, "/new", entries[1].Record.Path)
}

func TestParseField(t *testing.T) {
	for _, valid := range []string{"mtime", "atime", "ctime", "btime", "exif"} {
		field, err := ParseField(valid)
		require.NoError(t, err)
		assert.Equal(t, Field(valid), field)
	}

	_, err := ParseField("created")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "text", "json"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), format)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
