package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forensio/fstimeline/fstimeline/collector"
)

func rec(path string) *collector.FileRecord {
	return &collector.FileRecord{Path: path, Name: path}
}

func TestPathIndex_InsertAndLookup(t *testing.T) {
	idx := NewPathIndex()

	require.NoError(t, idx.Insert(rec("/var/log/syslog")))
	require.NoError(t, idx.Insert(rec("/var/log/auth.log")))

	found, ok := idx.Lookup("/var/log/syslog")
	require.True(t, ok)
	assert.Equal(t, "/var/log/syslog", found.Path)

	_, ok = idx.Lookup("/var/log/missing")
	assert.False(t, ok)

	assert.Equal(t, int64(2), idx.Size())
}

func TestPathIndex_InsertNil(t *testing.T) {
	idx := NewPathIndex()
	assert.Error(t, idx.Insert(nil))
}

func TestPathIndex_DuplicateInsert(t *testing.T) {
	idx := NewPathIndex()

	require.NoError(t, idx.Insert(rec("/etc/hosts")))
	require.NoError(t, idx.Insert(rec("/etc/hosts")))

	assert.Equal(t, int64(1), idx.Size())
	assert.Equal(t, int64(2), idx.GetStats().Insertions)
}

func TestPathIndex_PrefixLookup(t *testing.T) {
	idx := Build([]*collector.FileRecord{
		rec("/home/alice/a.txt"),
		rec("/home/alice/docs/b.txt"),
		rec("/home/bob/c.txt"),
	})

	results := idx.PrefixLookup("/home/alice")
	assert.Len(t, results, 2)

	all := idx.PrefixLookup("/home")
	assert.Len(t, all, 3)

	none := idx.PrefixLookup("/srv")
	assert.Empty(t, none)
}

func TestPathIndex_NormalizesPaths(t *testing.T) {
	idx := NewPathIndex()
	require.NoError(t, idx.Insert(rec("/var/log/../log/syslog")))

	_, ok := idx.Lookup("/var/log/syslog")
	assert.True(t, ok)
}

func TestPathIndex_Walk(t *testing.T) {
	idx := Build([]*collector.FileRecord{
		rec("/b"),
		rec("/a"),
		rec("/c"),
	})

	var order []string
	idx.Walk(func(path string, _ *collector.FileRecord) bool {
		order = append(order, path)
		return false
	})

	assert.Equal(t, []string{"/a", "/b", "/c"}, order)
}
