package collector

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o640))

	modTime := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modTime, modTime))

	fi, err := os.Stat(path)
	require.NoError(t, err)

	rec := NewFileRecord(path, fi)

	assert.Equal(t, path, rec.Path)
	assert.Equal(t, "sample.txt", rec.Name)
	assert.Equal(t, int64(11), rec.Size)
	assert.True(t, rec.ModifiedAt.Equal(modTime))
	assert.Equal(t, fi.Mode().String(), rec.Perms)

	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.False(t, rec.AccessedAt.IsZero())
		assert.False(t, rec.ChangedAt.IsZero())
		assert.NotZero(t, rec.Inode)
		assert.Equal(t, uint32(os.Getuid()), rec.UID)
		assert.NotEmpty(t, rec.Owner)
	}

	if runtime.GOOS == "linux" {
		// No birth time in struct stat on Linux
		assert.True(t, rec.CreatedAt.IsZero())
	}
}

func TestExtractCaptureTime_NonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	assert.True(t, extractCaptureTime(path).IsZero())
	assert.True(t, extractCaptureTime(filepath.Join(dir, "missing.jpg")).IsZero())
}
