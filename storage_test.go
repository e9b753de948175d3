package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileSink(t *testing.T, maxSize int64, maxFiles int) (*fileSink, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogDir = dir
	cfg.FilePrefix = "app"
	cfg.Extension = "log"
	cfg.MaxFileSize = maxSize
	cfg.MaxFiles = maxFiles

	fs, err := newFileSink(cfg, func() {})
	require.NoError(t, err)
	return fs, dir
}

func TestFileSinkWritesToActiveFile(t *testing.T) {
	fs, dir := newTestFileSink(t, 1<<20, 5)
	require.NoError(t, fs.writeBatch([][]byte{[]byte("hello\n"), []byte("world\n")}))
	require.NoError(t, fs.sync())

	content, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(content))
}

func TestFileSinkRotatesOnSize(t *testing.T) {
	fs, dir := newTestFileSink(t, 20, 5)

	require.NoError(t, fs.writeBatch([][]byte{[]byte(strings.Repeat("a", 15) + "\n")}))
	require.NoError(t, fs.writeBatch([][]byte{[]byte(strings.Repeat("b", 15) + "\n")}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var archived, active int
	for _, e := range entries {
		if e.Name() == "app.log" {
			active++
		} else if strings.HasPrefix(e.Name(), "app_") {
			archived++
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, archived, "first write should have been rotated out once the second crossed maxSize")
}

func TestFileSinkRetentionKeepsNewestArchives(t *testing.T) {
	fs, dir := newTestFileSink(t, 10, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, fs.writeBatch([][]byte{[]byte(strings.Repeat("x", 15) + "\n")}))
		time.Sleep(1100 * time.Millisecond) // distinct second-resolution archive names
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var matching int
	for _, e := range entries {
		if e.Name() == "app.log" || strings.HasPrefix(e.Name(), "app_") {
			matching++
		}
	}
	assert.Equal(t, 3, matching, "retention must cap total {prefix}*.log entries, including the live file, at max_files")
}

func TestFileSinkArchiveNameCollisionSuffix(t *testing.T) {
	fs, dir := newTestFileSink(t, 1<<20, 5)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	base := filepath.Join(dir, "app_20260102_030405.log")
	require.NoError(t, os.WriteFile(base, []byte("existing"), 0644))

	name := fs.nextArchiveName(ts)
	assert.Equal(t, "app_20260102_030405_1.log", name)
}
