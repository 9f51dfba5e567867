package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

func TestFileWatcherReportsMarkerChanges(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "day-15-part-1.json"), []byte(`{"markers":[]}`), 0644))

	select {
	case event := <-fw.Events():
		assert.Equal(t, filepath.Join(dir, "day-15-part-1.json"), event.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for marker file write")
	}
}

func TestFileWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "day-3.json"), []byte(`{"markers":[]}`), 0644))

	// The first event through must be for the marker file, not notes.txt.
	var event model.FileEvent
	select {
	case event = <-fw.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no event for marker file write")
	}
	assert.Equal(t, filepath.Join(dir, "day-3.json"), event.Path)
}

func TestFileWatcherMissingDirectory(t *testing.T) {
	_, err := NewFileWatcher("/nonexistent/markers")
	assert.Error(t, err)
}
