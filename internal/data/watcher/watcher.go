package watcher

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// FileWatcher surfaces marker file changes in the data directory. The
// indexing pipeline rewrites day-N[-part-M].json files as new timestamps are
// reviewed, and the live view reloads on every change.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
}

// NewFileWatcher watches the given data directory for marker file changes.
func NewFileWatcher(dataDir string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dataDir); err != nil {
		w.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: w,
		events:  make(chan model.FileEvent, 100),
	}
	go fw.processEvents()
	return fw, nil
}

func isMarkerFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, "day-") && filepath.Ext(name) == ".json"
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if isMarkerFile(event.Name) {
				fw.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the marker file change feed.
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
