package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever the schedule file is changed by someone
// other than this Store. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself so that
// editors which replace the file (and our own rename) keep being observed.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(s.filePath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	var lastSeen []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(target)
			if err != nil || len(bytes.TrimSpace(data)) == 0 {
				continue
			}
			if bytes.Equal(data, lastSeen) || s.wroteLast(data) {
				lastSeen = data
				continue
			}
			lastSeen = data
			onChange()
		}
	}
}

func (s *Store) wroteLast(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Equal(data, s.lastWritten)
}
