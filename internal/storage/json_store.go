package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/noahxzhu/daily-post/internal/model"
)

var ErrMissingField = errors.New("missing field")

var requiredFields = []string{"time", "message", "days"}

// Store owns the schedule file. It is not safe for use by more than one
// process: RecordSuccess is a read-modify-write without a file lock.
type Store struct {
	mu          sync.RWMutex
	filePath    string
	lastWritten []byte
}

func NewStore(filePath string) *Store {
	return &Store{filePath: filePath}
}

func (s *Store) Path() string {
	return s.filePath
}

// Load reads and parses the schedule file. The file must exist and carry
// time, message and days.
func (s *Store) Load() (model.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, rec, err := s.read()
	return rec, err
}

// RecordSuccess re-reads the file, increments days and rewrites the whole
// document. Fields other than days are written back untouched and in their
// original order.
func (s *Store) RecordSuccess() (model.ScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, rec, err := s.read()
	if err != nil {
		return model.ScheduleRecord{}, err
	}

	rec.Days++
	days, err := json.Marshal(rec.Days)
	if err != nil {
		return model.ScheduleRecord{}, fmt.Errorf("failed to marshal days: %w", err)
	}
	doc.set("days", days)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return model.ScheduleRecord{}, fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := writeFileAtomic(s.filePath, data); err != nil {
		return model.ScheduleRecord{}, err
	}
	s.lastWritten = data
	return rec, nil
}

// Pretty returns the current file contents re-indented for console output.
func (s *Store) Pretty() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", " "); err != nil {
		return nil, fmt.Errorf("failed to indent data: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) read() (*document, model.ScheduleRecord, error) {
	var rec model.ScheduleRecord

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, rec, fmt.Errorf("failed to read file: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, rec, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	for _, key := range requiredFields {
		if !doc.has(key) {
			return nil, rec, fmt.Errorf("%w %q in %s", ErrMissingField, key, s.filePath)
		}
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, rec, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return doc, rec, nil
}

// writeFileAtomic writes to a temp file next to path and renames it into
// place, keeping the previous file mode.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}
