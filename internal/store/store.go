// Package store persists records as one JSON array file per entity type.
//
// Every mutation reads the whole file, changes the in-memory slice and
// rewrites the whole file. A Store serializes those cycles with a mutex, so
// writers inside one process never lose updates; separate processes sharing
// a file still race.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/zulandar/satchel/internal/logging"
)

// Record is anything a Store can hold.
type Record interface {
	RecordID() string
}

// Store is a JSON-file-backed collection of records of type T.
type Store[T Record] struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by the file at path. The file need not exist.
func New[T Record](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Path returns the backing file.
func (s *Store[T]) Path() string { return s.path }

// ReadAll returns every record. A missing, unreadable or malformed file
// reads as an empty collection; the latter two are logged.
func (s *Store[T]) ReadAll() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *Store[T]) readAll() []T {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Logger.WithField("path", s.path).WithError(err).Warn("store: read failed, treating as empty")
		}
		return []T{}
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logging.Logger.WithField("path", s.path).WithError(err).Warn("store: parse failed, treating as empty")
		return []T{}
	}
	if records == nil {
		records = []T{}
	}
	return records
}

// WriteAll replaces the file contents with records.
func (s *Store[T]) WriteAll(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(records)
}

// writeAll writes to a temp file in the same directory and renames it over
// the target, so readers never observe a half-written file.
func (s *Store[T]) writeAll(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}

// FindByID returns the record with the given id, or nil.
func (s *Store[T]) FindByID(id string) *T {
	for _, r := range s.ReadAll() {
		if r.RecordID() == id {
			return &r
		}
	}
	return nil
}

// Filter returns the records for which match returns true.
func (s *Store[T]) Filter(match func(T) bool) []T {
	var out []T
	for _, r := range s.ReadAll() {
		if match(r) {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// FindBy returns records whose JSON fields equal every entry in criteria.
// Keys are JSON field names; values must be strings, numbers or booleans.
// A record lacking a field never matches a criterion on it.
func (s *Store[T]) FindBy(criteria map[string]any) ([]T, error) {
	want, err := toFields(criteria)
	if err != nil {
		return nil, fmt.Errorf("store: criteria: %w", err)
	}

	out := []T{}
	for _, r := range s.ReadAll() {
		have, err := toFields(r)
		if err != nil {
			return nil, fmt.Errorf("store: encode %s: %w", r.RecordID(), err)
		}
		if matches(have, want) {
			out = append(out, r)
		}
	}
	return out, nil
}

func toFields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func matches(have, want map[string]any) bool {
	for k, w := range want {
		h, ok := have[k]
		if !ok {
			return false
		}
		switch w.(type) {
		case string, float64, bool:
		default:
			return false
		}
		if h != w {
			return false
		}
	}
	return true
}

// Create appends record and persists the collection.
func (s *Store[T]) Create(record T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.readAll(), record)
	if err := s.writeAll(records); err != nil {
		var zero T
		return zero, err
	}
	return record, nil
}

// UpdateByID applies apply to the record with the given id and persists it.
// It returns nil, nil when no such record exists.
func (s *Store[T]) UpdateByID(id string, apply func(*T)) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	i := slices.IndexFunc(records, func(r T) bool { return r.RecordID() == id })
	if i < 0 {
		return nil, nil
	}
	apply(&records[i])
	if err := s.writeAll(records); err != nil {
		return nil, err
	}
	updated := records[i]
	return &updated, nil
}

// DeleteByID removes the record with the given id. It reports whether a
// record was removed; the file is not rewritten when nothing matched.
func (s *Store[T]) DeleteByID(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.readAll()
	kept := slices.DeleteFunc(slices.Clone(records), func(r T) bool { return r.RecordID() == id })
	if len(kept) == len(records) {
		return false, nil
	}
	if err := s.writeAll(kept); err != nil {
		return false, err
	}
	return true, nil
}

// Modify runs fn over the whole collection under the store lock. When fn
// reports a change, the returned slice is persisted. An error from fn
// aborts without writing and is returned unchanged. Otherwise Modify
// returns the slice fn produced.
func (s *Store[T]) Modify(fn func([]T) ([]T, bool, error)) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, changed, err := fn(s.readAll())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.writeAll(records); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Count returns the number of records.
func (s *Store[T]) Count() int {
	return len(s.ReadAll())
}
