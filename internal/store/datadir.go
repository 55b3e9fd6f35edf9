package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File names inside a data directory.
const (
	AssignmentsFile = "assignments.json"
	NotesFile       = "notes.json"
	BackupsDir      = "backups"
)

// DataDir is the directory holding one JSON file per entity type.
type DataDir struct {
	Root string
}

// Counts holds raw record counts per file.
type Counts struct {
	Assignments int `json:"assignments"`
	Notes       int `json:"notes"`
}

// AssignmentsPath returns the assignments file path.
func (d DataDir) AssignmentsPath() string { return filepath.Join(d.Root, AssignmentsFile) }

// NotesPath returns the notes file path.
func (d DataDir) NotesPath() string { return filepath.Join(d.Root, NotesFile) }

func (d DataDir) files() []string {
	return []string{d.AssignmentsPath(), d.NotesPath()}
}

// Init creates the directory and any missing data file as an empty array.
// It returns the files it created.
func (d DataDir) Init() ([]string, error) {
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", d.Root, err)
	}

	var created []string
	for _, path := range d.files() {
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, fmt.Errorf("store: stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return created, fmt.Errorf("store: create %s: %w", path, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// Backup copies every data file into backups/<name>-<timestamp>.json and
// returns the backup paths.
func (d DataDir) Backup(now time.Time) ([]string, error) {
	dir := filepath.Join(d.Root, BackupsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format("2006-01-02T15:04:05.000Z"))

	var written []string
	for _, src := range d.files() {
		name := strings.TrimSuffix(filepath.Base(src), ".json")
		dst := filepath.Join(dir, fmt.Sprintf("%s-%s.json", name, stamp))
		if err := copyFile(src, dst); err != nil {
			return written, fmt.Errorf("store: backup %s: %w", src, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Clear empties every data file.
func (d DataDir) Clear() error {
	for _, path := range d.files() {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("store: clear %s: %w", path, err)
		}
	}
	return nil
}

// Counts returns how many records each file holds without decoding them.
// Unreadable files count as zero.
func (d DataDir) Counts() Counts {
	return Counts{
		Assignments: countRaw(d.AssignmentsPath()),
		Notes:       countRaw(d.NotesPath()),
	}
}

func countRaw(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0
	}
	return len(raw)
}
