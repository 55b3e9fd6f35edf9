package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDataDir_Init(t *testing.T) {
	d := DataDir{Root: filepath.Join(t.TempDir(), "data")}

	created, err := d.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %v, want 2 files", created)
	}
	for _, p := range []string{d.AssignmentsPath(), d.NotesPath()} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if string(data) != "[]" {
			t.Errorf("%s = %q, want []", p, data)
		}
	}

	os.WriteFile(d.NotesPath(), []byte(`[{"id":"n1"}]`), 0o644)
	created, err = d.Init()
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(created) != 0 {
		t.Errorf("second Init created %v, want none", created)
	}
	if d.Counts().Notes != 1 {
		t.Error("Init must not overwrite existing files")
	}
}

func TestDataDir_BackupAndClear(t *testing.T) {
	d := DataDir{Root: t.TempDir()}
	if _, err := d.Init(); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(d.AssignmentsPath(), []byte(`[{"id":"a1"},{"id":"a2"}]`), 0o644)

	now := time.Date(2026, 10, 19, 8, 30, 15, 123_000_000, time.UTC)
	written, err := d.Backup(now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("Backup wrote %v", written)
	}
	want := filepath.Join(d.Root, "backups", "assignments-2026-10-19T08-30-15-123Z.json")
	if written[0] != want {
		t.Errorf("backup path = %q, want %q", written[0], want)
	}
	data, _ := os.ReadFile(written[0])
	if !strings.Contains(string(data), "a2") {
		t.Errorf("backup content = %q", data)
	}

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if c := d.Counts(); c.Assignments != 0 || c.Notes != 0 {
		t.Errorf("Counts after clear = %+v", c)
	}
	if _, err := os.Stat(written[0]); err != nil {
		t.Error("Clear must keep backups")
	}
}

func TestDataDir_BackupMissingFiles(t *testing.T) {
	d := DataDir{Root: t.TempDir()}
	if _, err := d.Backup(time.Now()); err == nil {
		t.Fatal("expected error backing up missing files")
	}
}

func TestDataDir_Counts(t *testing.T) {
	d := DataDir{Root: t.TempDir()}
	os.WriteFile(d.AssignmentsPath(), []byte(`[{"id":"a"},{"id":"b"},{"id":"c"}]`), 0o644)
	os.WriteFile(d.NotesPath(), []byte(`garbage`), 0o644)

	c := d.Counts()
	if c.Assignments != 3 {
		t.Errorf("Assignments = %d, want 3", c.Assignments)
	}
	if c.Notes != 0 {
		t.Errorf("Notes = %d, want 0 for unreadable file", c.Notes)
	}
}
