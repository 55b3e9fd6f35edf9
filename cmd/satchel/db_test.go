package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulandar/satchel/internal/config"
)

func TestInitCmd(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "satchel.yaml")
	dataDir := filepath.Join(dir, "data")

	out := mustRun(t, "init", "-c", cfgPath, "--data-dir", dataDir)
	if !strings.Contains(out, "Wrote "+cfgPath) {
		t.Errorf("init output:\n%s", out)
	}
	for _, name := range []string{"assignments.json", "notes.json"} {
		data, err := os.ReadFile(filepath.Join(dataDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != "[]" {
			t.Errorf("%s = %q, want []", name, data)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.DataDir != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dataDir)
	}

	if _, err := runCLI(t, "init", "-c", cfgPath); err == nil {
		t.Error("expected init to refuse overwriting the config")
	}
}

func TestDBCommands(t *testing.T) {
	cfg := setupConfig(t)

	out := mustRun(t, "db", "init", "-c", cfg)
	if !strings.Contains(out, "assignments.json") || !strings.Contains(out, "ready") {
		t.Errorf("db init:\n%s", out)
	}

	mustRun(t, "assignment", "create", "-c", cfg, "--title", "Lab", "--subject", "Chem", "--due", "2099-01-01", "--hours", "2")
	mustRun(t, "note", "create", "-c", cfg, "--title", "Notes", "--content", "x", "--subject", "Chem")

	out = mustRun(t, "db", "stats", "-c", cfg)
	for _, want := range []string{"Assignment records:", "Note records:", "Not started:", "Average length:"} {
		if !strings.Contains(out, want) {
			t.Errorf("db stats missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "db", "backup", "-c", cfg)
	if strings.Count(out, "Backed up to") != 2 {
		t.Errorf("db backup:\n%s", out)
	}

	if _, err := runCLI(t, "db", "clear", "-c", cfg); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("clear without --yes: err = %v", err)
	}

	out = mustRun(t, "db", "clear", "-c", cfg, "--yes", "--backup=false")
	if strings.Contains(out, "Backed up") {
		t.Errorf("clear with --backup=false still backed up:\n%s", out)
	}
	out = mustRun(t, "assignment", "list", "-c", cfg)
	if !strings.Contains(out, "No assignments found.") {
		t.Errorf("list after clear:\n%s", out)
	}
}
