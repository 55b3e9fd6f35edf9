package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportCommands(t *testing.T) {
	cfg := setupConfig(t)
	mustRun(t, "assignment", "create", "-c", cfg, "--title", "Lab", "--subject", "Chem", "--due", "2099-01-01", "--hours", "2")
	mustRun(t, "note", "create", "-c", cfg, "--title", "Bonds", "--content", "Covalent", "--subject", "Chem")

	out := mustRun(t, "export", "assignments", "-c", cfg, "-o", "-")
	if !strings.HasPrefix(out, "Title,Subject,Description,Due Date") || !strings.Contains(out, "Lab,Chem") {
		t.Errorf("csv export:\n%s", out)
	}

	out = mustRun(t, "export", "notes", "-c", cfg, "-o", "-")
	if !strings.Contains(out, "## Bonds") {
		t.Errorf("markdown export:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "notes.json")
	out = mustRun(t, "export", "notes", "-c", cfg, "-f", "json", "-o", path)
	if !strings.Contains(out, "Exported 1 records to "+path) {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"totalNotes": 1`) {
		t.Errorf("json export:\n%s", data)
	}

	if _, err := runCLI(t, "export", "assignments", "-c", cfg, "-f", "xml", "-o", "-"); err == nil {
		t.Error("expected unknown format to fail")
	}
}

func TestDigestSendDryRun(t *testing.T) {
	cfg := setupConfig(t)

	out := mustRun(t, "digest", "send", "--dry-run", "-c", cfg)
	if !strings.Contains(out, "Nothing due") {
		t.Errorf("empty dry run:\n%s", out)
	}

	mustRun(t, "assignment", "create", "-c", cfg, "--title", "Late lab", "--subject", "Chem", "--due", "2020-01-01", "--hours", "2")
	out = mustRun(t, "digest", "send", "--dry-run", "-c", cfg)
	if !strings.Contains(out, "Satchel digest: 1 overdue") || !strings.Contains(out, "Late lab") {
		t.Errorf("dry run:\n%s", out)
	}
}

func TestDigestSend_RequiresChannel(t *testing.T) {
	cfg := setupConfig(t)
	mustRun(t, "assignment", "create", "-c", cfg, "--title", "Late lab", "--subject", "Chem", "--due", "2020-01-01", "--hours", "2")

	_, err := runCLI(t, "digest", "send", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "channel_id") {
		t.Errorf("err = %v, want channel_id error", err)
	}
}
