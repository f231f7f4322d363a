package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/tarjama/internal/prompt"
)

func TestNumber_RequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[]`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	prev := confirmer
	confirmer = prompt.Confirmer{IsInteractive: func() bool { return false }}
	t.Cleanup(func() { confirmer = prev })

	_, err := executeCommand(t, "number", "--dir", dir)
	if err == nil || !strings.Contains(err.Error(), "-y") {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); err != nil {
		t.Fatalf("file renamed without confirmation")
	}
}

func TestNumber_Yes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(`[]`), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	out, err := executeCommand(t, "number", "--dir", dir, "-y")
	if err != nil {
		t.Fatalf("number failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Renamed 2 files") {
		t.Fatalf("unexpected output: %s", out)
	}
	for _, name := range []string{"1_a.json", "2_b.json", "filename_mapping.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestNumber_AsksBeforeReplacingMapping(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"a.json": `[]`, "filename_mapping.json": `{"x.json":"1_x.json"}`} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	prev := confirmer
	confirmer = prompt.Confirmer{
		In:            strings.NewReader("y\nn\n"),
		IsInteractive: func() bool { return true },
	}
	t.Cleanup(func() { confirmer = prev })

	out, err := executeCommand(t, "number", "--dir", dir)
	if err != nil {
		t.Fatalf("number failed: %v", err)
	}
	if !strings.Contains(out, "already exists") || !strings.Contains(out, "Aborted.") {
		t.Fatalf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); err != nil {
		t.Fatalf("file renamed after refusal")
	}
}
