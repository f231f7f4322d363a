package cache

import (
	"context"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Memory {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMemory_SaveLookup(t *testing.T) {
	m := openTemp(t)
	ctx := context.Background()

	if _, ok, err := m.Lookup(ctx, "ar", "en", "مرحبا"); err != nil || ok {
		t.Fatalf("empty lookup = (%v, %v)", ok, err)
	}
	if err := m.Save(ctx, "ar", "en", "مرحبا", "Hello"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	out, ok, err := m.Lookup(ctx, "ar", "en", "مرحبا")
	if err != nil || !ok || out != "Hello" {
		t.Fatalf("Lookup() = (%q, %v, %v)", out, ok, err)
	}
	if _, ok, _ := m.Lookup(ctx, "ar", "fr", "مرحبا"); ok {
		t.Fatalf("lookup must be keyed by target language")
	}
}

func TestMemory_SaveReplaces(t *testing.T) {
	m := openTemp(t)
	ctx := context.Background()
	_ = m.Save(ctx, "ar", "en", "x", "first")
	_ = m.Save(ctx, "ar", "en", "x", "second")

	out, _, _ := m.Lookup(ctx, "ar", "en", "x")
	if out != "second" {
		t.Fatalf("Lookup() = %q, want %q", out, "second")
	}
	entries, hits, err := m.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if entries != 1 || hits != 1 {
		t.Fatalf("Stats() = (%d, %d), want (1, 1)", entries, hits)
	}
}
