package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// backends returns an initialized instance of every local backend.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	kvs := map[string]KV{
		"memory": NewMemoryKV(),
		"file":   NewFileKV(filepath.Join(dir, "store.json")),
		"sqlite": NewSQLiteKV(filepath.Join(dir, "store.db")),
	}
	for name, kv := range kvs {
		if err := kv.Init(); err != nil {
			t.Fatalf("%s: Init failed: %v", name, err)
		}
		t.Cleanup(func() { kv.Close() })
	}
	return kvs
}

func TestKVGetSetRemove(t *testing.T) {
	ctx := context.Background()

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, found, err := kv.GetItem(ctx, "missing"); err != nil || found {
				t.Fatalf("expected absent key, got found=%v err=%v", found, err)
			}

			if err := kv.SetItem(ctx, "k", "v1"); err != nil {
				t.Fatalf("SetItem failed: %v", err)
			}
			if err := kv.SetItem(ctx, "k", "v2"); err != nil {
				t.Fatalf("SetItem overwrite failed: %v", err)
			}

			got, found, err := kv.GetItem(ctx, "k")
			if err != nil || !found {
				t.Fatalf("GetItem failed: found=%v err=%v", found, err)
			}
			if got != "v2" {
				t.Errorf("expected last write to win, got %q", got)
			}

			if err := kv.RemoveItem(ctx, "k"); err != nil {
				t.Fatalf("RemoveItem failed: %v", err)
			}
			if _, found, _ := kv.GetItem(ctx, "k"); found {
				t.Error("expected key to be removed")
			}

			// Removing an absent key is not an error
			if err := kv.RemoveItem(ctx, "k"); err != nil {
				t.Errorf("RemoveItem on absent key: %v", err)
			}
		})
	}
}

func TestFileKVPersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	first := NewFileKV(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := first.SetItem(ctx, "mealEvents", "[]"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	second := NewFileKV(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, found, err := second.GetItem(ctx, "mealEvents")
	if err != nil || !found || got != "[]" {
		t.Errorf("expected persisted value, got %q found=%v err=%v", got, found, err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after save")
	}
}

func TestFileKVLifecycleErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv := NewFileKV(filepath.Join(dir, "absent.json"))
	if err := kv.Load(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, _, err := kv.GetItem(ctx, "k"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}

	path := filepath.Join(dir, "store.json")
	if err := NewFileKV(path).Init(); err != nil {
		t.Fatal(err)
	}
	if err := NewFileKV(path).Init(); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewFileKV(corrupt).Load(); !errors.Is(err, ErrCorruptData) {
		t.Errorf("expected ErrCorruptData, got %v", err)
	}
}

func TestSQLiteKVLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	if err := NewSQLiteKV(path).Load(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}

	kv := NewSQLiteKV(path)
	if err := kv.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := kv.SetItem(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	reopened := NewSQLiteKV(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, found, err := reopened.GetItem(ctx, "k")
	if err != nil || !found || got != "v" {
		t.Errorf("expected persisted value, got %q found=%v err=%v", got, found, err)
	}

	current, latest, err := reopened.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("schema version = %d/%d, want fully migrated", current, latest)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{target: ":memory:", want: "*storage.MemoryKV"},
		{target: "/tmp/events.json", want: "*storage.FileKV"},
		{target: "/tmp/events.JSON", want: "*storage.FileKV"},
		{target: "/tmp/mealplan.db", want: "*storage.SQLiteKV"},
		{target: "postgres://meals@localhost:5432/mealplan", want: "*storage.PostgresKV"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			kv, err := Open(tt.target)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if got := typeName(kv); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.target, got, tt.want)
			}
		})
	}
}

func typeName(kv KV) string {
	switch kv.(type) {
	case *MemoryKV:
		return "*storage.MemoryKV"
	case *FileKV:
		return "*storage.FileKV"
	case *SQLiteKV:
		return "*storage.SQLiteKV"
	case *PostgresKV:
		return "*storage.PostgresKV"
	}
	return "unknown"
}
