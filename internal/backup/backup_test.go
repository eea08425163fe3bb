package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/storage"
)

const eventsKey = constants.EventsStorageKey

// setupStore creates an initialised store holding one events document.
func setupStore(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	kv, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := kv.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := kv.SetItem(context.Background(), eventsKey, `[{"id":"original"}]`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	kv.Close()
	return path
}

func writeEvents(t *testing.T, path, value string) {
	t.Helper()
	kv, _ := storage.Open(path)
	if err := kv.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer kv.Close()
	if err := kv.SetItem(context.Background(), eventsKey, value); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
}

func readEvents(t *testing.T, path string) string {
	t.Helper()
	kv, _ := storage.Open(path)
	if err := kv.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer kv.Close()
	v, _, err := kv.GetItem(context.Background(), eventsKey)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	return v
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	for _, name := range []string{"mealplan.db", "mealplan.json"} {
		t.Run(name, func(t *testing.T) {
			storePath := setupStore(t, name)
			mgr := NewManager(storePath)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}
			if filepath.Dir(backupPath) != mgr.GetBackupDir() {
				t.Errorf("backup written outside backup dir: %s", backupPath)
			}
			if filepath.Ext(backupPath) != filepath.Ext(name) {
				t.Errorf("backup %s does not keep the store extension", backupPath)
			}
			if err := mgr.verifyBackup(backupPath); err != nil {
				t.Errorf("backup does not verify: %v", err)
			}
			if got := readEvents(t, backupPath); got != `[{"id":"original"}]` {
				t.Errorf("backup content = %q", got)
			}
		})
	}
}

func TestBackupWithNoStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing store")
	}
}

func TestBackupRotation(t *testing.T) {
	storePath := setupStore(t, "mealplan.db")
	mgr := NewManager(storePath)
	mgr.now = steppingClock()

	var first string
	for i := 0; i < constants.MaxBackups+3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if i == 0 {
			first = path
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Error("oldest backup should have been rotated out")
	}
}

func TestListBackups(t *testing.T) {
	storePath := setupStore(t, "mealplan.db")
	mgr := NewManager(storePath)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	mgr.now = steppingClock()
	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}
	// Unrelated files are ignored
	os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("hi"), 0600)
	os.WriteFile(filepath.Join(mgr.GetBackupDir(), "mealplan-garbage.db"), []byte("x"), 0600)

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i, b := range backups {
		if b.Size == 0 || b.Timestamp.IsZero() {
			t.Errorf("backup %d has incomplete info: %+v", i, b)
		}
		if i > 0 && !backups[i-1].Timestamp.After(b.Timestamp) {
			t.Error("backups not sorted newest first")
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	storePath := setupStore(t, "mealplan.json")
	mgr := NewManager(storePath)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := make(map[string]bool)
	var last string
	for i := 0; i < 5; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		name := filepath.Base(path)
		if seen[name] {
			t.Errorf("duplicate backup filename: %s", name)
		}
		seen[name] = true
		last = path
	}

	backups, _ := mgr.ListBackups()
	if len(backups) != 5 || backups[0].Path != last {
		t.Errorf("same-second backups not ordered by counter: %+v", backups)
	}
}

func TestRestoreBackup(t *testing.T) {
	for _, name := range []string{"mealplan.db", "mealplan.json"} {
		t.Run(name, func(t *testing.T) {
			storePath := setupStore(t, name)
			mgr := NewManager(storePath)
			mgr.now = steppingClock()

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}

			writeEvents(t, storePath, `[{"id":"changed"}]`)

			safety, err := mgr.RestoreBackup(backupPath)
			if err != nil {
				t.Fatalf("RestoreBackup failed: %v", err)
			}
			if got := readEvents(t, storePath); got != `[{"id":"original"}]` {
				t.Errorf("store not restored, events = %q", got)
			}
			if safety == "" {
				t.Fatal("expected a pre-restore safety backup")
			}
			if got := readEvents(t, safety); got != `[{"id":"changed"}]` {
				t.Errorf("safety backup content = %q", got)
			}

			backups, _ := mgr.ListBackups()
			if len(backups) != 2 {
				t.Errorf("expected 2 backups after restore, got %d", len(backups))
			}
		})
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	tests := []struct {
		store, bad string
	}{
		{"mealplan.db", "mealplan-20250101-000000.db"},
		{"mealplan.json", "mealplan-20250101-000000.json"},
	}

	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			storePath := setupStore(t, tt.store)
			mgr := NewManager(storePath)
			os.MkdirAll(mgr.GetBackupDir(), 0700)

			badPath := filepath.Join(mgr.GetBackupDir(), tt.bad)
			if err := os.WriteFile(badPath, []byte("not a store"), 0600); err != nil {
				t.Fatal(err)
			}

			if _, err := mgr.RestoreBackup(badPath); err == nil {
				t.Error("expected restore of corrupted backup to fail")
			}
			if got := readEvents(t, storePath); got != `[{"id":"original"}]` {
				t.Errorf("store modified by failed restore: %q", got)
			}
		})
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	mgr := NewManager(setupStore(t, "mealplan.db"))
	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}
}
