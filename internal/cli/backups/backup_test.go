package backups

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/cli/events"
	"github.com/julianstephens/mealplan/internal/config"
	"github.com/julianstephens/mealplan/internal/storage"
)

func newContext(t *testing.T, store string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store = store
	ctx := cli.NewContext(cfg, time.UTC)
	out := &bytes.Buffer{}
	ctx.Out = out
	if err := ctx.OpenStore(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx, out
}

func mealCount(t *testing.T, ctx *cli.Context) int {
	t.Helper()
	events, err := ctx.Events().Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return len(events)
}

func TestBackupCreateListRestore(t *testing.T) {
	for _, name := range []string{"meals.db", "meals.json"} {
		t.Run(name, func(t *testing.T) {
			ctx, out := newContext(t, filepath.Join(t.TempDir(), name))
			(&events.EventAddCmd{Title: "Stew", Start: "18:00", End: "19:00"}).Run(ctx)

			if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
				t.Fatalf("create failed: %v", err)
			}
			created := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

			out.Reset()
			if err := (&BackupListCmd{}).Run(ctx); err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if !strings.Contains(out.String(), created) {
				t.Errorf("list missing %s:\n%s", created, out.String())
			}

			(&events.EventAddCmd{Title: "Pie", Start: "20:00", End: "20:30"}).Run(ctx)
			if n := mealCount(t, ctx); n != 2 {
				t.Fatalf("meals = %d, want 2", n)
			}

			// declined
			ctx.In = strings.NewReader("n\n")
			out.Reset()
			if err := (&BackupRestoreCmd{BackupFile: created}).Run(ctx); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if !strings.Contains(out.String(), "Restore cancelled.") {
				t.Errorf("output = %q", out.String())
			}

			ctx.In = strings.NewReader("y\n")
			out.Reset()
			if err := (&BackupRestoreCmd{BackupFile: created}).Run(ctx); err != nil {
				t.Fatalf("restore failed: %v", err)
			}
			if !strings.Contains(out.String(), "Previous store saved as") {
				t.Errorf("output = %q", out.String())
			}

			if err := ctx.OpenStore(); err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			if n := mealCount(t, ctx); n != 1 {
				t.Errorf("meals after restore = %d, want 1", n)
			}
		})
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := newContext(t, filepath.Join(t.TempDir(), "meals.db"))
	err := (&BackupRestoreCmd{BackupFile: "mealplan-19990101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
}

func TestBackupNeedsLocalStore(t *testing.T) {
	ctx, _ := newContext(t, storage.MemoryTarget)
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, cli.ErrNoLocalStore) {
		t.Errorf("error = %v", err)
	}
}

func TestBackupListEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx, out := newContext(t, filepath.Join(dir, "meals.db"))
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("output = %q", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "meals.db")); err != nil {
		t.Errorf("store should exist: %v", err)
	}
}
