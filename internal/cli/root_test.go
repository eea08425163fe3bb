package cli

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/mealplan/internal/config"
	"github.com/julianstephens/mealplan/internal/keyring"
	"github.com/julianstephens/mealplan/internal/storage"
)

func newTestContext(store string) *Context {
	cfg := config.DefaultConfig()
	cfg.Store = store
	ctx := NewContext(cfg, time.UTC)
	ctx.Now = func() time.Time { return time.Date(2025, 6, 2, 23, 30, 0, 0, time.UTC) }
	return ctx
}

func TestResolveStore(t *testing.T) {
	gokeyring.MockInit()
	dir := t.TempDir()

	tests := []struct {
		name     string
		store    string
		envConn  string
		keyring  string
		location string
		local    bool
		wantErr  error
	}{
		{name: "sqlite", store: filepath.Join(dir, "meals.db"), location: filepath.Join(dir, "meals.db"), local: true},
		{name: "json", store: filepath.Join(dir, "meals.json"), location: filepath.Join(dir, "meals.json"), local: true},
		{name: "memory", store: storage.MemoryTarget, location: storage.MemoryTarget},
		{name: "postgres without password", store: "postgres://meals@localhost/mealplan", location: "postgresql"},
		{name: "postgres with password", store: "postgres://meals:pw@localhost/mealplan", wantErr: storage.ErrEmbeddedCredentials},
		{name: "environment wins", store: filepath.Join(dir, "meals.db"), envConn: "postgres://meals:pw@localhost/mealplan", location: "postgresql"},
		{name: "keyring", store: keyring.StoreTarget, keyring: "postgres://meals:pw@localhost/mealplan", location: "postgresql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(tt.store)
			ctx.Config.DBConnection = tt.envConn
			if tt.keyring != "" {
				if err := ctx.Credentials.Set(tt.keyring); err != nil {
					t.Fatal(err)
				}
				defer ctx.Credentials.Delete()
			}

			kv, err := ctx.ResolveStore()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveStore failed: %v", err)
			}
			if kv.Location() != tt.location {
				t.Errorf("Location() = %q, want %q", kv.Location(), tt.location)
			}
			if _, err := ctx.BackupManager(); (err == nil) != tt.local {
				t.Errorf("BackupManager error = %v, local = %v", err, tt.local)
			}
		})
	}
}

func TestResolveStoreEmptyKeyring(t *testing.T) {
	gokeyring.MockInit()
	ctx := newTestContext(keyring.StoreTarget)
	if _, err := ctx.ResolveStore(); err == nil {
		t.Error("expected error for empty keyring")
	}
}

func TestOpenStoreInitializesOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "meals.db")
	ctx := newTestContext(path)

	if err := ctx.OpenStore(); err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer ctx.Close()

	if ctx.Store == nil || ctx.Store.Location() != path {
		t.Errorf("store = %v", ctx.Store)
	}
}

func TestParseDate(t *testing.T) {
	ctx := newTestContext(storage.MemoryTarget)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "2025-06-02"},
		{in: "today", want: "2025-06-02"},
		{in: "Tomorrow", want: "2025-06-03"},
		{in: "yesterday", want: "2025-06-01"},
		{in: "2025-12-24", want: "2025-12-24"},
		{in: "24/12/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ctx.ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if tt.wantErr {
				return
			}
			if got.Format("2006-01-02") != tt.want || got.Hour() != 0 {
				t.Errorf("ParseDate(%q) = %v, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestTodayUsesLocation(t *testing.T) {
	ctx := newTestContext(storage.MemoryTarget)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	ctx.Location = tokyo

	if got := ctx.Today().Day(); got != 3 {
		t.Errorf("Today() day = %d, want 3 in Tokyo", got)
	}
}
