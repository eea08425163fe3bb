package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/mealplan/internal/backup"
	"github.com/julianstephens/mealplan/internal/calendar"
	"github.com/julianstephens/mealplan/internal/config"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/keyring"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/storage"
	"github.com/julianstephens/mealplan/internal/utils"
)

// ErrNoLocalStore is returned by commands that need a store file on disk.
var ErrNoLocalStore = errors.New("backups are only available for local SQLite or JSON stores")

// Context is handed to every command's Run method.
type Context struct {
	Config      *config.Config
	Location    *time.Location
	Credentials *keyring.Credentials
	Store       storage.KV
	Now         func() time.Time
	In          io.Reader
	Out         io.Writer

	storePath string
}

func NewContext(cfg *config.Config, loc *time.Location) *Context {
	return &Context{
		Config:      cfg,
		Location:    loc,
		Credentials: keyring.New(),
		Now:         time.Now,
		In:          os.Stdin,
		Out:         os.Stdout,
	}
}

// ResolveStore picks the backend. A connection string from the environment
// or the OS keyring is trusted as-is; a store given in config or on the
// command line must not carry a password.
func (c *Context) ResolveStore() (storage.KV, error) {
	c.storePath = ""
	if c.Config.DBConnection != "" {
		return storage.NewPostgresKV(c.Config.DBConnection), nil
	}

	target := strings.TrimSpace(c.Config.Store)
	if target == keyring.StoreTarget {
		connStr, err := c.Credentials.Get()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring, run '%s keyring set' first", constants.AppName)
			}
			return nil, err
		}
		return storage.NewPostgresKV(connStr), nil
	}

	if target != storage.MemoryTarget && !storage.IsPostgresTarget(target) {
		path, err := config.ExpandPath(target)
		if err != nil {
			return nil, err
		}
		target = path
		c.storePath = path
	}
	return storage.Open(target)
}

// OpenStore resolves and loads the store, creating it on first use.
func (c *Context) OpenStore() error {
	kv, err := c.ResolveStore()
	if err != nil {
		return err
	}

	err = kv.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		logger.Info("Initializing store on first use", "store", kv.Location())
		err = kv.Init()
	}
	if err != nil {
		kv.Close()
		return err
	}
	c.Store = kv
	return nil
}

func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func (c *Context) Events() *storage.EventStore {
	return storage.NewEventStore(c.Store)
}

func (c *Context) Reminders() *storage.ReminderStore {
	return storage.NewReminderStore(c.Store)
}

// Controller returns a calendar controller over the loaded event list.
// Unreadable stored events are reported and replaced by an empty list;
// any other read failure is returned so a write cannot clobber the store.
func (c *Context) Controller(ctx context.Context) (*calendar.Controller, error) {
	ctrl := calendar.NewController(c.Events(), c.Today())
	if err := ctrl.Load(ctx); err != nil {
		if !errors.Is(err, storage.ErrCorruptData) {
			ctrl.Close()
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "⚠️  Stored meals could not be read and were ignored: %v\n", err)
	}
	return ctrl, nil
}

func (c *Context) Today() time.Time {
	return c.Now().In(c.Location)
}

// ParseDate accepts YYYY-MM-DD or one of today, tomorrow, yesterday.
func (c *Context) ParseDate(s string) (time.Time, error) {
	today := utils.StartOfDay(c.Today())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := utils.ParseDateInLocation(strings.TrimSpace(s), c.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or 'today': %w", s, err)
	}
	return d, nil
}

// BackupManager returns a manager for the local store file.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if c.storePath == "" {
		return nil, ErrNoLocalStore
	}
	return backup.NewManager(c.storePath), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}
