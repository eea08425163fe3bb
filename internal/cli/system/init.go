package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete an existing local store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	kv, err := ctx.ResolveStore()
	if err != nil {
		return err
	}

	if c.Force {
		mgr, err := ctx.BackupManager()
		if err != nil {
			return fmt.Errorf("--force: %w", err)
		}
		path := mgr.StorePath()
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := kv.Init(); err != nil {
		if errors.Is(err, storage.ErrAlreadyInitialized) {
			ctx.Printf("Storage already initialized at: %s\n", kv.Location())
			return nil
		}
		return err
	}
	defer kv.Close()

	ctx.Printf("Initialized mealplan storage at: %s\n", kv.Location())
	return nil
}
