package system

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/storage"
)

type DebugStorePathCmd struct{}

func (c *DebugStorePathCmd) Run(ctx *cli.Context) error {
	kv, err := ctx.ResolveStore()
	if err != nil {
		return err
	}
	ctx.Println(kv.Location())
	return nil
}

// DebugDumpEventsCmd prints the stored events exactly as they are encoded.
type DebugDumpEventsCmd struct {
	Date string `arg:"" optional:"" help:"Only dump meals on this date (YYYY-MM-DD or 'today')."`
}

func (c *DebugDumpEventsCmd) Run(ctx *cli.Context) error {
	events, err := ctx.Events().Load(context.Background())
	if err != nil {
		return err
	}

	if c.Date != "" {
		day, err := ctx.ParseDate(c.Date)
		if err != nil {
			return err
		}
		key := day.Format(constants.DateFormat)
		filtered := []models.MealEvent{}
		for _, e := range events {
			if e.Date.Format(constants.DateFormat) == key {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no meals found for date: %s", key)
		}
		events = filtered
	}

	data, err := storage.EncodeEvents(events)
	if err != nil {
		return err
	}
	ctx.Println(string(data))
	return nil
}

type DebugDumpRemindersCmd struct{}

func (c *DebugDumpRemindersCmd) Run(ctx *cli.Context) error {
	reminders, err := ctx.Reminders().List(context.Background())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reminders: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
