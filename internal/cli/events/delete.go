package events

import (
	"context"
	"fmt"

	"github.com/julianstephens/mealplan/internal/cli"
)

type EventDeleteCmd struct {
	ID string `arg:"" help:"ID of the meal to delete."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	e, ok := ctrl.Event(c.ID)
	if !ok || !ctrl.DeleteEvent(c.ID) {
		return fmt.Errorf("%w: %s", errNotFound, c.ID)
	}
	if err := ctrl.Close(); err != nil {
		return fmt.Errorf("failed to save meals: %w", err)
	}

	ctx.Printf("✓ Deleted %s (%s)\n", e.Title, e.ID)
	return nil
}
