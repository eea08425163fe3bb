package events

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/ics"
	"github.com/julianstephens/mealplan/internal/models"
)

type ExportCmd struct {
	Out string `help:"Write the calendar to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	data := ics.Export(ctrl.Events(), ctx.Location)
	if c.Out == "" {
		ctx.Printf("%s", data)
		return nil
	}
	if err := os.WriteFile(c.Out, []byte(data), 0o600); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	ctx.Printf("✓ Exported %d meals to %s\n", len(ctrl.Events()), c.Out)
	return nil
}

// ImportCmd adds the VEVENTs of an iCalendar file as meals under fresh ids.
// Events whose UID is already stored, or that repeat a stored meal exactly,
// are skipped.
type ImportCmd struct {
	File string `arg:"" help:"iCalendar (.ics) file to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	imported, err := ics.Import(f, ctx.Location)
	if err != nil {
		return err
	}

	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	added, skipped := 0, 0
	for _, e := range imported {
		if _, exists := ctrl.Event(e.ID); exists || containsMeal(ctrl.Events(), e) {
			skipped++
			continue
		}
		ctrl.OpenCreate(nil)
		if _, ok := ctrl.AddEvent(models.DraftFrom(e)); !ok {
			ctrl.Cancel()
			skipped++
			continue
		}
		added++
	}

	if err := ctrl.Close(); err != nil {
		return fmt.Errorf("failed to save meals: %w", err)
	}
	ctx.Printf("✓ Imported %d meals (%d skipped)\n", added, skipped)
	return nil
}

func containsMeal(events []models.MealEvent, m models.MealEvent) bool {
	for _, e := range events {
		if e.SameDay(m.Date) && e.Title == m.Title && e.Start == m.Start && e.End == m.End {
			return true
		}
	}
	return false
}
