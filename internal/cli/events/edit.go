package events

import (
	"context"
	"fmt"

	"github.com/julianstephens/mealplan/internal/calendar"
	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
)

// EventEditCmd changes the given fields of one meal and keeps the rest.
type EventEditCmd struct {
	ID          string  `arg:"" help:"ID of the meal to edit."`
	Title       *string `help:"New title."`
	Description *string `help:"New notes." short:"d"`
	Date        *string `help:"New date (YYYY-MM-DD, today, tomorrow)."`
	Start       *string `help:"New start time (HH:MM)."`
	End         *string `help:"New end time (HH:MM)."`
}

func (c *EventEditCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if !ctrl.OpenEdit(c.ID) {
		return fmt.Errorf("%w: %s", errNotFound, c.ID)
	}

	d := ctrl.Draft()
	if c.Title != nil {
		d.Title = *c.Title
	}
	if c.Description != nil {
		d.Description = *c.Description
	}
	if c.Date != nil {
		date, err := ctx.ParseDate(*c.Date)
		if err != nil {
			return err
		}
		d.Date = date
	}
	if c.Start != nil {
		d.Start = *c.Start
	}
	if c.End != nil {
		d.End = *c.End
	}
	if err := checkTimes(d.Start, d.End); err != nil {
		return err
	}

	if !ctrl.SaveEdit(d) {
		return calendar.ErrIncomplete
	}
	if err := ctrl.Close(); err != nil {
		return fmt.Errorf("failed to save meals: %w", err)
	}

	e, _ := ctrl.Event(c.ID)
	ctx.Printf("✓ Updated %s on %s %s-%s\n", e.Title, e.Date.Format(constants.DateFormat), e.Start, e.End)
	return nil
}
