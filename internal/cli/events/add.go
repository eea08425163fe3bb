package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/mealplan/internal/calendar"
	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

type EventAddCmd struct {
	Title       string `arg:"" help:"Meal title."`
	Start       string `help:"Start time (HH:MM)." required:""`
	End         string `help:"End time (HH:MM)." required:""`
	Date        string `help:"Date (YYYY-MM-DD, today, tomorrow)." default:"today"`
	Description string `help:"Notes, e.g. ingredients." short:"d"`
	RRule       string `name:"rrule" help:"Repeat with an RFC 5545 rule, e.g. FREQ=WEEKLY;BYDAY=MO,WE."`
	Count       int    `help:"Maximum number of occurrences for --rrule." default:"30"`
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}
	if err := checkTimes(c.Start, c.End); err != nil {
		return err
	}

	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.GoTo(date)
	ctrl.OpenCreate(nil)
	draft := models.Draft{
		Title:       c.Title,
		Description: c.Description,
		Date:        date,
		Start:       c.Start,
		End:         c.End,
	}

	var added []models.MealEvent
	if c.RRule != "" {
		added, err = ctrl.AddRecurring(draft, c.RRule, c.Count)
		if err != nil {
			return err
		}
	} else {
		e, ok := ctrl.AddEvent(draft)
		if !ok {
			return calendar.ErrIncomplete
		}
		added = []models.MealEvent{e}
	}

	if err := ctrl.Close(); err != nil {
		return fmt.Errorf("failed to save meals: %w", err)
	}

	for _, e := range added {
		ctx.Printf("✓ Added %s on %s %s-%s (%s)\n", e.Title, e.Date.Format(constants.DateFormat), e.Start, e.End, e.ID)
	}
	return nil
}

func checkTimes(times ...string) error {
	for _, t := range times {
		if t != "" && !utils.ValidateTimeFormat(t) {
			return fmt.Errorf("invalid time %q, use HH:MM", t)
		}
	}
	return nil
}

var errNotFound = errors.New("meal not found")
