package events

import (
	"context"
	"slices"
	"time"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/layout"
	"github.com/julianstephens/mealplan/internal/models"
)

type EventListCmd struct {
	From string `help:"First date to include (YYYY-MM-DD, today)."`
	To   string `help:"Last date to include (YYYY-MM-DD, today)."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	var from, to time.Time
	var err error
	if c.From != "" {
		if from, err = ctx.ParseDate(c.From); err != nil {
			return err
		}
	}
	if c.To != "" {
		if to, err = ctx.ParseDate(c.To); err != nil {
			return err
		}
	}

	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	var events []models.MealEvent
	for _, e := range ctrl.Events() {
		day := dayKey(e.Date)
		if !from.IsZero() && day < dayKey(from) {
			continue
		}
		if !to.IsZero() && day > dayKey(to) {
			continue
		}
		events = append(events, e)
	}

	if len(events) == 0 {
		ctx.Println("No meals found.")
		return nil
	}

	sortByTime(events)
	for _, e := range events {
		ctx.Printf("%s  %s-%s  %-30s  %s\n", e.Date.Format(constants.DateFormat), e.Start, e.End, e.Title, e.ID)
	}
	return nil
}

func dayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// sortByTime orders events by day, then start time. Events whose start
// cannot be parsed go last within their day.
func sortByTime(events []models.MealEvent) {
	slices.SortStableFunc(events, func(a, b models.MealEvent) int {
		if da, db := dayKey(a.Date), dayKey(b.Date); da != db {
			if da < db {
				return -1
			}
			return 1
		}
		return startMinute(a) - startMinute(b)
	})
}

func startMinute(e models.MealEvent) int {
	m, err := layout.MinutesOfDay(e.Start)
	if err != nil {
		return constants.MinutesPerDay
	}
	return m
}
