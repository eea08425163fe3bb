package events

import (
	"context"
	"fmt"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/layout"
)

type DayCmd struct {
	Date        string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
	RowsPerHour int    `help:"Timeline rows per hour; 0 lists meals only." default:"0"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ParseDate(c.Date)
	if err != nil {
		return err
	}

	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()
	ctrl.GoTo(date)

	ctx.Printf("Meals for %s:\n\n", date.Format("Monday, 2006-01-02"))

	blocks := ctrl.DayBlocks()
	if len(blocks) == 0 {
		ctx.Println("  No meals planned")
		return nil
	}

	for _, b := range blocks {
		line := fmt.Sprintf("  %s-%s  %-30s", b.Event.Start, b.Event.End, b.Event.Title)
		if b.Overnight() {
			line += "  (ends next day)"
		}
		if c.RowsPerHour > 0 {
			row, span := layout.Scale(b, c.RowsPerHour)
			line += fmt.Sprintf("  [row %d, %d rows]", row, span)
		}
		ctx.Println(line)
		if b.Event.Description != "" {
			ctx.Printf("              %s\n", b.Event.Description)
		}
	}

	if skipped := len(ctrl.DayEvents()) - len(blocks); skipped > 0 {
		ctx.Printf("\n  %d meal(s) with invalid times not shown, run 'validate'\n", skipped)
	}
	return nil
}
