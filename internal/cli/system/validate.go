package system

import (
	"context"
	"errors"

	"github.com/julianstephens/mealplan/internal/cli"
	"github.com/julianstephens/mealplan/internal/validation"
)

var ErrConflicts = errors.New("validation found conflicts")

type ValidateCmd struct {
	Date   string `arg:"" optional:"" help:"Only check this date (YYYY-MM-DD or 'today')."`
	Strict bool   `help:"Exit with an error when conflicts are found."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(context.Background())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	validator := validation.New()
	var result validation.ValidationResult
	if c.Date != "" {
		day, err := ctx.ParseDate(c.Date)
		if err != nil {
			return err
		}
		result = validator.ValidateEventsForDate(ctrl.Events(), &day)
	} else {
		result = validator.ValidateEvents(ctrl.Events())
	}

	ctx.Println(result.FormatReport())
	if c.Strict && result.HasConflicts() {
		return ErrConflicts
	}
	return nil
}
