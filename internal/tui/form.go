package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

// EventFormModel backs the huh create/edit form. Date and times are kept
// as text so the inputs can be edited freely.
type EventFormModel struct {
	Title       string
	Description string
	Date        string
	Start       string
	End         string
}

func newEventFormModel(d models.Draft) *EventFormModel {
	fm := &EventFormModel{
		Title:       d.Title,
		Description: d.Description,
		Start:       d.Start,
		End:         d.End,
	}
	if !d.Date.IsZero() {
		fm.Date = d.Date.Format(constants.DateFormat)
	}
	return fm
}

// Draft converts the form back into a controller draft.
func (fm *EventFormModel) Draft(loc *time.Location) (models.Draft, error) {
	date, err := utils.ParseDateInLocation(strings.TrimSpace(fm.Date), loc)
	if err != nil {
		return models.Draft{}, err
	}
	return models.Draft{
		Title:       strings.TrimSpace(fm.Title),
		Description: fm.Description,
		Date:        date,
		Start:       strings.TrimSpace(fm.Start),
		End:         strings.TrimSpace(fm.End),
	}, nil
}

func validateTime(s string) error {
	if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

// NewEventForm builds the create/edit form over fm.
func NewEventForm(fm *EventFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Meal name").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Notes").
				Value(&fm.Description),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.Start).
				Validate(validateTime),
			huh.NewInput().
				Title("End (HH:MM)").
				Value(&fm.End).
				Validate(validateTime),
		),
	).WithTheme(huh.ThemeDracula())
}
