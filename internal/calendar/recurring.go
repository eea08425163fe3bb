package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

var (
	ErrNotCreating   = errors.New("create form is not open")
	ErrIncomplete    = errors.New("title, start and end are required")
	ErrNoOccurrences = errors.New("recurrence rule produced no occurrences")
)

// Occurrences expands an RRULE (e.g. "FREQ=WEEKLY;BYDAY=MO,TH") starting on
// the calendar day of first. At most limit days are returned, and never more
// than a year's worth.
func Occurrences(rule string, first time.Time, limit int) ([]time.Time, error) {
	if limit <= 0 || limit > constants.MaxRecurringOccurrences {
		limit = constants.MaxRecurringOccurrences
	}

	r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule %q: %w", rule, err)
	}

	start := utils.StartOfDay(first)
	r.DTStart(start)

	days := r.Between(start, start.AddDate(0, 0, constants.MaxRecurringOccurrences), true)
	if len(days) > limit {
		days = days[:limit]
	}
	for i, d := range days {
		days[i] = utils.StartOfDay(d)
	}
	return days, nil
}

// AddRecurring stores one event per occurrence of rule, starting on the
// draft's date. Like AddEvent it only works from the create form; a bad
// rule leaves the form open.
func (c *Controller) AddRecurring(draft models.Draft, rule string, limit int) ([]models.MealEvent, error) {
	if c.mode != ModeCreating {
		return nil, ErrNotCreating
	}
	if !draft.Complete() {
		return nil, ErrIncomplete
	}

	first := draft.Date
	if first.IsZero() {
		first = c.day
	}
	days, err := Occurrences(rule, first, limit)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrNoOccurrences
	}

	added := make([]models.MealEvent, 0, len(days))
	for _, day := range days {
		d := draft
		d.Date = day
		added = append(added, c.newEvent(d))
	}

	c.events = append(slices.Clip(c.events), added...)
	c.persist()
	c.reset()
	return added, nil
}
