package models

import (
	"strings"
	"time"
)

// MealEvent is a single scheduled meal on the calendar.
type MealEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`  // only the calendar day is meaningful
	Start       string    `json:"start"` // HH:MM format
	End         string    `json:"end"`   // HH:MM format
}

// Draft holds the editable fields of the create/edit form.
type Draft struct {
	Title       string
	Description string
	Date        time.Time
	Start       string
	End         string
}

// Complete reports whether the draft carries the fields required to save.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.Title) != "" && d.Start != "" && d.End != ""
}

// DraftFrom loads an event's fields into a draft.
func DraftFrom(e MealEvent) Draft {
	return Draft{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Start:       e.Start,
		End:         e.End,
	}
}

// Apply returns a copy of e with every field except the ID replaced from d.
func (e MealEvent) Apply(d Draft) MealEvent {
	return MealEvent{
		ID:          e.ID,
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Start:       d.Start,
		End:         d.End,
	}
}

// SameDay reports whether the event falls on the calendar day of t, read
// in t's location. Stored dates written as UTC instants (for example
// 2024-05-01T22:30:00Z) therefore land on the viewer's local day.
func (e MealEvent) SameDay(t time.Time) bool {
	ey, em, ed := e.Date.In(t.Location()).Date()
	ty, tm, td := t.Date()
	return ey == ty && em == tm && ed == td
}
