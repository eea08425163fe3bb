// Package ics converts meal events to and from iCalendar documents.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

const productID = "-//julianstephens//mealplan//EN"

// Export renders events as a VCALENDAR with one VEVENT per meal. Times are
// interpreted in loc. An event that ends at or before its start is assumed
// to finish on the following day. Events with unparseable times are skipped.
func Export(events []models.MealEvent, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, e := range events {
		start, end, err := eventSpan(e, loc)
		if err != nil {
			logger.Warn("Skipping event in export", "id", e.ID, "error", err)
			continue
		}

		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetProperty(ical.ComponentPropertySummary, e.Title)
		if e.Description != "" {
			ve.SetProperty(ical.ComponentPropertyDescription, e.Description)
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}

	return cal.Serialize()
}

func eventSpan(e models.MealEvent, loc *time.Location) (time.Time, time.Time, error) {
	start, err := utils.CombineDateAndTime(e.Date, e.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	end, err := utils.CombineDateAndTime(e.Date, e.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// Import reads the VEVENTs of an iCalendar document as meal events in loc.
// A VEVENT without a usable DTSTART is skipped; one without a UID gets a
// fresh id; one without DTEND ends when it starts.
func Import(r io.Reader, loc *time.Location) ([]models.MealEvent, error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := make([]models.MealEvent, 0)
	for _, ve := range cal.Events() {
		e, err := fromVEvent(ve, loc)
		if err != nil {
			logger.Warn("Skipping calendar entry", "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func fromVEvent(ve *ical.VEvent, loc *time.Location) (models.MealEvent, error) {
	var e models.MealEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		e.ID = p.Value
	} else {
		id, err := uuid.NewV7()
		if err != nil {
			return e, fmt.Errorf("failed to generate id: %w", err)
		}
		e.ID = id.String()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return e, fmt.Errorf("event %s: invalid DTSTART: %w", e.ID, err)
	}
	start = start.In(loc)

	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}
	end = end.In(loc)

	e.Date = utils.StartOfDay(start)
	e.Start = start.Format(constants.TimeFormat)
	e.End = end.Format(constants.TimeFormat)
	return e, nil
}
