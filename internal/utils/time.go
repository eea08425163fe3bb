package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ErrTimeFormat is returned for times not written as two-digit HH:MM.
var ErrTimeFormat = errors.New("time must be HH:MM")

// ParseTime parses a time string in the standard format (HH:MM). Both
// fields must be two digits; time.Parse alone accepts "9:00".
func ParseTime(timeStr string) (time.Time, error) {
	if len(timeStr) != len(constants.TimeFormat) || timeStr[2] != ':' {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, timeStr)
	}
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders a minute-of-day offset as HH:MM. Values outside a
// single day wrap around midnight.
func FormatMinutes(minutes int) string {
	minutes %= constants.MinutesPerDay
	if minutes < 0 {
		minutes += constants.MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	// Return the date at midnight in the specified timezone
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay truncates t to midnight of its calendar day, keeping its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CombineDateAndTime places an HH:MM time of day on the calendar day of
// date as seen in loc.
func CombineDateAndTime(date time.Time, timeStr string, loc *time.Location) (time.Time, error) {
	timeOfDay, err := ParseTime(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	if loc == nil {
		loc = date.Location()
	}
	date = date.In(loc)

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		loc,
	), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
