package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
)

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func meal(id, title, start, end string) models.MealEvent {
	return models.MealEvent{ID: id, Title: title, Date: day, Start: start, End: end}
}

func TestValidateEvents_Clean(t *testing.T) {
	validator := New()

	events := []models.MealEvent{
		meal("1", "Breakfast", "08:00", "08:30"),
		meal("2", "Lunch", "12:00", "13:00"),
		// Back-to-back is fine
		meal("3", "Dessert", "13:00", "13:15"),
	}

	result := validator.ValidateEvents(events)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("unexpected report: %q", result.FormatReport())
	}
}

func TestValidateEvents_ConflictTypes(t *testing.T) {
	tests := []struct {
		name   string
		events []models.MealEvent
		want   ConflictType
		count  int
	}{
		{
			name:   "missing title",
			events: []models.MealEvent{meal("1", "  ", "08:00", "09:00")},
			want:   ConflictMissingTitle,
			count:  1,
		},
		{
			name:   "invalid start and end",
			events: []models.MealEvent{meal("1", "Brunch", "25:00", "12:70")},
			want:   ConflictInvalidTime,
			count:  2,
		},
		{
			name:   "missing date",
			events: []models.MealEvent{{ID: "1", Title: "Snack", Start: "10:00", End: "10:15"}},
			want:   ConflictInvalidDate,
			count:  1,
		},
		{
			name:   "end before start",
			events: []models.MealEvent{meal("1", "Midnight snack", "23:30", "00:15")},
			want:   ConflictOvernightEvent,
			count:  1,
		},
		{
			name:   "zero length",
			events: []models.MealEvent{meal("1", "Espresso", "09:00", "09:00")},
			want:   ConflictOvernightEvent,
			count:  1,
		},
		{
			name: "duplicate id",
			events: []models.MealEvent{
				meal("dup", "Tea", "16:00", "16:15"),
				meal("dup", "Scones", "18:00", "18:15"),
			},
			want:  ConflictDuplicateID,
			count: 1,
		},
		{
			name: "overlap",
			events: []models.MealEvent{
				meal("1", "Lunch", "12:00", "13:00"),
				meal("2", "Call with chef", "12:59", "13:30"),
			},
			want:  ConflictOverlappingEvents,
			count: 1,
		},
		{
			name: "three-way overlap",
			events: []models.MealEvent{
				meal("1", "A", "18:00", "20:00"),
				meal("2", "B", "18:30", "19:00"),
				meal("3", "C", "18:45", "19:30"),
			},
			want:  ConflictOverlappingEvents,
			count: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateEvents(tt.events)
			if got := result.Count(tt.want); got != tt.count {
				t.Errorf("Count(%s) = %d, want %d\n%s", tt.want, got, tt.count, result.FormatReport())
			}
		})
	}
}

func TestValidateEvents_OverlapOnlySameDay(t *testing.T) {
	events := []models.MealEvent{
		meal("1", "Dinner", "19:00", "20:00"),
		{ID: "2", Title: "Dinner tomorrow", Date: day.AddDate(0, 0, 1), Start: "19:00", End: "20:00"},
	}

	result := New().ValidateEvents(events)
	if result.Count(ConflictOverlappingEvents) != 0 {
		t.Errorf("events on different days reported as overlapping:\n%s", result.FormatReport())
	}
}

func TestValidateEvents_OverlapDetails(t *testing.T) {
	events := []models.MealEvent{
		meal("a", "Lunch", "12:00", "13:00"),
		meal("b", "Coffee", "12:30", "13:30"),
	}

	result := New().ValidateEvents(events)
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected one conflict, got:\n%s", result.FormatReport())
	}
	c := result.Conflicts[0]
	if c.TimeRange != "12:30-13:00" {
		t.Errorf("TimeRange = %q, want 12:30-13:00", c.TimeRange)
	}
	if len(c.EventIDs) != 2 || c.EventIDs[0] != "a" || c.EventIDs[1] != "b" {
		t.Errorf("EventIDs = %v", c.EventIDs)
	}
	if c.Date != "2025-06-02" {
		t.Errorf("Date = %q", c.Date)
	}
	if !strings.Contains(result.FormatReport(), "Meals overlap") {
		t.Errorf("report missing overlap line:\n%s", result.FormatReport())
	}
}

func TestValidateEventsForDate(t *testing.T) {
	other := day.AddDate(0, 0, 2)
	events := []models.MealEvent{
		meal("1", "", "08:00", "09:00"),
		{ID: "2", Title: "", Date: other, Start: "08:00", End: "09:00"},
	}

	result := New().ValidateEventsForDate(events, &other)
	if len(result.Conflicts) != 1 || result.Conflicts[0].EventIDs[0] != "2" {
		t.Errorf("expected only the scoped event, got:\n%s", result.FormatReport())
	}
}
