package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
)

func TestOccurrences(t *testing.T) {
	// 2025-06-02 is a Monday
	first := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rule     string
		limit    int
		wantDays []int
		wantErr  bool
	}{
		{"daily count", "FREQ=DAILY;COUNT=3", 0, []int{2, 3, 4}, false},
		{"weekly mon thu", "FREQ=WEEKLY;BYDAY=MO,TH;COUNT=4", 0, []int{2, 5, 9, 12}, false},
		{"prefixed rule", "RRULE:FREQ=DAILY;COUNT=2", 0, []int{2, 3}, false},
		{"limit caps open rule", "FREQ=DAILY", 5, []int{2, 3, 4, 5, 6}, false},
		{"garbage", "FREQ=SOMETIMES", 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Occurrences(tt.rule, first, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Occurrences() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(days) != len(tt.wantDays) {
				t.Fatalf("got %d days, want %d: %v", len(days), len(tt.wantDays), days)
			}
			for i, d := range days {
				if d.Month() != time.June || d.Day() != tt.wantDays[i] || d.Hour() != 0 {
					t.Errorf("day %d = %v, want June %d at midnight", i, d, tt.wantDays[i])
				}
			}
		})
	}
}

func TestOccurrencesOpenRuleIsBounded(t *testing.T) {
	days, err := Occurrences("FREQ=DAILY", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != constants.MaxRecurringOccurrences {
		t.Errorf("got %d days, want %d", len(days), constants.MaxRecurringOccurrences)
	}
}

func TestAddRecurring(t *testing.T) {
	c, store := newTestController(t)

	if _, err := c.AddRecurring(draft("Meal prep", "17:00", "18:00"), "FREQ=WEEKLY;COUNT=3", 0); !errors.Is(err, ErrNotCreating) {
		t.Errorf("expected ErrNotCreating, got %v", err)
	}

	c.OpenCreate(nil)
	if _, err := c.AddRecurring(draft("", "17:00", "18:00"), "FREQ=WEEKLY;COUNT=3", 0); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
	if _, err := c.AddRecurring(draft("Meal prep", "17:00", "18:00"), "nonsense", 0); err == nil {
		t.Error("expected rule error")
	}
	if c.Mode() != ModeCreating {
		t.Fatalf("form closed after failed recurring add")
	}

	added, err := c.AddRecurring(draft("Meal prep", "17:00", "18:00"), "FREQ=WEEKLY;COUNT=3", 0)
	if err != nil {
		t.Fatalf("AddRecurring failed: %v", err)
	}
	if len(added) != 3 {
		t.Fatalf("expected 3 events, got %d", len(added))
	}
	ids := map[string]bool{}
	for i, e := range added {
		want := time.Date(2025, 6, 2+7*i, 0, 0, 0, 0, time.UTC)
		if !e.Date.Equal(want) {
			t.Errorf("occurrence %d on %v, want %v", i, e.Date, want)
		}
		ids[e.ID] = true
	}
	if len(ids) != 3 {
		t.Error("occurrences share ids")
	}
	if c.Mode() != ModeIdle {
		t.Errorf("expected idle, got %s", c.Mode())
	}
	if stored := storedEvents(t, c, store); len(stored) != 3 {
		t.Errorf("expected 3 stored events, got %d", len(stored))
	}
}
