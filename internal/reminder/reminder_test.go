package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/mealplan/internal/models"
)

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func TestSpec(t *testing.T) {
	tests := []struct {
		time models.MealTime
		want string
	}{
		{models.MealTime{Hour: 7, Minute: 30}, "30 7 * * *"},
		{models.MealTime{Hour: 0, Minute: 0}, "0 0 * * *"},
		{models.MealTime{Hour: 23, Minute: 5}, "5 23 * * *"},
	}
	for _, tt := range tests {
		if got := Spec(tt.time); got != tt.want {
			t.Errorf("Spec(%v) = %q, want %q", tt.time, got, tt.want)
		}
	}
}

func TestMessage(t *testing.T) {
	got := Message(models.MealReminder{Meal: "breakfast", Time: models.MealTime{Hour: 8, Minute: 5}})
	if got != "Breakfast time (08:05)" {
		t.Errorf("Message() = %q", got)
	}
	if Label("") != "" {
		t.Error("Label of empty string should be empty")
	}
}

func TestReloadSchedulesDailyEntries(t *testing.T) {
	s := NewScheduler(&fakeNotifier{}, time.UTC)

	err := s.Reload([]models.MealReminder{
		{Meal: "breakfast", Time: models.MealTime{Hour: 7, Minute: 30}},
		{Meal: "dinner", Time: models.MealTime{Hour: 18}},
	})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	from := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	next := s.Next(from)
	if len(next) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(next))
	}
	if want := time.Date(2025, 6, 3, 7, 30, 0, 0, time.UTC); !next["breakfast"].Equal(want) {
		t.Errorf("breakfast next = %v, want %v", next["breakfast"], want)
	}
	if want := time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC); !next["dinner"].Equal(want) {
		t.Errorf("dinner next = %v, want %v", next["dinner"], want)
	}
}

func TestReloadReplacesEntries(t *testing.T) {
	s := NewScheduler(&fakeNotifier{}, time.UTC)

	s.Reload([]models.MealReminder{
		{Meal: "lunch", Time: models.MealTime{Hour: 12}},
		{Meal: "snack", Time: models.MealTime{Hour: 15}},
	})
	s.Reload([]models.MealReminder{
		{Meal: "lunch", Time: models.MealTime{Hour: 13}},
	})

	next := s.Next(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	if len(next) != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", len(next))
	}
	if next["lunch"].Hour() != 13 {
		t.Errorf("lunch not rescheduled: %v", next["lunch"])
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("cron still holds %d entries", n)
	}
}

func TestReloadSkipsInvalidTimes(t *testing.T) {
	s := NewScheduler(&fakeNotifier{}, time.UTC)

	err := s.Reload([]models.MealReminder{
		{Meal: "brunch", Time: models.MealTime{Hour: 25}},
		{Meal: "tea", Time: models.MealTime{Hour: 16}},
	})
	if err == nil {
		t.Error("expected error naming skipped reminder")
	}
	if next := s.Next(time.Now()); len(next) != 1 {
		t.Errorf("expected only the valid reminder, got %v", next)
	}
}

func TestFireNotifies(t *testing.T) {
	n := &fakeNotifier{}
	s := NewScheduler(n, time.UTC)

	s.fire(models.MealReminder{Meal: "lunch", Time: models.MealTime{Hour: 12, Minute: 15}})
	if len(n.texts) != 1 || n.texts[0] != "Lunch time (12:15)" {
		t.Errorf("unexpected notifications: %v", n.texts)
	}

	// Delivery failures are logged, not propagated
	n.err = errors.New("tray offline")
	s.fire(models.MealReminder{Meal: "dinner", Time: models.MealTime{Hour: 18}})
	if len(n.texts) != 2 {
		t.Errorf("expected a second attempt, got %v", n.texts)
	}
}

func TestScheduledJobRunsNotifier(t *testing.T) {
	n := &fakeNotifier{}
	s := NewScheduler(n, time.UTC)
	s.Reload([]models.MealReminder{{Meal: "supper", Time: models.MealTime{Hour: 19}}})

	for _, entry := range s.cron.Entries() {
		entry.Job.Run()
	}
	if len(n.texts) != 1 || n.texts[0] != "Supper time (19:00)" {
		t.Errorf("unexpected notifications: %v", n.texts)
	}
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&fakeNotifier{}, time.UTC)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
