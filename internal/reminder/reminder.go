// Package reminder fires a notification every day at each saved meal time.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
)

// Notifier delivers a reminder text to the user.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler keeps one daily cron entry per reminder.
type Scheduler struct {
	cron     *cron.Cron
	notifier Notifier

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(n Notifier, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		notifier: n,
		entries:  make(map[string]cron.EntryID),
	}
}

// Spec is the standard five-field cron expression for a daily meal time.
func Spec(t models.MealTime) string {
	return fmt.Sprintf("%d %d * * *", t.Minute, t.Hour)
}

// Label capitalises a meal name for display.
func Label(meal string) string {
	r, size := utf8.DecodeRuneInString(meal)
	if r == utf8.RuneError {
		return meal
	}
	return string(unicode.ToUpper(r)) + meal[size:]
}

// Message is the notification text for a reminder.
func Message(r models.MealReminder) string {
	return fmt.Sprintf("%s time (%s)", Label(strings.TrimSpace(r.Meal)), r.Time)
}

// Reload replaces every scheduled entry with one per reminder. Reminders
// with an invalid time are skipped and reported in the returned error.
func (s *Scheduler) Reload(reminders []models.MealReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for meal, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, meal)
	}

	var skipped []string
	for _, r := range reminders {
		if !r.Time.Valid() {
			skipped = append(skipped, r.Meal)
			continue
		}
		if prev, ok := s.entries[r.Meal]; ok {
			s.cron.Remove(prev)
		}
		reminder := r
		id, err := s.cron.AddFunc(Spec(r.Time), func() { s.fire(reminder) })
		if err != nil {
			skipped = append(skipped, r.Meal)
			logger.Warn("Failed to schedule reminder", "meal", r.Meal, "error", err)
			continue
		}
		s.entries[r.Meal] = id
	}

	logger.Info("Reminders scheduled", "count", len(s.entries))
	if len(skipped) > 0 {
		return fmt.Errorf("skipped reminders with invalid times: %s", strings.Join(skipped, ", "))
	}
	return nil
}

func (s *Scheduler) fire(r models.MealReminder) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, Message(r)); err != nil {
		logger.Warn("Failed to deliver reminder", "meal", r.Meal, "error", err)
	}
}

// Next returns the next firing time of each scheduled meal after t.
func (s *Scheduler) Next(t time.Time) map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.entries))
	for meal, id := range s.entries {
		entry := s.cron.Entry(id)
		if entry.Schedule != nil {
			out[meal] = entry.Schedule.Next(t)
		}
	}
	return out
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running notifications to finish
// or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
