package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// ReminderStore persists daily meal reminders as one JSON array.
type ReminderStore struct {
	kv  KV
	key string
}

func NewReminderStore(kv KV) *ReminderStore {
	return &ReminderStore{kv: kv, key: constants.RemindersStorageKey}
}

// List returns the saved reminders; like EventStore.Load it degrades to an empty list.
func (s *ReminderStore) List(ctx context.Context) ([]models.MealReminder, error) {
	raw, found, err := s.kv.GetItem(ctx, s.key)
	if err != nil {
		return []models.MealReminder{}, fmt.Errorf("failed to load reminders: %w", err)
	}
	if !found || raw == "" {
		return []models.MealReminder{}, nil
	}

	var reminders []models.MealReminder
	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		return []models.MealReminder{}, fmt.Errorf("failed to decode reminders: %w: %v", ErrCorruptData, err)
	}
	if reminders == nil {
		reminders = []models.MealReminder{}
	}
	return reminders, nil
}

// Set adds a reminder for meal or moves the existing one to t.
func (s *ReminderStore) Set(ctx context.Context, meal string, t models.MealTime) error {
	if meal == "" {
		return fmt.Errorf("meal name cannot be empty")
	}
	if !t.Valid() {
		return fmt.Errorf("invalid reminder time %s", t)
	}

	reminders, err := s.List(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range reminders {
		if reminders[i].Meal == meal {
			reminders[i].Time = t
			replaced = true
		}
	}
	if !replaced {
		reminders = append(reminders, models.MealReminder{Meal: meal, Time: t})
	}
	return s.write(ctx, reminders)
}

// Delete removes the reminder for meal and returns what remains. The key is
// dropped entirely once no reminders are left.
func (s *ReminderStore) Delete(ctx context.Context, meal string) ([]models.MealReminder, error) {
	reminders, err := s.List(ctx)
	if err != nil {
		return reminders, err
	}

	kept := make([]models.MealReminder, 0, len(reminders))
	for _, r := range reminders {
		if r.Meal != meal {
			kept = append(kept, r)
		}
	}

	if len(kept) == 0 {
		if err := s.kv.RemoveItem(ctx, s.key); err != nil {
			return kept, fmt.Errorf("failed to remove reminders: %w", err)
		}
		return kept, nil
	}
	return kept, s.write(ctx, kept)
}

func (s *ReminderStore) write(ctx context.Context, reminders []models.MealReminder) error {
	data, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("failed to serialize reminders: %w", err)
	}
	if err := s.kv.SetItem(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save reminders: %w", err)
	}
	return nil
}
