package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
)

// EventStore persists the whole meal event list as one JSON array under a single key.
type EventStore struct {
	kv  KV
	key string
}

func NewEventStore(kv KV) *EventStore {
	return &EventStore{kv: kv, key: constants.EventsStorageKey}
}

// Load returns the stored events. It never fails hard: an absent key yields an
// empty list and no error, while read failures and undecodable data yield an
// empty list together with the cause so callers can log it.
func (s *EventStore) Load(ctx context.Context) ([]models.MealEvent, error) {
	raw, found, err := s.kv.GetItem(ctx, s.key)
	if err != nil {
		return []models.MealEvent{}, fmt.Errorf("failed to load events: %w", err)
	}
	if !found || raw == "" {
		return []models.MealEvent{}, nil
	}

	var events []models.MealEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return []models.MealEvent{}, fmt.Errorf("failed to decode events: %w: %v", ErrCorruptData, err)
	}
	if events == nil {
		events = []models.MealEvent{}
	}
	return events, nil
}

// Save replaces the stored list with events.
func (s *EventStore) Save(ctx context.Context, events []models.MealEvent) error {
	data, err := EncodeEvents(events)
	if err != nil {
		return err
	}
	if err := s.kv.SetItem(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}
	return nil
}

// EncodeEvents serializes events in list order. A nil list encodes as [].
func EncodeEvents(events []models.MealEvent) ([]byte, error) {
	if events == nil {
		events = []models.MealEvent{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize events: %w", err)
	}
	return data, nil
}
