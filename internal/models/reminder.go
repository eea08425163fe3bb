package models

import "fmt"

// MealTime is a time of day for a meal reminder.
type MealTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t MealTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Valid reports whether the time is a real time of day.
func (t MealTime) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// MealReminder is a daily notification for a named meal (breakfast, lunch, ...).
type MealReminder struct {
	Meal string   `json:"meal"`
	Time MealTime `json:"time"`
}
