package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rdleal/intervalst/interval"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingTitle      ConflictType = "missing_title"
	ConflictInvalidTime       ConflictType = "invalid_time"
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictOvernightEvent    ConflictType = "overnight_event"
	ConflictOverlappingEvents ConflictType = "overlapping_events"
	ConflictDuplicateID       ConflictType = "duplicate_id"
)

// Conflict represents a problem found in the stored events
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Event titles involved
	TimeRange   string   // Human-readable time range (if applicable)
	EventIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var report strings.Builder
	report.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&report, "- %s\n", conflict.Description)
	}
	return report.String()
}

// Validator checks meal events for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEvents checks every event.
func (v *Validator) ValidateEvents(events []models.MealEvent) ValidationResult {
	return v.ValidateEventsForDate(events, nil)
}

// ValidateEventsForDate checks events, optionally scoped to one calendar day.
// If day is nil, all events are validated.
func (v *Validator) ValidateEventsForDate(events []models.MealEvent, day *time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	var scoped []models.MealEvent
	for _, e := range events {
		if day == nil || e.SameDay(*day) {
			scoped = append(scoped, e)
		}
	}

	// Duplicate ids, in order of first appearance
	idCount := make(map[string][]string)
	var idOrder []string
	for _, e := range scoped {
		if _, seen := idCount[e.ID]; !seen {
			idOrder = append(idOrder, e.ID)
		}
		idCount[e.ID] = append(idCount[e.ID], e.Title)
	}
	for _, id := range idOrder {
		titles := idCount[id]
		if len(titles) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Duplicate event id %q shared by %d events", id, len(titles)),
				Items:       titles,
				EventIDs:    []string{id},
			})
		}
	}

	for _, e := range scoped {
		date := formatDate(e.Date)

		if strings.TrimSpace(e.Title) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingTitle,
				Description: fmt.Sprintf("%s: Event %s has no title", date, e.ID),
				Date:        date,
				EventIDs:    []string{e.ID},
			})
		}

		if e.Date.IsZero() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Event \"%s\" has no date", e.Title),
				Items:       []string{e.Title},
				EventIDs:    []string{e.ID},
			})
		}

		startMin, startErr := utils.ParseTimeToMinutes(e.Start)
		if startErr != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("%s: Event \"%s\" has invalid start time: %q", date, e.Title, e.Start),
				Date:        date,
				Items:       []string{e.Title},
				EventIDs:    []string{e.ID},
			})
		}
		endMin, endErr := utils.ParseTimeToMinutes(e.End)
		if endErr != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTime,
				Description: fmt.Sprintf("%s: Event \"%s\" has invalid end time: %q", date, e.Title, e.End),
				Date:        date,
				Items:       []string{e.Title},
				EventIDs:    []string{e.ID},
			})
		}

		if startErr == nil && endErr == nil && endMin <= startMin {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOvernightEvent,
				Description: fmt.Sprintf("%s: Event \"%s\" ends (%s) at or before it starts (%s)", date, e.Title, e.End, e.Start),
				Date:        date,
				Items:       []string{e.Title},
				TimeRange:   fmt.Sprintf("%s-%s", e.Start, e.End),
				EventIDs:    []string{e.ID},
			})
		}
	}

	result.Conflicts = append(result.Conflicts, findOverlaps(scoped)...)
	return result
}

// findOverlaps reports every pair of events on the same day whose time
// ranges intersect. Ranges are half-open, so back-to-back meals do not
// conflict. Overnight and unparseable events are skipped.
func findOverlaps(events []models.MealEvent) []Conflict {
	byDay := make(map[string][]int)
	for i, e := range events {
		if e.Date.IsZero() {
			continue
		}
		key := formatDate(e.Date)
		byDay[key] = append(byDay[key], i)
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	var conflicts []Conflict
	for _, day := range days {
		// The tree stores closed intervals. Doubling the minute offsets turns
		// [start, end) into the closed [2*start, 2*end-1] without point intervals.
		tree := interval.NewSearchTree[int](func(x, y int) int { return x - y })

		for _, i := range byDay[day] {
			e := events[i]
			start, err1 := utils.ParseTimeToMinutes(e.Start)
			end, err2 := utils.ParseTimeToMinutes(e.End)
			if err1 != nil || err2 != nil || end <= start {
				continue
			}
			lo, hi := 2*start, 2*end-1

			if hits, ok := tree.AllIntersections(lo, hi); ok {
				sort.Ints(hits)
				for _, j := range hits {
					other := events[j]
					conflicts = append(conflicts, Conflict{
						Type: ConflictOverlappingEvents,
						Description: fmt.Sprintf("%s: Meals overlap: \"%s\" (%s-%s) and \"%s\" (%s-%s)",
							day, other.Title, other.Start, other.End, e.Title, e.Start, e.End),
						Date:      day,
						Items:     []string{other.Title, e.Title},
						TimeRange: overlapRange(other, e),
						EventIDs:  []string{other.ID, e.ID},
					})
				}
			}

			if err := tree.Insert(lo, hi, i); err != nil {
				logger.Warn("Skipping event in overlap check", "id", e.ID, "error", err)
			}
		}
	}
	return conflicts
}

func overlapRange(a, b models.MealEvent) string {
	as, _ := utils.ParseTimeToMinutes(a.Start)
	ae, _ := utils.ParseTimeToMinutes(a.End)
	bs, _ := utils.ParseTimeToMinutes(b.Start)
	be, _ := utils.ParseTimeToMinutes(b.End)
	return fmt.Sprintf("%s-%s", utils.FormatMinutes(max(as, bs)), utils.FormatMinutes(min(ae, be)))
}

func formatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}
