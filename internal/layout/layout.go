// Package layout positions meal events on a single-day timeline.
//
// The timeline is one unit per minute: an hour row is 60 units tall and the
// whole day spans 1440. Blocks are returned in store order and are never
// stacked horizontally, so overlapping events draw over each other.
package layout

import (
	"time"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/utils"
)

// Block is the vertical placement of one event on the day timeline.
type Block struct {
	Event  models.MealEvent
	Top    int
	Height int
}

// Bottom is the offset at which the block ends.
func (b Block) Bottom() int {
	return b.Top + b.Height
}

// Overnight reports whether the event ends at or before it starts. Such
// blocks keep their zero or negative height.
func (b Block) Overnight() bool {
	return b.Height <= 0
}

// MinutesOfDay converts an HH:MM string to minutes after midnight.
func MinutesOfDay(hhmm string) (int, error) {
	return utils.ParseTimeToMinutes(hhmm)
}

// Place computes the block for a single event regardless of its date.
// ok is false when start or end is not a valid HH:MM time.
func Place(e models.MealEvent) (Block, bool) {
	start, err := MinutesOfDay(e.Start)
	if err != nil {
		return Block{}, false
	}
	end, err := MinutesOfDay(e.End)
	if err != nil {
		return Block{}, false
	}
	return Block{Event: e, Top: start, Height: end - start}, true
}

// ForDay returns the blocks for the events that fall on day's calendar date.
// Events whose times cannot be parsed are left out.
func ForDay(events []models.MealEvent, day time.Time) []Block {
	blocks := make([]Block, 0, len(events))
	for _, e := range events {
		if !e.SameDay(day) {
			continue
		}
		if b, ok := Place(e); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Scale maps a block onto a grid with rowsPerHour rows per hour, as used by
// the terminal timeline. span is at least one row so that short and
// overnight events stay visible.
func Scale(b Block, rowsPerHour int) (row, span int) {
	if rowsPerHour <= 0 {
		rowsPerHour = 1
	}
	row = b.Top * rowsPerHour / constants.HourRowHeight
	if b.Height > 0 {
		span = (b.Height*rowsPerHour + constants.HourRowHeight - 1) / constants.HourRowHeight
	}
	if span < 1 {
		span = 1
	}
	return row, span
}

// TimelineHeight is the full height of a day at the given scale.
func TimelineHeight(rowsPerHour int) int {
	if rowsPerHour <= 0 {
		rowsPerHour = 1
	}
	return constants.MinutesPerDay * rowsPerHour / constants.HourRowHeight
}
