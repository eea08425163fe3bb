// Package calendar holds the state behind the day calendar screen: the
// selected day, the in-memory event list and the create/edit form.
package calendar

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/mealplan/internal/layout"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/prefill"
	"github.com/julianstephens/mealplan/internal/utils"
)

// Mode is the modal state of the screen.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// Picker is the form field whose picker is open. Only one can be open at a
// time, and only while a form is open.
type Picker int

const (
	PickerNone Picker = iota
	PickerDate
	PickerStart
	PickerEnd
)

func (p Picker) String() string {
	switch p {
	case PickerDate:
		return "date"
	case PickerStart:
		return "start"
	case PickerEnd:
		return "end"
	default:
		return "none"
	}
}

// Store is the durable side of the event list.
type Store interface {
	Load(ctx context.Context) ([]models.MealEvent, error)
	Save(ctx context.Context, events []models.MealEvent) error
}

type Controller struct {
	store  Store
	writer *AsyncWriter
	newID  func() string

	events    []models.MealEvent
	day       time.Time
	mode      Mode
	picker    Picker
	draft     models.Draft
	editingID string
}

// NewController starts on the calendar day of today. Writes go through an
// AsyncWriter owned by the controller; call Close to flush it.
func NewController(store Store, today time.Time) *Controller {
	return &Controller{
		store:  store,
		writer: NewAsyncWriter(store.Save),
		newID:  newEventID,
		events: []models.MealEvent{},
		day:    utils.StartOfDay(today),
	}
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Load reads the event list from the store. Read problems leave the
// controller with an empty list; the error is returned for reporting.
func (c *Controller) Load(ctx context.Context) error {
	events, err := c.store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load events, starting empty", "error", err)
	}
	c.events = events
	if c.events == nil {
		c.events = []models.MealEvent{}
	}
	return err
}

// Flush waits for queued writes to reach the store.
func (c *Controller) Flush(ctx context.Context) error {
	return c.writer.Flush(ctx)
}

// Close flushes pending writes and stops the writer.
func (c *Controller) Close() error {
	return c.writer.Close()
}

// Navigate moves the selected day by one day. Directions other than -1
// and +1 are ignored.
func (c *Controller) Navigate(direction int) {
	if direction != -1 && direction != 1 {
		return
	}
	c.day = c.day.AddDate(0, 0, direction)
}

// GoTo selects the calendar day of t.
func (c *Controller) GoTo(t time.Time) {
	c.day = utils.StartOfDay(t)
}

// OpenCreate opens an empty create form dated on the selected day. It does
// nothing unless the screen is idle.
func (c *Controller) OpenCreate(p *prefill.Prefill) bool {
	if c.mode != ModeIdle {
		return false
	}
	c.mode = ModeCreating
	c.picker = PickerNone
	c.editingID = ""
	c.draft = models.Draft{Date: c.day}
	if p != nil {
		c.draft.Title = p.Title
		c.draft.Description = p.Description
	}
	return true
}

// AddEvent stores draft as a new event. An incomplete draft, or a call
// outside the create form, changes nothing.
func (c *Controller) AddEvent(draft models.Draft) (models.MealEvent, bool) {
	if c.mode != ModeCreating || !draft.Complete() {
		return models.MealEvent{}, false
	}

	e := c.newEvent(draft)
	c.events = append(slices.Clip(c.events), e)
	c.persist()
	c.reset()
	return e, true
}

func (c *Controller) newEvent(d models.Draft) models.MealEvent {
	date := d.Date
	if date.IsZero() {
		date = c.day
	}
	d.Date = utils.StartOfDay(date)
	return models.MealEvent{ID: c.newID()}.Apply(d)
}

// OpenEdit opens the edit form for the event with id. Unknown ids and calls
// while a form is open do nothing.
func (c *Controller) OpenEdit(id string) bool {
	if c.mode != ModeIdle {
		return false
	}
	e, ok := c.Event(id)
	if !ok {
		return false
	}
	c.mode = ModeEditing
	c.picker = PickerNone
	c.editingID = id
	c.draft = models.DraftFrom(e)
	return true
}

// SaveEdit replaces the event being edited with draft, keeping its id. If
// the event has disappeared in the meantime nothing is written and the
// form closes. An incomplete draft leaves the form open.
func (c *Controller) SaveEdit(draft models.Draft) bool {
	if c.mode != ModeEditing || !draft.Complete() {
		return false
	}

	idx := c.indexOf(c.editingID)
	if idx < 0 {
		c.reset()
		return false
	}

	updated := slices.Clone(c.events)
	if draft.Date.IsZero() {
		draft.Date = updated[idx].Date
	} else {
		draft.Date = utils.StartOfDay(draft.Date)
	}
	updated[idx] = updated[idx].Apply(draft)
	c.events = updated
	c.persist()
	c.reset()
	return true
}

// DeleteEvent removes the event with id and closes any open form.
func (c *Controller) DeleteEvent(id string) bool {
	idx := c.indexOf(id)
	if idx < 0 {
		c.reset()
		return false
	}
	c.events = slices.Delete(slices.Clone(c.events), idx, idx+1)
	c.persist()
	c.reset()
	return true
}

// Cancel closes any open form and discards the draft.
func (c *Controller) Cancel() {
	c.reset()
}

// FocusPicker opens the picker for one form field, closing any other.
// PickerNone closes the open picker.
func (c *Controller) FocusPicker(p Picker) bool {
	if c.mode == ModeIdle {
		return false
	}
	c.picker = p
	return true
}

// SetDraft replaces the form contents while a form is open.
func (c *Controller) SetDraft(d models.Draft) bool {
	if c.mode == ModeIdle {
		return false
	}
	c.draft = d
	return true
}

func (c *Controller) reset() {
	c.mode = ModeIdle
	c.picker = PickerNone
	c.draft = models.Draft{}
	c.editingID = ""
}

// persist hands the writer a snapshot it owns. The controller replaces
// c.events instead of mutating it in place, so the snapshot stays stable.
func (c *Controller) persist() {
	c.writer.Submit(slices.Clip(c.events))
}

func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.events, func(e models.MealEvent) bool { return e.ID == id })
}

func (c *Controller) SelectedDay() time.Time { return c.day }
func (c *Controller) Mode() Mode             { return c.mode }
func (c *Controller) Picker() Picker         { return c.picker }
func (c *Controller) Draft() models.Draft    { return c.draft }

// EditingID is the id of the event in the edit form, or "".
func (c *Controller) EditingID() string { return c.editingID }

// Events returns a copy of the full event list in store order.
func (c *Controller) Events() []models.MealEvent {
	return slices.Clone(c.events)
}

// DayEvents returns the events on the selected day in store order.
func (c *Controller) DayEvents() []models.MealEvent {
	var out []models.MealEvent
	for _, e := range c.events {
		if e.SameDay(c.day) {
			out = append(out, e)
		}
	}
	return out
}

// DayBlocks lays out the selected day's events on the timeline.
func (c *Controller) DayBlocks() []layout.Block {
	return layout.ForDay(c.events, c.day)
}

// Event looks up an event by id.
func (c *Controller) Event(id string) (models.MealEvent, bool) {
	if idx := c.indexOf(id); idx >= 0 {
		return c.events[idx], true
	}
	return models.MealEvent{}, false
}
