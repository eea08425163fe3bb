package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/calendar"
	"github.com/julianstephens/mealplan/internal/prefill"
	"github.com/julianstephens/mealplan/internal/tui/components/eventlist"
	"github.com/julianstephens/mealplan/internal/tui/components/timeline"
	"github.com/julianstephens/mealplan/internal/validation"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateEditing
	StateConfirmDelete
)

// checkPrefillMsg asks the model to consume a pending prefill signal.
type checkPrefillMsg struct{}

type Options struct {
	RowsPerHour int
	Now         func() time.Time
}

type Model struct {
	ctrl                *calendar.Controller
	bridge              *prefill.Bridge
	state               SessionState
	keys                KeyMap
	help                help.Model
	eventList           eventlist.Model
	timeline            timeline.Model
	form                *huh.Form
	eventForm           *EventFormModel
	now                 func() time.Time
	deleteID            string
	formError           string
	validationWarning   string
	validationConflicts []validation.Conflict
	quitting            bool
	width               int
	height              int
}

// NewModel builds the calendar screen over a loaded controller. A pending
// prefill in bridge opens the create form once the program starts.
func NewModel(ctrl *calendar.Controller, bridge *prefill.Bridge, opts Options) Model {
	if bridge == nil {
		bridge = prefill.NewBridge()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		ctrl:      ctrl,
		bridge:    bridge,
		state:     StateCalendar,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		eventList: eventlist.New(nil, 0, 0),
		timeline:  timeline.New(0, 0, opts.RowsPerHour),
		now:       opts.Now,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return []key.Binding{m.keys.Yes, m.keys.No}
	case StateEditing:
		return []key.Binding{m.keys.Cancel}
	}
	return []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != StateCalendar {
		return [][]key.Binding{m.ShortHelp()}
	}
	return [][]key.Binding{
		{m.keys.PrevDay, m.keys.NextDay, m.keys.Today},
		{m.keys.Up, m.keys.Down},
		{m.keys.Add, m.keys.Edit, m.keys.Delete},
		{m.keys.Quit, m.keys.Help},
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return checkPrefillMsg{} }
}

// refresh reloads the list and timeline from the controller's selected day.
func (m *Model) refresh() {
	m.eventList.SetEvents(m.ctrl.DayEvents())
	selected, _ := m.eventList.Selected()
	m.timeline.SetBlocks(m.ctrl.DayBlocks(), selected)
	m.updateValidationStatus()
}

// updateValidationStatus reports conflicts on the selected day.
func (m *Model) updateValidationStatus() {
	day := m.ctrl.SelectedDay()
	result := validation.New().ValidateEventsForDate(m.ctrl.Events(), &day)
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

// State reports which screen is showing.
func (m Model) State() SessionState {
	return m.state
}
