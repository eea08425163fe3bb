package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mealplan/internal/calendar"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/prefill"
	"github.com/julianstephens/mealplan/internal/tui/components/eventlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case checkPrefillMsg:
		if prefill.Apply(m.ctrl, m.bridge) {
			return m, m.startForm()
		}
		return m, nil
	}

	switch m.state {
	case StateEditing:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m.updateCalendar(msg)
}

func (m Model) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventlist.AddEventMsg:
		if m.ctrl.OpenCreate(nil) {
			return m, m.startForm()
		}
		return m, nil

	case eventlist.EditEventMsg:
		if m.ctrl.OpenEdit(msg.ID) {
			return m, m.startForm()
		}
		return m, nil

	case eventlist.DeleteEventMsg:
		m.deleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case eventlist.SelectionMsg:
		m.timeline.Select(msg.ID)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.ctrl.Navigate(-1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.ctrl.Navigate(1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.ctrl.GoTo(m.now())
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.eventList, cmd = m.eventList.Update(msg)
	return m, cmd
}

// startForm shows the huh form for the controller's open draft.
func (m *Model) startForm() tea.Cmd {
	m.formError = ""
	return m.showForm(newEventFormModel(m.ctrl.Draft()))
}

func (m *Model) showForm(fm *EventFormModel) tea.Cmd {
	title := "New meal"
	if m.ctrl.Mode() == calendar.ModeEditing {
		title = "Edit meal"
	}
	m.eventForm = fm
	m.form = NewEventForm(fm, title)
	m.state = StateEditing
	return m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, m.submitForm()
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

// submitForm hands the completed form to the controller. A draft the
// controller refuses keeps the form open with a fresh copy of the values.
func (m *Model) submitForm() tea.Cmd {
	d, err := m.eventForm.Draft(m.ctrl.SelectedDay().Location())
	if err != nil {
		m.formError = "Invalid date: " + err.Error()
		return m.reopenForm()
	}

	var saved bool
	var id string
	switch m.ctrl.Mode() {
	case calendar.ModeCreating:
		var ev models.MealEvent
		ev, saved = m.ctrl.AddEvent(d)
		id = ev.ID
	case calendar.ModeEditing:
		id = m.ctrl.EditingID()
		saved = m.ctrl.SaveEdit(d)
	}

	if m.ctrl.Mode() != calendar.ModeIdle {
		m.formError = "Title, start and end are required"
		return m.reopenForm()
	}

	if saved {
		logger.Debug("Saved meal", "id", id)
		m.ctrl.GoTo(d.Date)
	}
	m.state = StateCalendar
	m.form = nil
	m.eventForm = nil
	m.refresh()
	if saved {
		m.timeline.Select(id)
	}
	return nil
}

func (m *Model) reopenForm() tea.Cmd {
	values := *m.eventForm
	return m.showForm(&values)
}

func (m *Model) closeForm() {
	m.ctrl.Cancel()
	m.state = StateCalendar
	m.form = nil
	m.eventForm = nil
	m.formError = ""
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		if !m.ctrl.DeleteEvent(m.deleteID) {
			logger.Warn("Meal to delete no longer exists", "id", m.deleteID)
		}
		m.deleteID = ""
		m.state = StateCalendar
		m.refresh()
	case key.Matches(keyMsg, m.keys.No):
		m.deleteID = ""
		m.state = StateCalendar
	}
	return m, nil
}

func (m *Model) resize() {
	bodyHeight := m.height - 6
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	listWidth := m.width * 2 / 5
	timelineWidth := m.width - listWidth - 4
	if timelineWidth < 10 {
		timelineWidth = 10
	}
	m.eventList.SetSize(listWidth, bodyHeight)
	m.timeline.SetSize(timelineWidth, bodyHeight)
}
