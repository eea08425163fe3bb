package eventlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/mealplan/internal/models"
)

type AddEventMsg struct{}

type EditEventMsg struct {
	ID string
}

type DeleteEventMsg struct {
	ID string
}

// SelectionMsg reports the highlighted event after the cursor moves.
type SelectionMsg struct {
	ID string
}

type Item struct {
	Event models.MealEvent
}

func (i Item) Title() string { return i.Event.Title }
func (i Item) Description() string {
	desc := fmt.Sprintf("%s-%s", i.Event.Start, i.Event.End)
	if i.Event.Description != "" {
		desc += " | " + i.Event.Description
	}
	return desc
}
func (i Item) FilterValue() string { return i.Event.Title }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add meal"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(events []models.MealEvent, width, height int) Model {
	l := list.New(toItems(events), list.NewDefaultDelegate(), width, height)
	l.Title = "Meals"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// day navigation owns left/right
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.PrevPage.SetEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

func toItems(events []models.MealEvent) []list.Item {
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = Item{Event: e}
	}
	return items
}

func (m *Model) SetEvents(events []models.MealEvent) {
	m.list.SetItems(toItems(events))
	if m.list.Index() >= len(events) && len(events) > 0 {
		m.list.Select(len(events) - 1)
	}
}

// Selected returns the id of the highlighted event.
func (m Model) Selected() (string, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Event.ID, true
	}
	return "", false
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEventMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if id, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditEventMsg{ID: id} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if id, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEventMsg{ID: id} }
			}
			return m, nil
		}
	}

	before, _ := m.Selected()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if after, ok := m.Selected(); ok && after != before {
		return m, tea.Batch(cmd, func() tea.Msg { return SelectionMsg{ID: after} })
	}
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No meals planned.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
