package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const headerDateFormat = "Monday, January 2 2006"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateEditing:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewCalendar()
	}

	parts := []string{m.viewHeader(), content}
	if m.validationWarning != "" && m.state == StateCalendar {
		parts = append(parts, warningStyle.Render(m.validationWarning))
		if m.help.ShowAll {
			for _, c := range m.validationConflicts {
				parts = append(parts, warningStyle.Render("  - "+c.Description))
			}
		}
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewHeader() string {
	day := m.ctrl.SelectedDay().Format(headerDateFormat)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		arrowStyle.Render("←"),
		headerStyle.Render(day),
		arrowStyle.Render("→"),
	)
}

func (m Model) viewCalendar() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.eventList.View()),
		paneStyle.Render(m.timeline.View()),
	)
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.form.View())
	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render(m.formError))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewConfirmDelete() string {
	title := "this meal"
	if e, ok := m.ctrl.Event(m.deleteID); ok {
		title = "\"" + e.Title + "\""
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete "+title+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
