package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/layout"
	"github.com/julianstephens/mealplan/internal/utils"
)

var (
	hourStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(6)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("205")).
			Bold(true)

	overnightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

type cell struct {
	text      string
	selected  bool
	overnight bool
}

type Model struct {
	viewport    viewport.Model
	blocks      []layout.Block
	selectedID  string
	rowsPerHour int
	width       int
	height      int
}

func New(width, height, rowsPerHour int) Model {
	if rowsPerHour <= 0 {
		rowsPerHour = 1
	}
	m := Model{
		viewport:    viewport.New(width, height),
		rowsPerHour: rowsPerHour,
		width:       width,
		height:      height,
	}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetBlocks replaces the day's blocks and scrolls to the first of them.
func (m *Model) SetBlocks(blocks []layout.Block, selectedID string) {
	m.blocks = blocks
	m.selectedID = selectedID
	m.Render()
	m.scrollTo(m.focusRow())
}

// Select highlights the block of the given event.
func (m *Model) Select(id string) {
	m.selectedID = id
	m.Render()
	m.scrollTo(m.focusRow())
}

func (m Model) focusRow() int {
	first := -1
	for _, b := range m.blocks {
		row, _ := layout.Scale(b, m.rowsPerHour)
		if b.Event.ID == m.selectedID {
			return row
		}
		if first < 0 || row < first {
			first = row
		}
	}
	if first < 0 {
		// empty day: start around breakfast
		return 7 * m.rowsPerHour
	}
	return first
}

func (m *Model) scrollTo(row int) {
	offset := row - 1
	if offset < 0 {
		offset = 0
	}
	m.viewport.SetYOffset(offset)
}

// Rows lays out the day into one cell per timeline row. Blocks later in
// the list overwrite earlier ones where they share rows.
func (m Model) rows() []cell {
	cells := make([]cell, layout.TimelineHeight(m.rowsPerHour))
	for _, b := range m.blocks {
		row, span := layout.Scale(b, m.rowsPerHour)
		selected := b.Event.ID == m.selectedID
		for r := row; r < row+span && r < len(cells); r++ {
			c := cell{text: "┃", selected: selected, overnight: b.Overnight()}
			if r == row {
				c.text = fmt.Sprintf("%s %s-%s", b.Event.Title, b.Event.Start, b.Event.End)
				if b.Overnight() {
					c.text += " (ends next day)"
				}
			}
			cells[r] = c
		}
	}
	return cells
}

func (m *Model) Render() {
	cells := m.rows()
	cellWidth := m.width - 9
	if cellWidth < 1 {
		cellWidth = 1
	}

	var b strings.Builder
	for i, c := range cells {
		label := ""
		if i%m.rowsPerHour == 0 {
			label = utils.FormatMinutes(i / m.rowsPerHour * constants.HourRowHeight)
		}
		b.WriteString(hourStyle.Render(label))
		b.WriteString(ruleStyle.Render("│ "))

		text := truncate(c.text, cellWidth)
		switch {
		case c.text == "":
		case c.selected:
			b.WriteString(selectedStyle.Render(text))
		case c.overnight:
			b.WriteString(overnightStyle.Render(text))
		default:
			b.WriteString(eventStyle.Render(text))
		}
		if i < len(cells)-1 {
			b.WriteString("\n")
		}
	}
	m.viewport.SetContent(b.String())
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
