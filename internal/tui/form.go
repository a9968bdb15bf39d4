package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/ui"
)

var formLabels = [...]string{"Item", "Quantity", "Price"}

// addForm collects a new item's three fields
type addForm struct {
	inputs [3]textinput.Model
	focus  int
}

func newAddForm() addForm {
	var f addForm

	placeholders := [...]string{"Milk", "1", "0.00"}
	limits := [...]int{64, 6, 12}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 24
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[1].SetValue("1")
	return f
}

// open resets the form and focuses the first input
func (f *addForm) open() tea.Cmd {
	*f = newAddForm()
	return f.inputs[0].Focus()
}

func (f *addForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// draft parses the inputs
func (f addForm) draft() (item.Draft, error) {
	return item.ParseDraft(f.inputs[0].Value(), f.inputs[1].Value(), f.inputs[2].Value())
}

func (f addForm) view(width int) string {
	var lines []string
	lines = append(lines, ui.TitleStyle.Render("Add Item"), "")
	for i, in := range f.inputs {
		label := ui.KeyStyle.Render(formLabels[i])
		if i == f.focus {
			label = FocusedLabelStyle.Render("→ " + formLabels[i])
		}
		lines = append(lines, label+" "+in.View())
	}

	return FormBoxStyle.
		Width(min(48, max(width-4, 30))).
		Render(strings.Join(lines, "\n"))
}

// FocusedLabelStyle marks the active form field
var FocusedLabelStyle = lipgloss.NewStyle().
	Foreground(ui.PrimaryColor).
	Bold(true).
	Width(12)

// FormBoxStyle frames the add form
var FormBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ui.PrimaryColor).
	Padding(0, 2)
