package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/shoplist/internal/ui"
)

// View renders the list screen
func (m Model) View() string {
	return RenderApplicationContainer(m.renderContent(), m.opts.Source, m.renderHelp(), m.Width, m.Height)
}

func (m Model) renderHelp() string {
	switch {
	case m.ShowingForm:
		return m.help.View(m.keys.Form)
	case m.Editing:
		return m.help.View(m.keys.Edit)
	default:
		return m.help.View(m.keys.List)
	}
}

func (m Model) renderContent() string {
	var b strings.Builder

	items := m.list.Items()
	if len(items) == 0 {
		b.WriteString(SubtitleStyle.Render("No items yet. Press a to add one."))
	} else {
		b.WriteString(m.renderTable())
		b.WriteString("\n")
		b.WriteString(ui.RenderTotal(m.opts.Currency, items))
	}
	b.WriteString("\n\n")

	if m.ShowingForm {
		b.WriteString(m.form.view(m.Width))
		b.WriteString("\n\n")
	}

	status := RenderNotice(m.notice)
	if m.inflight > 0 {
		status = m.spinner.View() + " Working... " + status
	}
	b.WriteString(status)

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderTable() string {
	rows := ui.ItemRows(m.list.Items(), m.opts.Currency)
	col := ui.FieldColumn(m.field())
	cursor := m.Row
	if m.Editing {
		col = ui.FieldColumn(m.editField)
		if r, ok := m.rowOf(m.editID); ok {
			cursor = r
			rows[r][col] = m.input.View()
		}
	}

	t := ui.NewItemTable(rows).StyleFunc(func(row, c int) lipgloss.Style {
		if row != table.HeaderRow && row == cursor && c == col && !m.ShowingForm {
			if m.Editing {
				return EditingCellStyle
			}
			return SelectedCellStyle
		}
		return ui.DefaultCellStyle(row, c)
	})
	return t.Render()
}
