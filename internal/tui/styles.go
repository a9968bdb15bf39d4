package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/shoplist/internal/shopping"
	"github.com/muurk/shoplist/internal/ui"
	"github.com/muurk/shoplist/internal/version"
)

// AppName is shown in the header of every screen
const AppName = "SHOPPING LIST"

var (
	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	// Cursor cell in browse mode
	SelectedCellStyle = lipgloss.NewStyle().
				Foreground(ui.SuccessColor).
				Bold(true).
				Padding(0, 1)

	// Cell whose input is open
	EditingCellStyle = lipgloss.NewStyle().
				Foreground(ui.WarningColor).
				Bold(true).
				Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true)
)

// RenderNotice renders the status line for n
func RenderNotice(n shopping.Notice) string {
	if n.IsZero() {
		return ""
	}
	switch n.Severity {
	case shopping.SeverityError:
		return ui.ErrorStyle.Render(ui.FailureMarker + " " + n.String())
	case shopping.SeveritySuccess:
		return ui.SuccessStyle.Render(ui.SuccessMarker + " " + n.String())
	default:
		return ui.InfoStyle.Render(ui.InfoMarker + " " + n.String())
	}
}

func buildHeaderContent(source string) string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := ui.MutedStyle.Render(source)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps content in the bordered full-screen panel
// with a header and a help footer.
func RenderApplicationContainer(content, source, footer string, width, height int) string {
	width = max(width, ui.MinTerminalWidth)
	height = max(height, 10)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(buildHeaderContent(source)),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
