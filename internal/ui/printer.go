package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/shoplist/internal/item"
)

// Printer writes styled, non-interactive output for CLI commands
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to w.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintItems prints items as a table followed by the grand total
func (p *Printer) PrintItems(items []item.Item, currency string) {
	if len(items) == 0 {
		p.Println(MutedStyle.Render("Your shopping list is empty."))
		return
	}

	t := NewItemTable(ItemRows(items, currency))
	if p.width > 0 {
		t = t.Width(min(p.width, tableWidth(items, currency)))
	}
	p.Println(t.Render())
	p.Println(RenderTotal(currency, items))
}

// tableWidth is the natural width of the item table, used so narrow lists
// are not stretched to the terminal
func tableWidth(items []item.Item, currency string) int {
	widths := make([]int, len(ItemHeaders))
	for i, h := range ItemHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range ItemRows(items, currency) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	// Two padding columns per cell plus one border per column and the edge
	total := len(widths) + 1
	for _, w := range widths {
		total += w + 2
	}
	return total
}

// PrintSuccess prints a success line
func (p *Printer) PrintSuccess(summary, detail string) {
	p.Println(SuccessStyle.Render(SuccessMarker+" "+summary) + detailSuffix(detail))
}

// PrintError prints a failure line
func (p *Printer) PrintError(summary, detail string) {
	p.Println(ErrorStyle.Render(FailureMarker+" "+summary) + detailSuffix(detail))
}

// PrintInfo prints an informational line
func (p *Printer) PrintInfo(summary, detail string) {
	p.Println(InfoStyle.Render(InfoMarker+" "+summary) + detailSuffix(detail))
}

// PrintDetails prints key/value pairs sorted by key
func (p *Printer) PrintDetails(details map[string]string) {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p.Println(KeyStyle.Render(k+":") + " " + details[k])
	}
}

func detailSuffix(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return ""
	}
	return ": " + detail
}
