package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/shoplist/internal/item"
)

// ItemHeaders are the column titles of an item table
var ItemHeaders = []string{"S.no", "Item", "Quantity", "Price", "Total"}

// Column indexes of an item table
const (
	ColSerial = iota
	ColName
	ColQuantity
	ColPrice
	ColTotal
)

// FieldColumn maps an editable field to its table column
func FieldColumn(f item.Field) int {
	switch f {
	case item.FieldName:
		return ColName
	case item.FieldQuantity:
		return ColQuantity
	default:
		return ColPrice
	}
}

// ItemRow formats one item. Serial numbers start at 1.
func ItemRow(index int, it item.Item, currency string) []string {
	return []string{
		strconv.Itoa(index + 1),
		it.Name,
		strconv.Itoa(it.Quantity),
		item.Money(currency, it.Price),
		item.Money(currency, it.LineTotal()),
	}
}

// ItemRows formats items in order
func ItemRows(items []item.Item, currency string) [][]string {
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, ItemRow(i, it, currency))
	}
	return rows
}

// NewItemTable returns a bordered table of rows with the default cell styles.
// Callers may replace the StyleFunc to highlight cells.
func NewItemTable(rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(ItemHeaders...).
		Rows(rows...).
		StyleFunc(DefaultCellStyle)
}

// DefaultCellStyle styles the header row and right-aligns numeric columns
func DefaultCellStyle(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return HeaderCellStyle
	}
	if col == ColName {
		return CellStyle
	}
	return CellStyle.Align(lipgloss.Right)
}

// RenderTotal renders the grand total line
func RenderTotal(currency string, items []item.Item) string {
	return MutedStyle.Render("Total: ") + TotalStyle.Render(item.Money(currency, item.Total(items)))
}
