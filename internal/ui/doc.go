// Package ui renders non-interactive terminal output for shoplist commands
// and holds the palette and item table shared with the interactive list.
//
// Output width follows the terminal (via golang.org/x/term), clamped between
// MinTerminalWidth and MaxContentWidth. When stdout is not a terminal the
// minimum width is used.
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintItems(items, "₹")
//	p.PrintSuccess("Item Added", "Milk has been added to your shopping list")
package ui
