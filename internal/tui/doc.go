// Package tui is the interactive shopping list screen.
//
// The screen shows the items in a table with a movable cell cursor. Enter
// opens the cell for editing; leaving it (enter, tab, up or down) validates
// the new value and sends it to the store. A rejected value or a failed
// store call puts the previous value back. Esc abandons the edit.
//
// Store calls run in tea.Cmds and report back with messages, so the list is
// only mutated inside Update.
package tui
