package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/shoplist/internal/edit"
	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
)

// Store calls run inside commands and report back with these messages.
// Commands never touch the model.

type loadedMsg struct {
	items []item.Item
	err   error
}

type addedMsg struct {
	draft   item.Draft
	created item.Item
	err     error
}

type deletedMsg struct {
	id  int
	err error
}

type committedMsg struct {
	commit *edit.Commit
	err    error
}

// EventMsg reports a change pushed by a remote store. The list reloads on
// receipt.
type EventMsg struct {
	Type string
	ID   int
}

func loadCmd(store itemstore.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := store.List(ctx)
		return loadedMsg{items: items, err: err}
	}
}

func addCmd(store itemstore.Store, timeout time.Duration, d item.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		created, err := store.Create(ctx, d)
		return addedMsg{draft: d, created: created, err: err}
	}
}

func deleteCmd(store itemstore.Store, timeout time.Duration, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deletedMsg{id: id, err: store.Delete(ctx, id)}
	}
}

func sendCmd(store itemstore.Store, timeout time.Duration, c *edit.Commit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := c.Send(ctx, store)
		return committedMsg{commit: c, err: err}
	}
}
