package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/logging"
	"github.com/muurk/shoplist/internal/server"
	"github.com/muurk/shoplist/internal/shopping"
	"github.com/muurk/shoplist/internal/tui"
	"github.com/muurk/shoplist/internal/ui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("the interactive list needs a terminal; try 'shoplist list'")
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	model := tui.New(shopping.New(s.store), tui.Options{
		Currency: s.cfg.Display.Currency,
		Source:   s.source,
		Timeout:  s.cfg.Store.Timeout * 2,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if s.remote() {
		go followChanges(ctx, p, s.cfg.Store.Endpoint)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive list failed: %w", err)
	}
	return nil
}

// followChanges forwards the change feed of a shoplist server to the
// program. Stores without a feed are left alone.
func followChanges(ctx context.Context, p *tea.Program, endpoint string) {
	eventsURL, err := server.EventsURL(endpoint)
	if err != nil {
		logging.Debug("No change feed for endpoint", zap.String("endpoint", endpoint), zap.Error(err))
		return
	}

	err = server.Subscribe(ctx, eventsURL, func(ev server.Event) {
		p.Send(tui.EventMsg{Type: ev.Type, ID: ev.ID})
	})
	if err != nil {
		logging.Debug("Change feed unavailable", zap.String("url", eventsURL), zap.Error(err))
	}
}
