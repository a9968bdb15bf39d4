package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/shoplist/internal/edit"
	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/shopping"
	"github.com/muurk/shoplist/internal/ui"
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(totalCmd)
}

// loadList opens the session and loads the current items
func loadList(cmd *cobra.Command) (*session, *shopping.List, error) {
	s, err := openSession(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Store.Timeout*time.Duration(s.cfg.Store.MaxRetries+1))
	defer cancel()

	list := shopping.New(s.store)
	if n := list.Load(ctx); n.Severity == shopping.SeverityError {
		return nil, nil, errors.New(n.String())
	}
	return s, list, nil
}

// printNotice prints n and turns an error notice into a command error
func printNotice(p *ui.Printer, n shopping.Notice) error {
	switch n.Severity {
	case shopping.SeverityError:
		p.PrintError(n.Summary, n.Detail)
		return errors.New(n.Summary)
	case shopping.SeveritySuccess:
		p.PrintSuccess(n.Summary, n.Detail)
	default:
		p.PrintInfo(n.Summary, n.Detail)
	}
	return nil
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the shopping list",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, list, err := loadList(cmd)
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintItems(list.Items(), s.cfg.Display.Currency)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add NAME QUANTITY PRICE",
	Short: "Add an item",
	Example: `  # Two litres of milk at 3.50 each
  shoplist add Milk 2 3.50`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())

		d, err := item.ParseDraft(args[0], args[1], args[2])
		if err == nil {
			err = d.Validate()
		}
		if err != nil {
			p.PrintError("Failed to Add Item", err.Error())
			return err
		}

		_, list, err := loadList(cmd)
		if err != nil {
			return err
		}
		return printNotice(p, list.Add(cmd.Context(), d))
	},
}

var setCmd = &cobra.Command{
	Use:   "set ID FIELD VALUE",
	Short: "Change one field of an item",
	Long: `Change one field of an item. FIELD is name, quantity or price.

The new value is validated and sent to the store. An invalid value or a
failed save leaves the item unchanged.`,
	Example: `  shoplist set 1 price 12.50
  shoplist set 2 quantity 3`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		f, err := item.ParseField(args[1])
		if err != nil {
			return err
		}

		_, list, err := loadList(cmd)
		if err != nil {
			return err
		}

		res, n := list.Edit(cmd.Context(), id, f, args[2])
		if err := printNotice(ui.NewPrinter(cmd.OutOrStdout()), n); err != nil {
			return err
		}
		if res.Outcome != edit.Committed {
			return fmt.Errorf("item %d %s not updated", id, f)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Remove an item",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}

		_, list, err := loadList(cmd)
		if err != nil {
			return err
		}
		return printNotice(ui.NewPrinter(cmd.OutOrStdout()), list.Delete(cmd.Context(), id))
	},
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the grand total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, list, err := loadList(cmd)
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).Println(ui.RenderTotal(s.cfg.Display.Currency, list.Items()))
		return nil
	},
}
