// Shoplist is a terminal shopping list with inline editing.
//
// Items live in a remote store: a REST collection reached over HTTP, a local
// `shoplist serve` instance found over mDNS, or an in-process list. Edits are
// shown immediately and rolled back if the store rejects them.
//
// Usage:
//
//	shoplist [command] [flags]
//
// Running without arguments opens the interactive list.
// See 'shoplist --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/config"
	"github.com/muurk/shoplist/internal/discovery"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/logging"
	"github.com/muurk/shoplist/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath  string
	endpoint    string
	useMemory   bool
	useDiscover bool
	logLevel    string
	logFile     string
)

var rootCmd = &cobra.Command{
	Use:   "shoplist",
	Short: "Terminal shopping list",
	Long: `A shopping list for the terminal.

Items are kept in a remote store and edited inline: move to a cell, press
enter, type, and leave the cell. Invalid values and failed saves are put back
the way they were.

If no command is specified, the interactive list opens.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeWith(logging.Options{Level: logLevel, File: logFile})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runTUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/shoplist/config.yaml)")
	flags.StringVar(&endpoint, "endpoint", "", "Item collection URL (switches to http mode)")
	flags.BoolVar(&useMemory, "memory", false, "Use an in-process list")
	flags.BoolVar(&useDiscover, "discover", false, "Find a shoplist server on the local network")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default silent)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.MarkFlagsMutuallyExclusive("endpoint", "memory", "discover")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shoplist %s (commit: %s)\n", version.Version, version.Commit)
	},
}

// session is the resolved configuration and store for a command
type session struct {
	cfg    *config.Config
	store  itemstore.Store
	source string
}

// openSession loads the config file and applies the store flags
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case useMemory:
		cfg.Store.Mode = config.ModeMemory
	case endpoint != "":
		cfg.Store.Mode = config.ModeHTTP
		cfg.Store.Endpoint = endpoint
	case useDiscover:
		scanner := discovery.NewScanner()
		ep, err := scanner.First(ctx)
		if err != nil {
			return nil, fmt.Errorf("discovery failed: %w", err)
		}
		logging.Info("Using discovered store", zap.String("endpoint", ep.String()))
		cfg.Store.Mode = config.ModeHTTP
		cfg.Store.Endpoint = ep.URL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cfg.NewStore()
	if err != nil {
		return nil, err
	}

	source := config.ModeMemory
	if cfg.Store.Mode == config.ModeHTTP {
		source = cfg.Store.Endpoint
	}
	return &session{cfg: cfg, store: store, source: source}, nil
}

// remote reports whether the session talks to an HTTP store
func (s *session) remote() bool {
	return s.cfg.Store.Mode == config.ModeHTTP
}
