package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/shoplist/internal/discovery"
	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/server"
	"github.com/muurk/shoplist/internal/ui"
	"github.com/muurk/shoplist/internal/version"
)

// Server command flags
var (
	serveAddr    string
	noAdvertise  bool
	instanceName string
	scanTimeout  time.Duration
	watchJSON    bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(discoverCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, \":8080\")")
	serveCmd.Flags().BoolVar(&noAdvertise, "no-advertise", false, "Do not announce the server over mDNS")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default from config)")

	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for servers")

	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print raw JSON events")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shopping list over HTTP",
	Long: `Serve the shopping list as a REST collection at /items with a websocket
change feed at /events.

The served list is the configured store: the in-process list by default,
seeded from the config file. Other shoplist instances on the network can
find the server with --discover.`,
	Example: `  # Serve the built-in list on :8080
  shoplist serve

  # Serve on another port without mDNS
  shoplist serve --addr :9090 --no-advertise`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	cfg := &server.Config{
		Addr:      s.cfg.Server.Addr,
		Advertise: s.cfg.Server.Advertise && !noAdvertise,
		Instance:  s.cfg.Server.Instance,
		Version:   version.Version,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if instanceName != "" {
		cfg.Instance = instanceName
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, s.store)

	go func() {
		select {
		case <-srv.Ready():
			p := ui.NewPrinter(cmd.OutOrStdout())
			p.PrintSuccess("Serving", "http://"+srv.Addr().String()+"/items")
			p.PrintDetails(map[string]string{
				"Store":     s.source,
				"Events":    "ws://" + srv.Addr().String() + server.EventsPath,
				"Advertise": fmt.Sprintf("%t", cfg.Advertise),
			})
		case <-ctx.Done():
		}
	}()

	return srv.Run(ctx)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes from a shoplist server as they happen",
	Example: `  shoplist watch --endpoint http://localhost:8080/items
  shoplist watch --discover`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if !s.remote() {
			return fmt.Errorf("watch needs a shoplist server; use --endpoint or --discover")
		}

		eventsURL, err := server.EventsURL(s.cfg.Store.Endpoint)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintInfo("Watching", eventsURL)
		return server.Subscribe(ctx, eventsURL, func(ev server.Event) {
			printEvent(p, ev, s.cfg.Display.Currency)
		})
	},
}

func printEvent(p *ui.Printer, ev server.Event, currency string) {
	if watchJSON {
		data, err := json.Marshal(ev)
		if err == nil {
			p.Println(string(data))
		}
		return
	}

	detail := fmt.Sprintf("item %d", ev.ID)
	if ev.Item != nil {
		if it, err := ev.Item.Item(); err == nil {
			detail = fmt.Sprintf("#%d %s %d × %s", it.ID, it.Name, it.Quantity, item.Money(currency, it.Price))
		}
	}
	p.PrintInfo(ev.At.Local().Format(time.TimeOnly)+" "+ev.Type, detail)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find shoplist servers on the local network",
	Long: `Listen for shoplist servers announced over mDNS/DNS-SD (` + discovery.ServiceType + `)
and print their collection URLs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintInfo("Scanning", fmt.Sprintf("listening for %s", scanTimeout))

		scanner := &discovery.Scanner{Timeout: scanTimeout}
		ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout+time.Second)
		defer cancel()

		endpoints, err := scanner.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if len(endpoints) == 0 {
			p.PrintError("No servers found", "is 'shoplist serve' running on this network?")
			return nil
		}

		for i, ep := range endpoints {
			p.Println("")
			p.PrintSuccess(fmt.Sprintf("%d. %s", i+1, ep.Instance), ep.URL())
			p.PrintDetails(map[string]string{
				"Host":    ep.Host,
				"Version": ep.Version(),
			})
		}
		p.Println("")
		p.Println(ui.MutedStyle.Render("Use 'shoplist --endpoint <url>' or 'shoplist --discover' to connect"))
		return nil
	},
}
