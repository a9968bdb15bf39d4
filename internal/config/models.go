package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
)

// CurrentVersion is the only config file version this build understands.
const CurrentVersion = 1

// Store modes
const (
	ModeMemory = "memory"
	ModeHTTP   = "http"
)

// Config represents the entire user configuration file.
type Config struct {
	Version int           `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Display DisplayConfig `yaml:"display"`
	Server  ServerConfig  `yaml:"server"`
	Items   []SeedItem    `yaml:"items,omitempty"` // Starting items for memory mode
}

// StoreConfig selects and tunes the item store.
type StoreConfig struct {
	Mode       string        `yaml:"mode"`     // memory | http
	Endpoint   string        `yaml:"endpoint"` // Collection URL for http mode
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	ListLimit  int           `yaml:"list_limit"` // 0 = client default
}

// DisplayConfig controls how amounts are rendered.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// ServerConfig configures `shoplist serve`.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Advertise bool   `yaml:"advertise"` // Announce over mDNS
	Instance  string `yaml:"instance"`  // mDNS instance name
}

// SeedItem is an item as written in the config file. Price is kept as text
// so it is never rounded through a float.
type SeedItem struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
	Price    string `yaml:"price"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Store: StoreConfig{
			Mode:       ModeMemory,
			Endpoint:   itemstore.DefaultEndpoint,
			Timeout:    itemstore.DefaultTimeout,
			MaxRetries: itemstore.DefaultMaxRetries,
			RetryDelay: itemstore.DefaultRetryDelay,
		},
		Display: DisplayConfig{Currency: "₹"},
		Server: ServerConfig{
			Addr:      ":8080",
			Advertise: true,
			Instance:  "shoplist",
		},
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}

	switch c.Store.Mode {
	case ModeMemory:
	case ModeHTTP:
		if c.Store.Endpoint == "" {
			return fmt.Errorf("store.endpoint is required in http mode")
		}
	default:
		return fmt.Errorf("unknown store.mode %q (expected %s or %s)", c.Store.Mode, ModeMemory, ModeHTTP)
	}

	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout)
	}
	if c.Store.MaxRetries < 0 {
		return fmt.Errorf("store.max_retries must not be negative, got %d", c.Store.MaxRetries)
	}
	if c.Store.ListLimit < 0 {
		return fmt.Errorf("store.list_limit must not be negative, got %d", c.Store.ListLimit)
	}
	return nil
}

// SeedItems converts the configured items, numbering them from 1. With no
// items configured the built-in starter list is returned.
func (c *Config) SeedItems() ([]item.Item, error) {
	if len(c.Items) == 0 {
		return item.Seed(), nil
	}

	items := make([]item.Item, 0, len(c.Items))
	for i, s := range c.Items {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: invalid price %q: %w", i, s.Price, err)
		}
		it := item.Item{ID: i + 1, Name: s.Name, Quantity: s.Quantity, Price: price}
		if errs := item.Validate(it); len(errs) > 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, errs[0])
		}
		items = append(items, it)
	}
	return items, nil
}

// NewStore builds the item store described by the configuration.
func (c *Config) NewStore() (itemstore.Store, error) {
	switch c.Store.Mode {
	case ModeHTTP:
		client := itemstore.NewClient(c.Store.Endpoint)
		client.SetTimeout(c.Store.Timeout)
		client.SetRetry(c.Store.MaxRetries, c.Store.RetryDelay)
		if c.Store.ListLimit > 0 {
			client.ListLimit = c.Store.ListLimit
		}
		return client, nil
	case ModeMemory, "":
		seed, err := c.SeedItems()
		if err != nil {
			return nil, err
		}
		return itemstore.NewMemoryStore(seed), nil
	}
	return nil, fmt.Errorf("unknown store.mode %q", c.Store.Mode)
}
