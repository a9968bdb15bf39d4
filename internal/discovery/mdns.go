package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/shoplist/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by `shoplist serve`
	ServiceType = "_shoplist._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default browse duration
	DefaultScanTimeout = 3 * time.Second

	// DefaultPath is the collection path assumed when no TXT path is advertised
	DefaultPath = "/items"

	// TXT record keys
	TXTPath    = "path"
	TXTVersion = "version"
)

// Scanner browses the local network for item stores
type Scanner struct {
	// Timeout bounds each scan
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{Timeout: DefaultScanTimeout}
}

// Scan collects every endpoint answering within the timeout, sorted by
// instance name.
func (s *Scanner) Scan(ctx context.Context) ([]Endpoint, error) {
	var (
		mu    sync.Mutex
		found = make(map[string]Endpoint)
	)

	err := s.browse(ctx, func(ep Endpoint) bool {
		mu.Lock()
		found[ep.Instance] = ep
		mu.Unlock()
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	endpoints := make([]Endpoint, 0, len(found))
	for _, ep := range found {
		endpoints = append(endpoints, ep)
	}
	sort.Slice(endpoints, func(i, j int) bool { return endpoints[i].Instance < endpoints[j].Instance })
	return endpoints, nil
}

// First returns the first endpoint found, or an error when none answers
// within the timeout.
func (s *Scanner) First(ctx context.Context) (Endpoint, error) {
	first := make(chan Endpoint, 1)

	err := s.browse(ctx, func(ep Endpoint) bool {
		select {
		case first <- ep:
		default:
		}
		return false
	})
	if err != nil {
		return Endpoint{}, err
	}

	select {
	case ep := <-first:
		return ep, nil
	default:
		return Endpoint{}, fmt.Errorf("no %s service found within %s", ServiceType, s.Timeout)
	}
}

// browse feeds endpoints to fn until the timeout expires or fn returns false.
func (s *Scanner) browse(ctx context.Context, fn func(Endpoint) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				ep, ok := parseServiceEntry(entry)
				if !ok {
					continue
				}
				logging.Debug("Discovered item store",
					zap.String("instance", ep.Instance),
					zap.String("url", ep.URL()),
				)
				if !fn(ep) {
					cancel()
					return
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// parseServiceEntry converts a zeroconf entry to an Endpoint. Entries with
// no usable address or port are skipped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) (Endpoint, bool) {
	if entry == nil || entry.Port == 0 {
		return Endpoint{}, false
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return Endpoint{}, false
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return Endpoint{
		Instance:     instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Path:         metadata[TXTPath],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}, true
}
