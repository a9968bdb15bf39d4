package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Endpoint is a shoplist item store found on the local network
type Endpoint struct {
	// Instance is the advertised instance name (e.g., "kitchen")
	Instance string

	// Host is the mDNS hostname (e.g., "pantry.local.")
	Host string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the HTTP port
	Port int

	// Path is the collection path from the TXT record (e.g., "/items")
	Path string

	// Metadata holds every TXT record key=value pair
	Metadata map[string]string

	// DiscoveredAt is when the endpoint was seen
	DiscoveredAt time.Time
}

// URL returns the collection URL for the endpoint
func (e Endpoint) URL() string {
	path := e.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + net.JoinHostPort(e.IP, strconv.Itoa(e.Port)) + path
}

// Version returns the advertised server version, if any
func (e Endpoint) Version() string {
	return e.Metadata[TXTVersion]
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, e.Host, e.URL())
}
