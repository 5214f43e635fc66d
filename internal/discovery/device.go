package discovery

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/scanner"
)

// Host represents a machine that advertised itself over mDNS
type Host struct {
	// Instance is the advertised service instance (e.g., "HP LaserJet M402dne")
	Instance string

	// Hostname is the mDNS hostname without the trailing dot (e.g., "NPI1A2B3C.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.4.16")
	IP string

	// Port is the advertised port of the first service seen
	Port int

	// Services lists every service type the host answered for
	Services []string

	// Metadata contains mDNS TXT record data
	// Common printer fields: "ty=HP LaserJet", "adminurl=http://..."
	Metadata map[string]string

	// DiscoveredAt is when the host was first seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the host
func (h *Host) String() string {
	name := h.Instance
	if name == "" {
		name = h.Hostname
	}
	return fmt.Sprintf("%s at %s [%s]", name, h.IP, strings.Join(h.Services, ", "))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (h *Host) GetMetadata(key string) string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata[key]
}

func (h *Host) addService(service string) {
	for _, s := range h.Services {
		if s == service {
			return
		}
	}
	h.Services = append(h.Services, service)
}

// Annotate gives each device found at an advertised address the host's
// mDNS name. Enrichment runs afterwards and replaces it only with a PTR
// name. It returns the number of devices annotated.
func Annotate(devices []scanner.Device, hosts []*Host) int {
	byIP := make(map[string]*Host, len(hosts))
	for _, h := range hosts {
		byIP[h.IP] = h
	}

	n := 0
	for i := range devices {
		h, ok := byIP[devices[i].Address]
		if !ok || h.Hostname == "" {
			continue
		}
		devices[i].Hostname = h.Hostname
		n++
		logging.Debug("Device advertised over mDNS",
			zap.Stringer("host", h),
			zap.String("model", h.GetMetadata("ty")),
		)
	}
	return n
}
