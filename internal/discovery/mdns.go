package discovery

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
)

const (
	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default browse duration
	DefaultScanTimeout = 5 * time.Second
)

// DefaultServiceTypes are the services printers and embedded web
// consoles commonly advertise.
var DefaultServiceTypes = []string{
	"_ipp._tcp",
	"_ipps._tcp",
	"_printer._tcp",
	"_pdl-datastream._tcp",
	"_http._tcp",
}

// Scanner handles mDNS host discovery
type Scanner struct {
	// Timeout is how long to browse before returning
	Timeout time.Duration

	// ServiceTypes are browsed concurrently, one resolver each
	ServiceTypes []string
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:      DefaultScanTimeout,
		ServiceTypes: DefaultServiceTypes,
	}
}

// Browse collects every IPv4 host advertising one of the scanner's
// service types until the timeout elapses or ctx is cancelled. Hosts
// advertising several services are reported once.
func (s *Scanner) Browse(ctx context.Context) ([]*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	c := newCollector()
	var wg sync.WaitGroup
	started := 0

	for _, service := range s.ServiceTypes {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		entries := make(chan *zeroconf.ServiceEntry, 16)
		wg.Add(1)
		go func(service string) {
			defer wg.Done()
			for {
				select {
				case entry, ok := <-entries:
					if !ok {
						return
					}
					c.add(service, entry)
				case <-ctx.Done():
					return
				}
			}
		}(service)

		if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
			logging.Warn("mDNS browse failed",
				zap.String("service", service),
				zap.Error(err),
			)
			continue
		}
		started++
	}

	if started == 0 && len(s.ServiceTypes) > 0 {
		cancel()
		wg.Wait()
		return nil, fmt.Errorf("failed to browse for mDNS services")
	}

	<-ctx.Done()
	wg.Wait()

	hosts := c.hosts()
	logging.Debug("mDNS browse finished", zap.Int("hosts", len(hosts)))
	return hosts, nil
}

// collector merges service entries into hosts keyed by address.
type collector struct {
	mu    sync.Mutex
	order []string
	byIP  map[string]*Host
}

func newCollector() *collector {
	return &collector{byIP: make(map[string]*Host)}
}

func (c *collector) add(service string, entry *zeroconf.ServiceEntry) {
	host := parseServiceEntry(service, entry)
	if host == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.byIP[host.IP]
	if !ok {
		c.byIP[host.IP] = host
		c.order = append(c.order, host.IP)
		return
	}
	existing.addService(service)
	if existing.Hostname == "" {
		existing.Hostname = host.Hostname
	}
	for k, v := range host.Metadata {
		if _, ok := existing.Metadata[k]; !ok {
			existing.Metadata[k] = v
		}
	}
}

func (c *collector) hosts() []*Host {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Host, 0, len(c.order))
	for _, ip := range c.order {
		out = append(out, c.byIP[ip])
	}
	return out
}

// parseServiceEntry converts a zeroconf service entry to a Host.
// Returns nil if the entry has no usable IPv4 address.
func parseServiceEntry(service string, entry *zeroconf.ServiceEntry) *Host {
	if entry == nil {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		if a, ok := netip.AddrFromSlice(addr); ok && a.Unmap().Is4() {
			ip = a.Unmap().String()
			break
		}
	}
	if ip == "" {
		return nil
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Host{
		Instance:     entry.Instance,
		Hostname:     strings.TrimSuffix(entry.HostName, "."),
		IP:           ip,
		Port:         entry.Port,
		Services:     []string{service},
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// MergeAddresses appends the address of every host not already present
// in addrs and returns the new list with the number of addresses added.
func MergeAddresses(addrs []string, hosts []*Host) ([]string, int) {
	seen := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		seen[a] = struct{}{}
	}

	merged := append(make([]string, 0, len(addrs)+len(hosts)), addrs...)
	added := 0
	for _, h := range hosts {
		if _, ok := seen[h.IP]; ok {
			continue
		}
		seen[h.IP] = struct{}{}
		merged = append(merged, h.IP)
		added++
	}
	return merged, added
}
