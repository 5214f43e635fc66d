package enrich

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/scanner"
)

const (
	// DefaultTimeout bounds each PTR query
	DefaultTimeout = 2 * time.Second

	// DefaultConcurrency is the number of devices enriched at once
	DefaultConcurrency = 16

	// DefaultARPTable is the Linux kernel's neighbour table
	DefaultARPTable = "/proc/net/arp"

	resolvConf = "/etc/resolv.conf"
)

// Config controls device enrichment.
type Config struct {
	// DNSServer is the "host:port" queried for PTR records. Empty uses the
	// first nameserver in /etc/resolv.conf.
	DNSServer string

	Timeout     time.Duration
	Concurrency int

	// ARPTable is the file MAC addresses are read from.
	ARPTable string
}

// DefaultConfig returns the default enrichment configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		ARPTable:    DefaultARPTable,
	}
}

// Enricher adds hostnames, MAC addresses and vendors to found devices.
type Enricher struct {
	cfg    Config
	client *dns.Client
	server string
}

// New creates an Enricher. When no DNS server is configured and none can
// be read from the system, PTR lookups are skipped.
func New(cfg Config) *Enricher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.ARPTable == "" {
		cfg.ARPTable = DefaultARPTable
	}

	server := cfg.DNSServer
	if server == "" {
		conf, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil || len(conf.Servers) == 0 {
			logging.Debug("No system nameserver, skipping PTR lookups", zap.Error(err))
		} else {
			server = net.JoinHostPort(conf.Servers[0], conf.Port)
		}
	}

	return &Enricher{
		cfg:    cfg,
		client: &dns.Client{Net: "udp", Timeout: cfg.Timeout},
		server: server,
	}
}

// LookupPTR returns the PTR name for addr without its trailing dot. A
// missing record is not an error and yields "".
func (e *Enricher) LookupPTR(ctx context.Context, addr string) (string, error) {
	if e.server == "" {
		return "", nil
	}

	name, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("reverse name for %s: %w", addr, err)
	}

	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypePTR)
	m.RecursionDesired = true

	resp, _, err := e.client.ExchangeContext(ctx, m, e.server)
	if err != nil {
		return "", fmt.Errorf("PTR query for %s: %w", addr, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", nil
	}

	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return trimDot(ptr.Ptr), nil
		}
	}
	return "", nil
}

// Enrich fills Hostname, MAC and Vendor on each device in place. Lookup
// failures leave the fields empty; Enrich only fails when ctx ends.
func (e *Enricher) Enrich(ctx context.Context, devices []scanner.Device) error {
	arp, err := LoadARPTable(e.cfg.ARPTable)
	if err != nil {
		logging.Debug("ARP table unavailable", zap.String("path", e.cfg.ARPTable), zap.Error(err))
		arp = map[string]string{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i := range devices {
		d := &devices[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			name, err := e.LookupPTR(gctx, d.Address)
			if err != nil {
				logging.Debug("PTR lookup failed", zap.String("address", d.Address), zap.Error(err))
			}
			if name != "" {
				d.Hostname = name
			}

			if mac, ok := arp[d.Address]; ok {
				d.MAC = mac
				d.Vendor = Vendor(mac)
			}
			return nil
		})
	}

	return g.Wait()
}

func trimDot(name string) string {
	if n := len(name); n > 0 && name[n-1] == '.' {
		return name[:n-1]
	}
	return name
}
