package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/proxy"

	"github.com/muurk/devscan/internal/fingerprint"
	"github.com/muurk/devscan/internal/logging"
)

const (
	// DefaultTimeout is the default per-probe request timeout
	DefaultTimeout = 2000 * time.Millisecond

	// DefaultScheme is the default probe scheme; most embedded devices
	// serve their UI over self-signed HTTPS
	DefaultScheme = "https"

	// DefaultPath is the default probe path
	DefaultPath = "/"

	// DefaultUserAgent is sent with every probe
	DefaultUserAgent = "Mozilla/5.0 (compatible; devscan)"

	// DefaultMaxBodyBytes caps how much of a landing page is read
	DefaultMaxBodyBytes = 2 << 20
)

// DialFunc dials a network connection. It matches net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Config holds per-probe settings.
type Config struct {
	Scheme       string
	Path         string
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64

	// Proxy is an optional socks5:// URL that probes are routed through.
	Proxy string

	// Dial overrides the dialer. Takes precedence over Proxy.
	Dial DialFunc

	// Table overrides the fingerprint table. Defaults to fingerprint.DefaultTable.
	Table fingerprint.Table
}

// DefaultConfig returns the default probe configuration.
func DefaultConfig() Config {
	return Config{
		Scheme:       DefaultScheme,
		Path:         DefaultPath,
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Outcome is the result of probing one host. Err is nil when the host
// answered; Variant is then always set (possibly Unidentified).
type Outcome struct {
	Address    string
	Variant    fingerprint.Variant
	StatusCode int
	Title      string
	Err        *ProbeError
}

// Prober issues one GET per host with its own HTTP client. A Prober is
// meant to be owned by a single worker.
type Prober struct {
	cfg    Config
	client *http.Client
}

// New creates a Prober. Certificate validation and redirects are disabled.
func New(cfg Config) (*Prober, error) {
	cfg = withDefaults(cfg)

	dial, err := dialer(cfg)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: dial,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // embedded devices ship self-signed certificates
			MinVersion:         tls.VersionTLS10,
		},
		TLSHandshakeTimeout: cfg.Timeout,
		DisableKeepAlives:   true,
		DisableCompression:  true,
	}

	return &Prober{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Scheme == "" {
		cfg.Scheme = def.Scheme
	}
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		cfg.Path = "/" + cfg.Path
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.Table == nil {
		cfg.Table = fingerprint.DefaultTable
	}
	return cfg
}

func dialer(cfg Config) (DialFunc, error) {
	if cfg.Dial != nil {
		return cfg.Dial, nil
	}

	direct := &net.Dialer{Timeout: cfg.Timeout}
	if cfg.Proxy == "" {
		return direct.DialContext, nil
	}

	u, err := url.Parse(cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	d, err := proxy.FromURL(u, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy dialer: %w", err)
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}, nil
}

// URL returns the probe URL for addr.
func (p *Prober) URL(addr string) string {
	return p.cfg.Scheme + "://" + addr + p.cfg.Path
}

// Probe requests the landing page of addr and classifies the response.
// Any HTTP status counts as an answer.
func (p *Prober) Probe(ctx context.Context, addr string) Outcome {
	target := p.URL(addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Outcome{Address: addr, Err: &ProbeError{
			Type:    ErrTypeOther,
			Message: "invalid probe URL",
			Address: addr,
			Err:     err,
		}}
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := p.client.Do(req)
	if err != nil {
		return Outcome{Address: addr, Err: ClassifyError(err, addr)}
	}
	defer resp.Body.Close()

	body, err := readBody(resp, p.cfg.MaxBodyBytes)
	if err != nil {
		logging.Debug("Unreadable response body",
			zap.String("addr", addr),
			zap.Error(err),
		)
	}

	return Outcome{
		Address:    addr,
		Variant:    p.cfg.Table.Classify(addr, body),
		StatusCode: resp.StatusCode,
		Title:      pageTitle(body),
	}
}
