package probe

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/muurk/devscan/internal/fingerprint"
)

const ciscoPage = `<html><head><title>Cisco</title></head><body><script>window.onload=function(){ url ='/webui';window.location.href=url;}</script></body></html>`

// hostOf returns the host:port of a test server URL.
func hostOf(t *testing.T, server *httptest.Server) string {
	t.Helper()
	return strings.TrimPrefix(strings.TrimPrefix(server.URL, "https://"), "http://")
}

func newTestProber(t *testing.T, cfg Config) *Prober {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestNew_Defaults(t *testing.T) {
	p := newTestProber(t, Config{Path: "status"})

	if p.cfg.Scheme != DefaultScheme {
		t.Errorf("Scheme = %s, want %s", p.cfg.Scheme, DefaultScheme)
	}
	if p.cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", p.cfg.Timeout, DefaultTimeout)
	}
	if p.client.Timeout != DefaultTimeout {
		t.Errorf("client.Timeout = %v, want %v", p.client.Timeout, DefaultTimeout)
	}
	if got := p.URL("10.0.0.1"); got != "https://10.0.0.1/status" {
		t.Errorf("URL() = %s, want https://10.0.0.1/status", got)
	}
}

func TestNew_InvalidProxy(t *testing.T) {
	if _, err := New(Config{Proxy: "ftp://proxy.local:21"}); err == nil {
		t.Error("New() with unsupported proxy scheme expected error")
	}
}

func TestProbe_SelfSignedTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, ciscoPage)
	}))
	defer server.Close()

	p := newTestProber(t, DefaultConfig())
	out := p.Probe(context.Background(), hostOf(t, server))

	if out.Err != nil {
		t.Fatalf("Probe() error = %v", out.Err)
	}
	if out.Variant != (fingerprint.CiscoRouter{}) {
		t.Errorf("Variant = %v, want Cisco Router", out.Variant)
	}
	if out.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", out.StatusCode)
	}
	if out.Title != "Cisco" {
		t.Errorf("Title = %q, want Cisco", out.Title)
	}
}

func TestProbe_AnyStatusIsClassified(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "Access Denied. Your IP Address cannot access this device")
	}))
	defer server.Close()

	p := newTestProber(t, DefaultConfig())
	out := p.Probe(context.Background(), hostOf(t, server))

	if out.Err != nil {
		t.Fatalf("Probe() error = %v", out.Err)
	}
	if out.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", out.StatusCode)
	}
	if out.Variant != (fingerprint.VirataEmWeb{}) {
		t.Errorf("Variant = %v, want Virata EmWeb", out.Variant)
	}
}

func TestProbe_DoesNotFollowRedirects(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/other" {
			_, _ = io.WriteString(w, "FileMaker Database Server Website")
			return
		}
		w.Header().Set("Location", "/other")
		w.WriteHeader(http.StatusFound)
		_, _ = io.WriteString(w, "MiVoice Office Communications Platform")
	}))
	defer server.Close()

	p := newTestProber(t, DefaultConfig())
	out := p.Probe(context.Background(), hostOf(t, server))

	if out.Err != nil {
		t.Fatalf("Probe() error = %v", out.Err)
	}
	if out.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want 302", out.StatusCode)
	}
	if out.Variant != (fingerprint.MiVoice{}) {
		t.Errorf("Variant = %v, want MiVoice", out.Variant)
	}
}

func TestProbe_TemplatedFingerprint(t *testing.T) {
	var addr string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<p>Continue <a href="https://`+addr+`/ng">here</a>.</p>`)
	}))
	defer server.Close()
	addr = hostOf(t, server)

	p := newTestProber(t, DefaultConfig())
	out := p.Probe(context.Background(), addr)

	if out.Variant != (fingerprint.Fortinet{}) {
		t.Errorf("Variant = %v, want Fortinet", out.Variant)
	}
}

func TestProbe_Timeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	p := newTestProber(t, cfg)

	out := p.Probe(context.Background(), hostOf(t, server))
	if out.Err == nil {
		t.Fatal("Probe() expected timeout error")
	}
	if out.Err.Type != ErrTypeTimeout {
		t.Errorf("Err.Type = %v, want %v (%v)", out.Err.Type, ErrTypeTimeout, out.Err)
	}
	if out.Variant != nil {
		t.Errorf("Variant = %v, want nil on failure", out.Variant)
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cfg := DefaultConfig()
	cfg.Scheme = "http"
	p := newTestProber(t, cfg)

	out := p.Probe(context.Background(), addr)
	if out.Err == nil {
		t.Fatal("Probe() expected connection error")
	}
	if out.Err.Type != ErrTypeConnectionRefused {
		t.Errorf("Err.Type = %v, want %v (%v)", out.Err.Type, ErrTypeConnectionRefused, out.Err)
	}
}

func TestProbe_DialOverride(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "MITSUBISHI Air Conditioning Control System")
	}))
	defer server.Close()
	target := hostOf(t, server)

	cfg := DefaultConfig()
	cfg.Dial = func(ctx context.Context, network, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, network, target)
	}
	p := newTestProber(t, cfg)

	out := p.Probe(context.Background(), "10.0.5.1")
	if out.Err != nil {
		t.Fatalf("Probe() error = %v", out.Err)
	}
	if out.Variant != (fingerprint.MitsubishiAC{}) {
		t.Errorf("Variant = %v, want Mitsubishi Air Conditioning", out.Variant)
	}
}

func TestProbe_ResetWhileDialing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dial = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: network, Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNRESET}}
	}
	p := newTestProber(t, cfg)

	out := p.Probe(context.Background(), "10.0.5.1")
	if out.Err == nil {
		t.Fatal("Probe() expected connection error")
	}
	if out.Err.Type != ErrTypeConnectionRefused {
		t.Errorf("Err.Type = %v, want %v (%v)", out.Err.Type, ErrTypeConnectionRefused, out.Err)
	}
}

func TestProbe_CompressedBodies(t *testing.T) {
	const page = "<title>HP</title> HP LaserJet M506"

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = io.WriteString(zw, page)
	_ = zw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = io.WriteString(bw, page)
	_ = bw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
		want     fingerprint.Variant
	}{
		{"gzip", "gzip", gz.Bytes(), fingerprint.HPPrinter{Model: fingerprint.LaserJetM506}},
		{"brotli", "br", br.Bytes(), fingerprint.HPPrinter{Model: fingerprint.LaserJetM506}},
		{"corrupt gzip", "gzip", []byte("not gzip"), fingerprint.Unidentified{}},
		{"unknown encoding", "zstd", []byte(page), fingerprint.Unidentified{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tt.encoding)
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			p := newTestProber(t, DefaultConfig())
			out := p.Probe(context.Background(), hostOf(t, server))
			if out.Err != nil {
				t.Fatalf("Probe() error = %v", out.Err)
			}
			if out.Variant != tt.want {
				t.Errorf("Variant = %v, want %v", out.Variant, tt.want)
			}
		})
	}
}

func TestReadBody_DecodedSizeIsCapped(t *testing.T) {
	const limit = 64 << 10

	// 8 MiB of one byte compresses to a few KiB, well under limit.
	plain := bytes.Repeat([]byte("A"), 8<<20)

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(plain)
	_ = zw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = bw.Write(plain)
	_ = bw.Close()

	tests := []struct {
		encoding string
		body     []byte
	}{
		{"gzip", gz.Bytes()},
		{"br", br.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			if len(tt.body) >= limit {
				t.Fatalf("compressed body is %d bytes, want under %d", len(tt.body), limit)
			}
			resp := &http.Response{
				Header: http.Header{
					"Content-Encoding": {tt.encoding},
					"Content-Type":     {"text/html; charset=utf-8"},
				},
				Body: io.NopCloser(bytes.NewReader(tt.body)),
			}

			got, err := readBody(resp, limit)
			if err != nil {
				t.Fatalf("readBody() error = %v", err)
			}
			if len(got) != limit {
				t.Errorf("readBody() returned %d bytes, want %d", len(got), limit)
			}
		})
	}
}

func TestTranscode_Limit(t *testing.T) {
	latin1 := bytes.Repeat([]byte("\xe9"), 100)

	got, err := transcode(latin1, "text/html; charset=iso-8859-1", 50)
	if err != nil {
		t.Fatalf("transcode() error = %v", err)
	}
	if len(got) != 50 {
		t.Errorf("transcode() returned %d bytes, want 50", len(got))
	}
}

func TestTranscode(t *testing.T) {
	latin1 := []byte("<title>Caf\xe9</title>")

	got, err := transcode(latin1, "text/html; charset=iso-8859-1", DefaultMaxBodyBytes)
	if err != nil {
		t.Fatalf("transcode() error = %v", err)
	}
	if pageTitle(got) != "Café" {
		t.Errorf("pageTitle() = %q, want Café", pageTitle(got))
	}

	empty, err := transcode(nil, "text/html", DefaultMaxBodyBytes)
	if err != nil || empty != "" {
		t.Errorf("transcode(nil) = %q, %v", empty, err)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"", ""},
		{"<html><head><title>  HP   LaserJet\n M605 </title></head></html>", "HP LaserJet M605"},
		{"<title>first</title><title>second</title>", "first"},
		{"no markup at all", ""},
	}
	for _, tt := range tests {
		if got := pageTitle(tt.body); got != tt.want {
			t.Errorf("pageTitle(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
