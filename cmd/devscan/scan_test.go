package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/muurk/devscan/internal/config"
	"github.com/muurk/devscan/internal/output"
	"github.com/muurk/devscan/internal/scanner"
	"github.com/muurk/devscan/internal/ui"
)

const ciscoBody = `<html><script>window.onload=function(){ url ='/webui';window.location.href=url;}</script></html>`

func TestResolveScanOptions(t *testing.T) {
	p := config.NewPreferences()
	p.Threads = 64
	p.Subnet = "172.16.x.x"
	p.Scheme = "http"
	p.AppendFile = true

	// Flag values as parsed; only those named in set count as given.
	saved := []interface{}{threads, subnetPattern, scheme, timeoutMs, appendFile}
	threads, subnetPattern, scheme, timeoutMs, appendFile = 5, " 10.0.0.x\n", "https", 750, false
	defer func() {
		threads = saved[0].(int)
		subnetPattern = saved[1].(string)
		scheme = saved[2].(string)
		timeoutMs = saved[3].(int)
		appendFile = saved[4].(bool)
	}()

	tests := []struct {
		name    string
		set     []string
		threads int
		pattern string
		scheme  string
		timeout time.Duration
		append  bool
	}{
		{"config wins over defaults", nil, 64, "172.16.x.x", "http", 2 * time.Second, true},
		{"flags win over config", []string{"threads", "ip-subnet", "timeout", "append-file"}, 5, "10.0.0.x", "http", 750 * time.Millisecond, false},
		{"single flag", []string{"scheme"}, 64, "172.16.x.x", "https", 2 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := func(name string) bool {
				for _, s := range tt.set {
					if s == name {
						return true
					}
				}
				return false
			}

			got := resolveScanOptions(changed, p)
			if got.Threads != tt.threads {
				t.Errorf("Threads = %d, want %d", got.Threads, tt.threads)
			}
			if got.Pattern != tt.pattern {
				t.Errorf("Pattern = %q, want %q", got.Pattern, tt.pattern)
			}
			if got.Scheme != tt.scheme {
				t.Errorf("Scheme = %q, want %q", got.Scheme, tt.scheme)
			}
			if got.Timeout != tt.timeout {
				t.Errorf("Timeout = %v, want %v", got.Timeout, tt.timeout)
			}
			if got.AppendFile != tt.append {
				t.Errorf("AppendFile = %v, want %v", got.AppendFile, tt.append)
			}
		})
	}
}

func TestScannerConfig(t *testing.T) {
	opts := scanOptions{
		Threads:        3,
		Timeout:        500 * time.Millisecond,
		Rate:           10,
		Scheme:         "http",
		Path:           "/status",
		UserAgent:      "test-agent",
		IdentifiedOnly: true,
	}
	cfg := opts.scannerConfig()

	if cfg.Threads != 3 || cfg.Rate != 10 || !cfg.IdentifiedOnly {
		t.Errorf("scannerConfig() = %+v", cfg)
	}
	if cfg.Probe.Scheme != "http" || cfg.Probe.Path != "/status" || cfg.Probe.Timeout != 500*time.Millisecond {
		t.Errorf("scannerConfig().Probe = %+v", cfg.Probe)
	}
	if cfg.Probe.MaxBodyBytes == 0 {
		t.Error("scannerConfig() dropped probe defaults")
	}
}

// localTarget serves body over plain HTTP and returns its "host:port",
// which the pattern expander passes through unchanged.
func localTarget(t *testing.T, body string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return strings.TrimPrefix(ts.URL, "http://")
}

func testOptions(t *testing.T, pattern string) scanOptions {
	dir := t.TempDir()
	return scanOptions{
		Pattern: pattern,
		Threads: 1,
		Timeout: 2 * time.Second,
		Output:  filepath.Join(dir, "devices.txt"),
		Scheme:  "http",
		Path:    "/",
	}
}

func TestScan_WritesSnapshotAndJSON(t *testing.T) {
	addr := localTarget(t, ciscoBody)
	opts := testOptions(t, addr)
	opts.JSONOutput = filepath.Join(filepath.Dir(opts.Output), "devices.json")

	var buf bytes.Buffer
	if err := scan(context.Background(), opts, ui.NewPrinter(&buf), "devscan"); err != nil {
		t.Fatalf("scan() error = %v", err)
	}

	data, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatal(err)
	}
	if want := addr + ":Cisco Router\n"; string(data) != want {
		t.Errorf("result file = %q, want %q", string(data), want)
	}

	data, err = os.ReadFile(opts.JSONOutput)
	if err != nil {
		t.Fatal(err)
	}
	var records []output.Record
	if err := jsoniter.Unmarshal(data, &records); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(records) != 1 || records[0].Category != "cisco_router" {
		t.Errorf("JSON records = %+v, want one cisco_router", records)
	}

	if !strings.Contains(buf.String(), "DEVICE SCAN") || !strings.Contains(buf.String(), "Cisco Router") {
		t.Errorf("output missing header or device table:\n%s", buf.String())
	}
}

func TestScan_AppendFile(t *testing.T) {
	addr := localTarget(t, ciscoBody)
	opts := testOptions(t, addr)
	opts.AppendFile = true

	if err := os.WriteFile(opts.Output, []byte("stale line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := scan(context.Background(), opts, ui.NewPrinter(&buf), "devscan -a"); err != nil {
		t.Fatalf("scan() error = %v", err)
	}

	data, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatal(err)
	}
	if want := addr + ":Cisco Router\n"; string(data) != want {
		t.Errorf("result file = %q, want %q (truncated then appended)", string(data), want)
	}
}

func TestScan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		threads int
		wantCfg bool
	}{
		{"too many wildcards", "x.x.x.x", 1, false},
		{"threads exceed addresses", "10.0.0.1", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t, tt.pattern)
			opts.Threads = tt.threads

			var buf bytes.Buffer
			err := scan(context.Background(), opts, ui.NewPrinter(&buf), "devscan")
			if err == nil {
				t.Fatal("scan() error = nil, want error")
			}
			if got := scanner.IsConfigError(err); got != tt.wantCfg {
				t.Errorf("IsConfigError(%v) = %v, want %v", err, got, tt.wantCfg)
			}
			if _, statErr := os.Stat(opts.Output); !os.IsNotExist(statErr) {
				t.Error("result file written for a rejected scan")
			}
		})
	}
}

func TestScan_BadProxyIsConfigError(t *testing.T) {
	opts := testOptions(t, "10.0.0.1")
	opts.Proxy = "ftp://proxy.local:21"

	var buf bytes.Buffer
	err := scan(context.Background(), opts, ui.NewPrinter(&buf), "devscan --proxy ftp://proxy.local:21")
	if !scanner.IsConfigError(err) {
		t.Fatalf("scan() error = %v, want a configuration error", err)
	}
	if !strings.Contains(buf.String(), "--proxy") {
		t.Errorf("output missing proxy hint:\n%s", buf.String())
	}
	if _, statErr := os.Stat(opts.Output); !os.IsNotExist(statErr) {
		t.Error("result file written for a rejected scan")
	}
}
