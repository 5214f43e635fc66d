package config

// CurrentVersion is the only preferences file version this build reads.
const CurrentVersion = 1

// Preferences represents the user's saved scan defaults. Any field left
// at its zero value falls back to the built-in default; command-line
// flags always win over both.
type Preferences struct {
	Version int `yaml:"version"`

	Threads     int    `yaml:"threads,omitempty"`      // Concurrent probing workers
	TimeoutMs   int    `yaml:"timeout_ms,omitempty"`   // Per-probe timeout in milliseconds
	Subnet      string `yaml:"subnet,omitempty"`       // Default address pattern (e.g., "10.208.x.x")
	ProgressBar *bool  `yaml:"progress_bar,omitempty"` // Show progress display (nil = default on)
	AppendFile  bool   `yaml:"append_file,omitempty"`  // Append results as they are found
	Output      string `yaml:"output,omitempty"`       // Result file path
	JSONOutput  string `yaml:"json_output,omitempty"`  // Optional JSON export path

	Scheme    string  `yaml:"scheme,omitempty"`     // Probe scheme ("https" or "http")
	Path      string  `yaml:"path,omitempty"`       // Probe path
	UserAgent string  `yaml:"user_agent,omitempty"` // Probe User-Agent header
	Rate      int     `yaml:"rate,omitempty"`       // Probes per second across all workers (0 = unlimited)
	Proxy     string  `yaml:"proxy,omitempty"`      // Optional socks5:// proxy

	MDNSTimeoutS int `yaml:"mdns_timeout_s,omitempty"` // mDNS browse duration in seconds

	PublishURL   string `yaml:"publish_url,omitempty"`   // redis:// or amqp:// broker for found devices
	PublishQueue string `yaml:"publish_queue,omitempty"` // List or queue name on the broker

	ServeAddr string `yaml:"serve_addr,omitempty"` // Listen address for "devscan serve"
}

// NewPreferences creates Preferences with default values.
func NewPreferences() *Preferences {
	on := true
	return &Preferences{
		Version:      CurrentVersion,
		Threads:      20,
		TimeoutMs:    2000,
		Subnet:       "10.208.x.x",
		ProgressBar:  &on,
		Output:       "devices.txt",
		Scheme:       "https",
		Path:         "/",
		MDNSTimeoutS: 5,
		PublishQueue: "devscan",
		ServeAddr:    ":8080",
	}
}

// ShowProgress reports whether the progress display is enabled.
func (p *Preferences) ShowProgress() bool {
	return p.ProgressBar == nil || *p.ProgressBar
}

// fillDefaults sets every unset field to its default.
func (p *Preferences) fillDefaults() {
	d := NewPreferences()
	if p.Threads == 0 {
		p.Threads = d.Threads
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = d.TimeoutMs
	}
	if p.Subnet == "" {
		p.Subnet = d.Subnet
	}
	if p.ProgressBar == nil {
		p.ProgressBar = d.ProgressBar
	}
	if p.Output == "" {
		p.Output = d.Output
	}
	if p.Scheme == "" {
		p.Scheme = d.Scheme
	}
	if p.Path == "" {
		p.Path = d.Path
	}
	if p.MDNSTimeoutS == 0 {
		p.MDNSTimeoutS = d.MDNSTimeoutS
	}
	if p.PublishQueue == "" {
		p.PublishQueue = d.PublishQueue
	}
	if p.ServeAddr == "" {
		p.ServeAddr = d.ServeAddr
	}
}
