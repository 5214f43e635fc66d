package scanner

import (
	"errors"
	"fmt"

	"github.com/muurk/devscan/internal/probe"
)

// DefaultThreads is the default number of concurrent probing workers
const DefaultThreads = 20

// Config holds dispatcher settings.
type Config struct {
	// Threads is the number of workers; the address list is split into
	// this many chunks.
	Threads int

	// Verbose also reports timeouts and refused connections.
	Verbose bool

	// IdentifiedOnly drops pages that match no fingerprint.
	IdentifiedOnly bool

	// Rate caps probes per second across all workers. Zero means unlimited.
	Rate int

	// Probe configures each worker's prober.
	Probe probe.Config
}

// DefaultConfig returns the default scan configuration.
func DefaultConfig() Config {
	return Config{
		Threads: DefaultThreads,
		Probe:   probe.DefaultConfig(),
	}
}

// ConfigError reports a scan configuration that was rejected before any
// host was probed.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error is a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// Validate checks the configuration against the number of addresses to
// scan. More workers than addresses is rejected.
func (c Config) Validate(addresses int) error {
	if addresses <= 0 {
		return &ConfigError{Field: "addresses", Message: "no addresses to scan"}
	}
	if c.Threads <= 0 {
		return &ConfigError{Field: "threads", Message: fmt.Sprintf("must be positive, got %d", c.Threads)}
	}
	if c.Threads > addresses {
		return &ConfigError{
			Field:   "threads",
			Message: fmt.Sprintf("%d threads exceeds %d addresses", c.Threads, addresses),
		}
	}
	if c.Rate < 0 {
		return &ConfigError{Field: "rate", Message: fmt.Sprintf("must not be negative, got %d", c.Rate)}
	}
	if c.Probe.Timeout < 0 {
		return &ConfigError{Field: "timeout", Message: fmt.Sprintf("must not be negative, got %v", c.Probe.Timeout)}
	}
	return nil
}
