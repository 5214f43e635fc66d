// Devscan finds embedded web devices on a network.
//
// It expands a wildcard address pattern such as 10.208.x.x, requests the
// landing page of every host concurrently and identifies the device from
// the response body: printers, remote access controllers, routers,
// building management consoles and more. Confirmed devices are written to
// a text file, one "<address>:<device>" line each.
//
// Usage:
//
//	devscan [flags]
//	devscan [command]
//
// See 'devscan --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/devscan/internal/config"
	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	configPath string
)

// prefs holds the loaded configuration file, filled with defaults.
var prefs *config.Preferences

var rootCmd = &cobra.Command{
	Use:   "devscan",
	Short: "Embedded web device scanner",
	Long: `Scan a subnet for embedded web devices and identify them by their landing page.

Every address matched by the --ip-subnet pattern is probed with a single
HTTP(S) GET. Responses are matched against an ordered fingerprint table and
confirmed devices are written to the output file as "<address>:<device>".

Defaults come from the configuration file (see 'devscan config path');
command-line flags override it.`,
	Example: `  # Scan the default subnet with 20 workers
  devscan

  # Scan one /24 with 50 workers, appending results as they are found
  devscan -i 10.0.5.x -t 50 -a

  # Plain HTTP against a status page, also export JSON
  devscan -i 192.168.1.x --scheme http --path /status --json devices.json

  # Add hosts advertised over mDNS and look up their names and vendors
  devscan -i 192.168.1.x --mdns --enrich`,
	Version:           version.Version,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	RunE:              runScan,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default: user config directory)")

	rootCmd.AddCommand(fingerprintsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// skipConfigLoad marks commands that must work while the configuration
// file is unreadable, so a broken file can still be located and replaced.
const skipConfigLoad = "devscan/skip-config-load"

// setup initializes logging and loads the configuration file before any
// command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	if _, skip := cmd.Annotations[skipConfigLoad]; skip {
		prefs = config.NewPreferences()
		return nil
	}

	var err error
	if configPath != "" {
		prefs, err = config.LoadFile(configPath)
	} else {
		prefs, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.Detailed())
	},
}
