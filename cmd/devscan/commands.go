package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/devscan/internal/config"
	"github.com/muurk/devscan/internal/fingerprint"
	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/server"
	"github.com/muurk/devscan/internal/ui"
)

// fingerprintsCmd prints the fingerprint table
var fingerprintsCmd = &cobra.Command{
	Use:   "fingerprints",
	Short: "List known device fingerprints",
	Long: `List every fingerprint in the order it is tried.

A response is classified by the first entry whose text appears in the body,
so more specific signatures are listed before generic vendor banners.
Templated entries have the probed address substituted before matching.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		table := fingerprint.DefaultTable
		if err := table.Validate(); err != nil {
			return fmt.Errorf("fingerprint table is inconsistent: %w", err)
		}

		out := ui.NewPrinter(os.Stdout)
		out.PrintHeader("FINGERPRINTS", "devscan fingerprints",
			ui.Param{Key: "Entries", Value: fmt.Sprintf("%d", len(table))},
		)
		out.Println(ui.RenderFingerprints(table))
		return nil
	},
}

// Serve command flags
var (
	serveAddr string
	tlsCert   string
	tlsKey    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scans on request over JSON-RPC",
	Long: `Start a control server that runs scans on request.

Scans are requested with a JSON-RPC call to ScanService.Scan at /rpc and run
one at a time. Progress, per-host messages and found devices are streamed as
JSON to every websocket client connected to /events.

Scan defaults (threads, timeout, scheme, path) come from the configuration
file; each request may override them.`,
	Example: `  # Listen on the configured address (default :8080)
  devscan serve

  # Serve over HTTPS
  devscan serve --addr :8443 --tls-cert cert.pem --tls-key key.pem

  # Request a scan
  curl -s -H 'Content-Type: application/json' localhost:8080/rpc \
    -d '{"method":"ScanService.Scan","params":[{"Subnet":"10.0.5.x"}],"id":1}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, \":8080\")")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	// A server is expected to log; default to info unless told otherwise.
	if logLevel == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		if err := logging.Initialize("info"); err != nil {
			return err
		}
	}

	addr := prefs.ServeAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	noFlags := func(string) bool { return false }
	scanCfg := resolveScanOptions(noFlags, prefs).scannerConfig()

	srv, err := server.New(&server.Config{
		Addr:     addr,
		CertPath: tlsCert,
		KeyPath:  tlsKey,
		Scan:     scanCfg,
	})
	if err != nil {
		return err
	}

	scheme := "http"
	if tlsCert != "" {
		scheme = "https"
	}
	ui.NewPrinter(os.Stdout).PrintHeader("CONTROL SERVER", "devscan serve",
		ui.Param{Key: "Listen", Value: addr},
		ui.Param{Key: "RPC", Value: scheme + "://" + addr + "/rpc"},
		ui.Param{Key: "Events", Value: "/events (websocket)"},
		ui.Param{Key: "Threads", Value: fmt.Sprintf("%d", scanCfg.Threads)},
	)

	return srv.Start()
}

// Config command flags
var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigLoad: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := activeConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := prefs.Marshal()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a configuration file with default values",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigLoad: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path, err := activeConfigPath()
		if err != nil {
			return err
		}

		out := ui.NewPrinter(os.Stdout)
		if _, err := os.Stat(path); err == nil && !forceInit {
			ok := ui.Confirm(os.Stdin, os.Stdout, "Configuration file exists",
				[]string{path + " will be replaced with default values"},
				"Overwrite it?")
			if !ok {
				out.Println("Aborted.")
				return nil
			}
		}

		if err := config.CreateDefaultConfig(path); err != nil {
			out.PrintError("Failed to write configuration", err, nil)
			return err
		}
		out.PrintResult(ui.NewSuccessResult("Configuration written", ui.Param{Key: "Path", Value: path}))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// activeConfigPath returns --config when set, otherwise the default path.
func activeConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}
