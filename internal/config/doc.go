// Package config provides user configuration management for devscan.
//
// This package manages a YAML-based preferences file holding scan
// defaults: thread count, timeout, default subnet, output paths, probe
// target and broker settings. Command-line flags override every value in
// the file; values missing from the file fall back to built-in defaults.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/devscan/config.yaml or $HOME/.config/devscan/config.yaml
//   - macOS: $HOME/.config/devscan/config.yaml
//   - Windows: %LOCALAPPDATA%\devscan\config.yaml
//
// # Usage Example
//
//	prefs, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prefs.Threads = 40
//	path, _ := config.GetConfigPath()
//	if err := prefs.Save(path); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Load and LoadFile return a fresh value on every call. Save is
// serialized by a mutex and replaces the file with a rename.
package config
