package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "devscan"
	configFile = "config.yaml"
)

var fileMutex sync.Mutex // serializes Save

// GetConfigDir returns the per-user directory holding config.yaml:
// %LOCALAPPDATA%\devscan on Windows, otherwise $XDG_CONFIG_HOME/devscan
// or ~/.config/devscan (macOS included).
func GetConfigDir() (string, error) {
	base, err := configBase()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

func configBase() (string, error) {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Local"), nil
		}
		return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
	}

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && runtime.GOOS != "darwin" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the preferences from GetConfigPath. A missing file yields
// defaults.
func Load() (*Preferences, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile reads preferences from path. A missing file yields defaults;
// unset fields in an existing file are filled with defaults.
func LoadFile(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewPreferences(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if prefs.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", prefs.Version, CurrentVersion)
	}

	prefs.fillDefaults()
	return &prefs, nil
}

// Marshal returns the YAML form of the preferences.
func (p *Preferences) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the preferences to path with a commented header. The file
// is written beside path and renamed into place.
func (p *Preferences) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := p.Marshal()
	if err != nil {
		return err
	}

	header := []byte(`# devscan configuration file
# Scan defaults. Command-line flags override every value here.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes default preferences to path.
func CreateDefaultConfig(path string) error {
	return NewPreferences().Save(path)
}
