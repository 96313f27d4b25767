package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "RASTERPAD_CONFIG"

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or from the environment
}

// NewLoader creates a new Loader. An empty overridePath falls back to the
// RASTERPAD_CONFIG environment variable.
func NewLoader(version string, overridePath string) *Loader {
	if overridePath == "" {
		overridePath = strings.TrimSpace(os.Getenv(EnvPath))
	}
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the configuration, returning defaults when no file exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".rasterpadrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, name := range []string{"config.rc", "rasterpad.rc"} {
		p := filepath.Join(configDir(), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where a new configuration file is written.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.rc")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rasterpad")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rasterpad")
}
