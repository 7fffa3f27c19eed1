// Package file loads and persists the TOML configuration at
// ~/.skycatch/config.toml.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk configuration.
type Config struct {
	// DataDir holds the SQLite archive. Empty means ~/.skycatch/data.
	DataDir string `toml:"data_dir,omitempty"`

	// Verbose enables diagnostic logging.
	Verbose bool `toml:"verbose,omitempty"`

	Horizons HorizonsConfig `toml:"horizons"`
}

// HorizonsConfig configures the JPL Horizons ephemeris client.
type HorizonsConfig struct {
	// BaseURL is the Horizons API endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// RequestsPerSecond throttles outgoing ephemeris requests.
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`

	// TimeoutSeconds bounds one ephemeris request.
	TimeoutSeconds int `toml:"timeout_seconds,omitempty"`
}

// DefaultHorizonsURL is the public Horizons API endpoint.
const DefaultHorizonsURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Horizons: HorizonsConfig{
			BaseURL:           DefaultHorizonsURL,
			RequestsPerSecond: 1,
			TimeoutSeconds:    60,
		},
	}
}

// Path returns the config file path for a config directory.
// If configDir is empty, defaults to ~/.skycatch.
func Path(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".skycatch")
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads the configuration, filling unset fields with defaults.
// A missing file is not an error; the defaults are returned.
func Load(configDir string) (Config, error) {
	cfg := Default()

	path, err := Path(configDir)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Horizons.BaseURL == "" {
		cfg.Horizons.BaseURL = DefaultHorizonsURL
	}
	if cfg.Horizons.RequestsPerSecond <= 0 {
		cfg.Horizons.RequestsPerSecond = 1
	}
	if cfg.Horizons.TimeoutSeconds <= 0 {
		cfg.Horizons.TimeoutSeconds = 60
	}

	return cfg, nil
}

// Save writes the configuration, creating the directory if needed.
func Save(configDir string, cfg Config) error {
	path, err := Path(configDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
