package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all bwise configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// APIConfig selects the backend endpoint. BaseURL wins when set; otherwise
// Platform picks the development host the backend is reachable on.
type APIConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	Platform   string `toml:"platform,omitempty"` // android-emulator | ios-simulator | device
	DeviceHost string `toml:"device_host,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// GeneralConfig holds general preferences. MonthlyBudget of zero disables
// budget alerts.
type GeneralConfig struct {
	DefaultDays   int     `toml:"default_days"`
	Currency      string  `toml:"currency"`
	MonthlyBudget float64 `toml:"monthly_budget,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds background monitor settings.
type DaemonConfig struct {
	Addr        string `toml:"addr,omitempty"`
	IntervalSec int    `toml:"interval_sec"`
}

const (
	defaultPort    = 5091
	defaultTimeout = 30 // seconds, matches the backend's configured limit
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Platform:   "ios-simulator",
			TimeoutSec: defaultTimeout,
		},
		General: GeneralConfig{
			DefaultDays: 30,
			Currency:    "USD",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			IntervalSec: 60,
		},
	}
}

// ResolveBaseURL returns the API endpoint to use: BWISE_API_URL env, then
// the configured base_url, then the platform preset.
func ResolveBaseURL(cfg Config) string {
	if url := os.Getenv("BWISE_API_URL"); url != "" {
		return url
	}
	if cfg.API.BaseURL != "" {
		return cfg.API.BaseURL
	}

	switch cfg.API.Platform {
	case "android-emulator":
		// 10.0.2.2 maps to the host machine's loopback
		return fmt.Sprintf("http://10.0.2.2:%d", defaultPort)
	case "device":
		host := cfg.API.DeviceHost
		if host == "" {
			host = "192.168.1.238"
		}
		return fmt.Sprintf("http://%s:%d", host, defaultPort)
	default: // ios-simulator and anything unrecognized
		return fmt.Sprintf("http://localhost:%d", defaultPort)
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bwise")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding the local store database.
// BWISE_DATA_DIR overrides for tests and sandboxed runs.
func DataDir() string {
	if dir := os.Getenv("BWISE_DATA_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "bwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "bwise")
}

// StorePath returns the full path of the local SQLite store.
func StorePath() string {
	return filepath.Join(DataDir(), "bwise.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
