// Package config holds releasebase's persistent settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abelbrown/releasebase/internal/catalog"
)

// Environment overrides.
const (
	EnvHome         = "RELEASEBASE_HOME"
	EnvAPIURL       = "RELEASEBASE_API_URL"
	EnvFilesURL     = "RELEASEBASE_FILES_URL"
	EnvFetchTimeout = "RELEASEBASE_FETCH_TIMEOUT"
)

// Config is the persistent application configuration
type Config struct {
	API    APIConfig    `json:"api"`
	UI     UIConfig     `json:"ui"`
	Events EventsConfig `json:"events"`
}

// APIConfig describes the backend.
type APIConfig struct {
	BaseURL string `json:"base_url"`
	// FilesBase prefixes /files/<file_path> links. Empty means BaseURL.
	FilesBase           string  `json:"files_base,omitempty"`
	FetchTimeoutSeconds int     `json:"fetch_timeout_seconds"`
	RequestsPerSecond   float64 `json:"requests_per_second"`
	Burst               int     `json:"burst"`
	PeopleLimit         int     `json:"people_limit"`
	PerPage             int     `json:"per_page"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	DefaultTab  string `json:"default_tab"`
	SeedSamples bool   `json:"seed_samples"` // show embedded samples until the API answers
}

// EventsConfig controls the JSONL event log.
type EventsConfig struct {
	Path     string `json:"path,omitempty"` // empty means <home>/events.jsonl
	RingSize int    `json:"ring_size"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:             "http://localhost:8000",
			FetchTimeoutSeconds: 15,
			RequestsPerSecond:   10,
			Burst:               4,
			PeopleLimit:         50,
			PerPage:             1000,
		},
		UI: UIConfig{
			DefaultTab:  string(catalog.TabAll),
			SeedSamples: true,
		},
		Events: EventsConfig{
			RingSize: 512,
		},
	}
}

// Dir is the releasebase home, ~/.releasebase unless RELEASEBASE_HOME is set.
func Dir() string {
	if d := os.Getenv(EnvHome); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".releasebase")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads the config from ConfigPath.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults; in both
// cases environment overrides are applied last.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.AutoPopulateFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path, creating the directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// AutoPopulateFromEnv applies RELEASEBASE_* overrides.
func (c *Config) AutoPopulateFromEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvFilesURL); v != "" {
		c.API.FilesBase = v
	}
	if v := os.Getenv(EnvFetchTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvFetchTimeout, err)
		}
		c.API.FetchTimeoutSeconds = int(d / time.Second)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment without overwriting variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// parseTimeout accepts a Go duration ("20s") or whole seconds ("20").
func parseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		return 0, fmt.Errorf("timeout must be at least 1s, got %s", d)
	}
	return d, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if _, err := catalog.ParseTab(c.UI.DefaultTab); err != nil {
		return fmt.Errorf("config: ui.default_tab: %w", err)
	}
	if c.API.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("config: api.fetch_timeout_seconds must be positive")
	}
	return nil
}

// FetchTimeout is the per-fetch budget for bulk document loads.
func (c *Config) FetchTimeout() time.Duration {
	if c.API.FetchTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.API.FetchTimeoutSeconds) * time.Second
}

// FilesBase returns the prefix for /files/ links.
func (c *Config) FilesBase() string {
	if c.API.FilesBase != "" {
		return c.API.FilesBase
	}
	return c.API.BaseURL
}

// DefaultTab returns the configured starting tab, falling back to all.
func (c *Config) DefaultTab() catalog.Tab {
	t, err := catalog.ParseTab(c.UI.DefaultTab)
	if err != nil {
		return catalog.TabAll
	}
	return t
}

// EventsPath returns where the JSONL event log lives.
func (c *Config) EventsPath() string {
	if c.Events.Path != "" {
		return c.Events.Path
	}
	return filepath.Join(Dir(), "events.jsonl")
}

// LogDir is where diagnostic logs are written.
func LogDir() string {
	return filepath.Join(Dir(), "logs")
}
