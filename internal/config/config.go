// Package config handles loading the dashboard configuration.
//
// Sources, later ones winning:
//   - built-in defaults
//   - ~/.config/aghi-dashboard/config.yaml (XDG_CONFIG_HOME respected)
//   - .env in the working directory
//   - AGHI_* environment variables
//
// Command-line flags are applied on top by cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName names the config directory and the default log file.
const AppName = "aghi-dashboard"

// Default boundary sources, used when no local copy exists.
const (
	DefaultStateGeoJSONURL    = "https://raw.githubusercontent.com/geohacker/india/master/state/india_state.geojson"
	DefaultDistrictGeoJSONURL = "https://raw.githubusercontent.com/geohacker/india/master/district/india_district.geojson"
)

// Config is the resolved configuration.
type Config struct {
	APIBase            string        `yaml:"api_base"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	GeometryDir        string        `yaml:"geometry_dir,omitempty"`
	StateGeoJSONURL    string        `yaml:"state_geojson_url,omitempty"`
	DistrictGeoJSONURL string        `yaml:"district_geojson_url,omitempty"`
	DefaultState       string        `yaml:"default_state,omitempty"`
	RankingLimit       int           `yaml:"ranking_limit,omitempty"`
	SettleDelay        time.Duration `yaml:"settle_delay,omitempty"`
	LogFile            string        `yaml:"log_file,omitempty"`
	MetricsAddr        string        `yaml:"metrics_addr,omitempty"`
	ArchivePath        string        `yaml:"archive_path,omitempty"`
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	dir := Dir()
	cfg := Config{
		APIBase:            "http://localhost:5000/api",
		RequestTimeout:     30 * time.Second,
		StateGeoJSONURL:    DefaultStateGeoJSONURL,
		DistrictGeoJSONURL: DefaultDistrictGeoJSONURL,
		DefaultState:       "Maharashtra",
		RankingLimit:       10,
		SettleDelay:        400 * time.Millisecond,
		LogFile:            AppName + ".log",
	}
	if dir != "" {
		cfg.GeometryDir = filepath.Join(dir, "geo")
		cfg.ArchivePath = filepath.Join(dir, "briefings.db")
	}
	return cfg
}

// Dir returns the XDG config directory for the dashboard.
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the full path to config.yaml.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load resolves the configuration from the default file, .env and the
// environment. path overrides the config file location when set.
func Load(path string) (Config, error) {
	if path == "" {
		path = Path()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	_ = godotenv.Load(".env")
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom reads config from a specific path.
// Returns Default if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.GeometryDir = expandHome(cfg.GeometryDir)
	cfg.ArchivePath = expandHome(cfg.ArchivePath)
	cfg.LogFile = expandHome(cfg.LogFile)
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"AGHI_API_BASE":             &c.APIBase,
		"AGHI_GEOMETRY_DIR":         &c.GeometryDir,
		"AGHI_STATE_GEOJSON_URL":    &c.StateGeoJSONURL,
		"AGHI_DISTRICT_GEOJSON_URL": &c.DistrictGeoJSONURL,
		"AGHI_DEFAULT_STATE":        &c.DefaultState,
		"AGHI_LOG_FILE":             &c.LogFile,
		"AGHI_METRICS_ADDR":         &c.MetricsAddr,
		"AGHI_ARCHIVE_PATH":         &c.ArchivePath,
	}
	for key, dst := range str {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	if v := strings.TrimSpace(getenv("AGHI_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AGHI_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate rejects settings the dashboard cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("api_base is required")
	}
	if !strings.HasPrefix(c.APIBase, "http://") && !strings.HasPrefix(c.APIBase, "https://") {
		return fmt.Errorf("api_base %q must be an http(s) URL", c.APIBase)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RankingLimit < 0 {
		return fmt.Errorf("ranking_limit must not be negative")
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
