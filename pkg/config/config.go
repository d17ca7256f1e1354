package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr    = ":8080"
	defaultDatabasePath  = "poolfs.db"
	defaultReapInterval  = 6 * time.Hour
	defaultReapMaxAge    = 24 * time.Hour
	defaultStoragePath   = "./storage"
	envListenAddr        = "POOLFS_LISTEN_ADDR"
	envDatabasePath      = "POOLFS_DB_PATH"
	envStoragePaths      = "POOLFS_STORAGE_PATHS"
	envReapIntervalHours = "POOLFS_REAP_INTERVAL_HOURS"
	envReapMaxAgeHours   = "POOLFS_REAP_MAX_AGE_HOURS"
)

// Config holds the daemon configuration loaded at startup.
type Config struct {
	ListenAddr        string   `yaml:"listen_addr"`
	DatabasePath      string   `yaml:"database_path"`
	StoragePaths      []string `yaml:"storage_paths"`
	ReapIntervalHours int      `yaml:"reap_interval_hours"`
	ReapMaxAgeHours   int      `yaml:"reap_max_age_hours"`
	Debug             bool     `yaml:"debug"`
}

// Load reads the YAML config file at path (if it exists), applies
// environment overrides and fills in defaults. A missing file is not an
// error: the daemon can run entirely from env/defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env/defaults
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// ReapInterval returns the configured sweep interval as a duration.
func (c *Config) ReapInterval() time.Duration {
	if c.ReapIntervalHours <= 0 {
		return defaultReapInterval
	}
	return time.Duration(c.ReapIntervalHours) * time.Hour
}

// ReapMaxAge returns the configured temp-file age threshold as a duration.
func (c *Config) ReapMaxAge() time.Duration {
	if c.ReapMaxAgeHours <= 0 {
		return defaultReapMaxAge
	}
	return time.Duration(c.ReapMaxAgeHours) * time.Hour
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envStoragePaths); v != "" {
		cfg.StoragePaths = splitComma(v)
	}
	if v := os.Getenv(envReapIntervalHours); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReapIntervalHours = n
		}
	}
	if v := os.Getenv(envReapMaxAgeHours); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReapMaxAgeHours = n
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if len(cfg.StoragePaths) == 0 {
		cfg.StoragePaths = []string{defaultStoragePath}
	}
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
