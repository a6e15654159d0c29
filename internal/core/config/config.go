// Package config handles configuration loading and validation for pixelfeed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/pixelfeed/internal/core/styles"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

// Storage drivers.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config holds the application configuration.
type Config struct {
	User     string         `yaml:"user"`
	Toasts   ToastConfig    `yaml:"toasts"`
	TUI      TUIConfig      `yaml:"tui"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// ToastConfig configures the toast queue.
type ToastConfig struct {
	Limit       int           `yaml:"limit"`        // max toasts kept in the queue
	RemoveDelay time.Duration `yaml:"remove_delay"` // how long a dismissed toast lingers
	Duration    time.Duration `yaml:"duration"`     // how long the TUI shows a toast before dismissing it
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// StorageConfig selects and configures the image store.
type StorageConfig struct {
	Driver string       `yaml:"driver"` // local or s3
	Local  LocalStorage `yaml:"local"`
	S3     S3Storage    `yaml:"s3"`
}

// LocalStorage stores images in a directory.
type LocalStorage struct {
	Dir     string `yaml:"dir"`      // defaults to <data-dir>/images
	BaseURL string `yaml:"base_url"` // empty means file:// URLs
}

// S3Storage stores images in an S3-compatible bucket.
type S3Storage struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Endpoint       string `yaml:"endpoint"`
	BaseURL        string `yaml:"base_url"`
	AccessKeyID    string `yaml:"access_key_id"`
	SecretKey      string `yaml:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

// DatabaseConfig tunes the SQLite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toasts: ToastConfig{
			Limit:       toast.DefaultLimit,
			RemoveDelay: toast.DefaultRemoveDelay,
			Duration:    5 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Storage: StorageConfig{
			Driver: DriverLocal,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toasts.Limit == 0 {
		c.Toasts.Limit = defaults.Toasts.Limit
	}
	if c.Toasts.RemoveDelay == 0 {
		c.Toasts.RemoveDelay = defaults.Toasts.RemoveDelay
	}
	if c.Toasts.Duration == 0 {
		c.Toasts.Duration = defaults.Toasts.Duration
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaults.Storage.Driver
	}
	if c.Storage.Local.Dir == "" && c.DataDir != "" {
		c.Storage.Local.Dir = c.ImagesDir()
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Toasts.Limit < 1 {
		return fmt.Errorf("toasts.limit must be at least 1")
	}
	if c.Toasts.RemoveDelay < 0 {
		return fmt.Errorf("toasts.remove_delay cannot be negative")
	}
	if c.Toasts.Duration < 0 {
		return fmt.Errorf("toasts.duration cannot be negative")
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not one of %s", c.TUI.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	switch c.Storage.Driver {
	case DriverLocal:
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver %q must be %q or %q", c.Storage.Driver, DriverLocal, DriverS3)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	return nil
}

// ImagesDir returns the default directory for locally stored images.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "pixelfeed.log")
}
