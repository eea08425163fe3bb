package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/mealplan/internal/constants"
	"github.com/julianstephens/mealplan/internal/utils"
)

// Environment variables that override the config file.
const (
	EnvStore        = "MEALPLAN_STORE"
	EnvTimezone     = "MEALPLAN_TIMEZONE"
	EnvDebug        = "MEALPLAN_DEBUG"
	EnvDBConnection = "MEALPLAN_DB_CONNECTION"
)

const (
	FileName           = "config.yaml"
	DefaultRowsPerHour = 2
)

// Config is the on-disk application configuration.
type Config struct {
	// Store selects the backend: a SQLite path, a .json path, ":memory:",
	// a password-free PostgreSQL URL, or "keyring".
	Store string `yaml:"store"`

	// Timezone is the IANA zone used for "today" and calendar exports.
	Timezone string `yaml:"timezone"`

	Debug bool `yaml:"debug"`

	// TrayIdentifier names the notification tray app's config directory.
	TrayIdentifier string `yaml:"tray_identifier"`

	// RowsPerHour is the terminal timeline scale.
	RowsPerHour int `yaml:"rows_per_hour"`

	// DBConnection is only ever taken from the environment.
	DBConnection string `yaml:"-"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store:          constants.DefaultStorePath,
		Timezone:       "Local",
		TrayIdentifier: constants.TrayAppIdentifier,
		RowsPerHour:    DefaultRowsPerHour,
	}
}

// Normalize fills in missing values so older config files keep working.
func (c *Config) Normalize() {
	if c.Store == "" {
		c.Store = constants.DefaultStorePath
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TrayIdentifier == "" {
		c.TrayIdentifier = constants.TrayAppIdentifier
	}
	if c.RowsPerHour <= 0 || c.RowsPerHour > 60 {
		c.RowsPerHour = DefaultRowsPerHour
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DefaultPath returns ~/.config/mealplan/config.yaml.
func DefaultPath() (string, error) {
	dir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Load reads the YAML config at path. On first run the file does not exist
// yet; a default config is written (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".mealplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// LoadEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from MEALPLAN_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		c.Debug = debug
	}
	c.DBConnection = os.Getenv(EnvDBConnection)
	return nil
}
