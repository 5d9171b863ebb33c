// Package config loads hdbwrap settings from config files, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/satishbabariya/hdbwrap/internal/adapters/database"
	"github.com/satishbabariya/hdbwrap/internal/adapters/telemetry"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem config and .env files are looked up on.
var AppFs = afero.NewOsFs()

// FileName is the config file name without extension.
const FileName = ".hdbwrap"

// Config holds the application configuration
type Config struct {
	Provider       string
	DatabaseURL    string
	MaxConnections int
	MaxIdleTime    int
	ConnectTimeout int
	Debug          bool
	Telemetry      string
}

// Database returns the connection settings.
func (c *Config) Database() database.Config {
	return database.Config{
		Provider:       c.Provider,
		URL:            c.DatabaseURL,
		MaxConnections: c.MaxConnections,
		MaxIdleTime:    c.MaxIdleTime,
		ConnectTimeout: c.ConnectTimeout,
	}
}

// TelemetryConfig returns the metrics settings.
func (c *Config) TelemetryConfig() *telemetry.Config {
	return &telemetry.Config{Type: c.Telemetry}
}

// New returns a viper instance with the search paths, environment
// binding and defaults of hdbwrap.
func New() (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "hdbwrap"))

	v.SetEnvPrefix("HDBWRAP")
	v.AutomaticEnv()

	v.SetDefault("provider", "")
	v.SetDefault("database_url", "")
	v.SetDefault("max_connections", 10)
	v.SetDefault("max_idle_time", 300)
	v.SetDefault("connect_timeout", 10)
	v.SetDefault("debug", false)
	v.SetDefault("telemetry", string(telemetry.TypeNoop))
	return v, nil
}

// Load reads the config file if one exists, then .env and .env.local
// from the working directory, and decodes the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Both files are optional; a malformed one is ignored.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	// .env.local wins over .env and the process environment.
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:       v.GetString("provider"),
		DatabaseURL:    v.GetString("database_url"),
		MaxConnections: v.GetInt("max_connections"),
		MaxIdleTime:    v.GetInt("max_idle_time"),
		ConnectTimeout: v.GetInt("connect_timeout"),
		Debug:          v.GetBool("debug"),
		Telemetry:      v.GetString("telemetry"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// LoadConfig loads configuration from the default sources.
func LoadConfig() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path instead of the search paths.
// An empty path searches as LoadConfig does.
func LoadFile(path string) (*Config, error) {
	v, err := New()
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
	}
	return Load(v)
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("max_connections", cfg.MaxConnections)
	v.Set("max_idle_time", cfg.MaxIdleTime)
	v.Set("connect_timeout", cfg.ConnectTimeout)
	v.Set("debug", cfg.Debug)
	v.Set("telemetry", cfg.Telemetry)
	return v.WriteConfigAs(path)
}
