// Package config resolves process-wide settings for prodsync.
//
// Precedence, lowest to highest: built-in defaults, an optional
// prodsync.yaml config file, then ODOO_* environment variables. Command-line
// flags override on top of this in the cmd layer.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved settings for a run.
type Config struct {
	URL      string
	Database string
	User     string
	Password string

	Workers int
	Timeout time.Duration
	LogFile string
}

// Load resolves the configuration. cfgFile, when non-empty, names an
// explicit config file and must exist; otherwise prodsync.yaml is searched
// in the working directory and is optional.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("url", "https://odoo.com")
	v.SetDefault("db", "Testing")
	v.SetDefault("user", "admin")
	v.SetDefault("password", "admin")
	v.SetDefault("workers", 4)
	v.SetDefault("timeout", "30s")
	v.SetDefault("log_file", "")

	// ODOO_URL, ODOO_DB, ODOO_USER, ODOO_PASSWORD, ODOO_WORKERS, ...
	v.SetEnvPrefix("odoo")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("prodsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		URL:      v.GetString("url"),
		Database: v.GetString("db"),
		User:     v.GetString("user"),
		Password: v.GetString("password"),
		Workers:  v.GetInt("workers"),
		Timeout:  v.GetDuration("timeout"),
		LogFile:  v.GetString("log_file"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the connection settings are usable.
func (c *Config) Validate() error {
	switch {
	case c.URL == "":
		return fmt.Errorf("server URL is empty")
	case c.Database == "":
		return fmt.Errorf("database name is empty")
	case c.User == "":
		return fmt.Errorf("user is empty")
	case c.Password == "":
		return fmt.Errorf("password is empty")
	case c.Workers <= 0:
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
