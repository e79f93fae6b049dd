package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every ODOO_* variable for the test so ambient shell
// configuration cannot leak into assertions. t.Setenv registers the
// restore; Unsetenv removes the value for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"ODOO_URL", "ODOO_DB", "ODOO_USER", "ODOO_PASSWORD",
		"ODOO_WORKERS", "ODOO_TIMEOUT", "ODOO_LOG_FILE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.URL != "https://odoo.com" || cfg.Database != "Testing" {
		t.Errorf("cfg = %+v, want built-in defaults", cfg)
	}
	if cfg.Workers != 4 {
		t.Errorf("cfg.Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("cfg.Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ODOO_URL", "https://erp.example.com")
	t.Setenv("ODOO_DB", "production")
	t.Setenv("ODOO_USER", "importbot")
	t.Setenv("ODOO_PASSWORD", "hunter2")
	t.Setenv("ODOO_WORKERS", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.URL != "https://erp.example.com" || cfg.Database != "production" {
		t.Errorf("cfg = %+v, want environment values", cfg)
	}
	if cfg.User != "importbot" || cfg.Password != "hunter2" {
		t.Errorf("cfg = %+v, want environment credentials", cfg)
	}
	if cfg.Workers != 8 {
		t.Errorf("cfg.Workers = %d, want 8", cfg.Workers)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "prodsync.yaml")
	content := "url: https://file.example.com\ndb: filedb\nworkers: 2\ntimeout: 10s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.URL != "https://file.example.com" || cfg.Database != "filedb" {
		t.Errorf("cfg = %+v, want file values", cfg)
	}
	if cfg.Workers != 2 || cfg.Timeout != 10*time.Second {
		t.Errorf("cfg = %+v, want workers 2 timeout 10s", cfg)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "prodsync.yaml")
	if err := os.WriteFile(path, []byte("url: https://file.example.com\n"), 0644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	t.Setenv("ODOO_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.URL != "https://env.example.com" {
		t.Errorf("cfg.URL = %q, want the environment to win", cfg.URL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() with missing explicit config file succeeded, want error")
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := Config{URL: "https://x", Database: "d", User: "u", Password: "p", Workers: 4}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.URL = "" }},
		{"empty database", func(c *Config) { c.Database = "" }},
		{"empty user", func(c *Config) { c.User = "" }},
		{"empty password", func(c *Config) { c.Password = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() accepted %s", tt.name)
			}
		})
	}
}
