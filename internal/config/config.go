// Package config reads service settings from the environment (optionally
// seeded from a .env file) and chart layout options from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr         = ":8080"
	defaultDBPath       = "./gantt.db"
	defaultViewName     = "default"
	defaultStoreTimeout = 10 * time.Second
)

type Config struct {
	Addr         string
	DBPath       string
	ViewName     string
	ChartFile    string
	LogLevel     string
	LogFormat    string
	OdooURL      string
	OdooDB       string
	OdooLogin    string
	OdooPassword string
	StoreTimeout time.Duration
}

// Load reads the given .env files (default ".env"; a missing default file is
// not an error) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	explicit := len(envFiles) > 0
	if !explicit {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env files %v: %w", envFiles, err)
		}
	}

	cfg := &Config{
		Addr:         getenv("GANTT_ADDR", defaultAddr),
		DBPath:       getenv("GANTT_DB", defaultDBPath),
		ViewName:     getenv("GANTT_VIEW", defaultViewName),
		ChartFile:    os.Getenv("GANTT_CHART_FILE"),
		LogLevel:     getenv("GANTT_LOG_LEVEL", "info"),
		LogFormat:    os.Getenv("GANTT_LOG_FORMAT"),
		OdooURL:      os.Getenv("ODOO_URL"),
		OdooDB:       os.Getenv("ODOO_DB"),
		OdooLogin:    os.Getenv("ODOO_LOGIN"),
		OdooPassword: os.Getenv("ODOO_PASSWORD"),
		StoreTimeout: defaultStoreTimeout,
	}

	if v := os.Getenv("GANTT_STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GANTT_STORE_TIMEOUT: %w", err)
		}
		cfg.StoreTimeout = d
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var missing []string
	if c.OdooURL == "" {
		missing = append(missing, "ODOO_URL")
	}
	if c.OdooDB == "" {
		missing = append(missing, "ODOO_DB")
	}
	if c.OdooLogin == "" {
		missing = append(missing, "ODOO_LOGIN")
	}
	if c.OdooPassword == "" {
		missing = append(missing, "ODOO_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("store credentials not configured: %s", strings.Join(missing, ", "))
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got %s", c.StoreTimeout)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
