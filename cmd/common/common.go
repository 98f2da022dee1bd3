// Package common provides shared configuration loading and logger setup for
// the university service binaries (students, groups, university,
// multiservice).
package common

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/api/httpserver"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/postgres"
)

// Config holds the settings common to all service binaries. Peer URLs and the
// database section are only meaningful for the services that use them.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	EnablePprof bool   `yaml:"enable_pprof"`
	LogJSON     bool   `yaml:"log_json"`
	LogDebug    bool   `yaml:"log_debug"`

	// Postgres configures the backing database for the store services. When
	// the host is empty the service runs on its in-memory store.
	Postgres postgres.Config `yaml:"postgres"`

	// Peer base URLs, used by the university service.
	StudentServiceURL string `yaml:"student_service_url"`
	GroupServiceURL   string `yaml:"group_service_url"`

	DrainDuration            time.Duration `yaml:"drain_duration"`
	GracefulShutdownDuration time.Duration `yaml:"graceful_shutdown_duration"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:               ":8080",
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
	}
}

// LoadConfig reads a YAML config file, applying defaults for absent fields.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the process logger from config.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ServerConfig translates the config into base HTTP server settings.
func (c *Config) ServerConfig(log *slog.Logger) *httpserver.Config {
	return &httpserver.Config{
		ListenAddr:               c.ListenAddr,
		MetricsAddr:              c.MetricsAddr,
		EnablePprof:              c.EnablePprof,
		Log:                      log,
		DrainDuration:            c.DrainDuration,
		GracefulShutdownDuration: c.GracefulShutdownDuration,
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}
