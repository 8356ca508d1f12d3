package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/redline/internal/core/domain"
)

// Default timeouts.
const (
	DefaultTimeout        = 5 * time.Second
	DefaultConnectTimeout = 3 * time.Second
)

// CLIConfig is the configuration for redline.
type CLIConfig struct {
	Host           string        `koanf:"host"`
	Port           int           `koanf:"port"`
	Timeout        time.Duration `koanf:"timeout"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`

	// Output is the reply format: auto, raw, pretty, json or yaml.
	Output string `koanf:"output"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// StoreDir holds the saved connection store and its key.
	StoreDir string `koanf:"store_dir"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Host:           domain.DefaultHost,
		Port:           domain.DefaultPort,
		Timeout:        DefaultTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		Output:         "auto",
		LogLevel:       "warn",
		LogFormat:      "text",
		StoreDir:       DefaultStoreDir(),
	}
}

// BaseDir returns ~/.redline.
func BaseDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".redline")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(BaseDir(), "cli.yaml")
}

// DefaultStoreDir returns the default saved connection store directory.
func DefaultStoreDir() string {
	return filepath.Join(BaseDir(), "store")
}

// Validate checks values no downstream component would reject on its own.
func (c *CLIConfig) Validate() error {
	if c.Host == "" {
		return domain.NewError(domain.KindUsage, "host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return domain.Errorf(domain.KindUsage, "port %d out of range", c.Port)
	}
	if c.Timeout <= 0 {
		return domain.Errorf(domain.KindUsage, "timeout must be positive, got %s", c.Timeout)
	}
	if c.ConnectTimeout <= 0 {
		return domain.Errorf(domain.KindUsage, "connect timeout must be positive, got %s", c.ConnectTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return domain.Errorf(domain.KindUsage, "unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return domain.Errorf(domain.KindUsage, "unknown log format %q", c.LogFormat)
	}
	return nil
}

// values flattens the config into dotted keys, durations as strings.
func (c *CLIConfig) values() map[string]any {
	return map[string]any{
		"host":            c.Host,
		"port":            c.Port,
		"timeout":         c.Timeout.String(),
		"connect_timeout": c.ConnectTimeout.String(),
		"output":          c.Output,
		"log_level":       c.LogLevel,
		"log_format":      c.LogFormat,
		"store_dir":       c.StoreDir,
		"metrics_file":    c.MetricsFile,
	}
}
