package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/infra/confloader"
)

// Load loads CLI configuration: defaults, then the YAML file, then
// REDLINE_* environment variables. An empty path means the default
// location, which may be absent; an explicit path must exist.
func Load(path string) (*CLIConfig, error) {
	fileOpt := confloader.WithConfigFile(path)
	if path == "" {
		fileOpt = confloader.WithOptionalConfigFile(DefaultConfigPath())
	}

	loader := confloader.NewLoader(
		confloader.WithDefaults(Default().values()),
		fileOpt,
	)

	cfg := &CLIConfig{}
	if err := loader.Load(cfg); err != nil {
		return nil, domain.Wrap(domain.KindUsage, "load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg.values()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0600)
}

// Merge applies flag overrides, keyed like the config file, on top of cfg
// and returns the result. cfg is not modified.
func Merge(cfg *CLIConfig, flags map[string]any) (*CLIConfig, error) {
	loader := confloader.NewLoader()
	if err := loader.LoadMap(cfg.values()); err != nil {
		return nil, domain.Wrap(domain.KindUsage, "merge config", err)
	}
	if err := loader.LoadMap(flags); err != nil {
		return nil, domain.Wrap(domain.KindUsage, "merge flags", err)
	}

	out := &CLIConfig{}
	if err := loader.Unmarshal(out); err != nil {
		return nil, domain.Wrap(domain.KindUsage, "merge flags", err)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
