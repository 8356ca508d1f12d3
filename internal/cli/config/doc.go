// Package config provides the redline CLI configuration.
//
//   - config.go: CLIConfig struct and defaults
//   - loader.go: loading (~/.redline/cli.yaml, REDLINE_* env), saving and
//     flag merging
package config
