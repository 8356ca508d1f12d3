// Package confloader loads layered configuration with koanf.
//
// Sources, later overriding earlier:
//
//  1. Default values
//  2. Configuration file (YAML)
//  3. Environment variables
//
// Command-line flags are applied by the caller after Load.
package confloader
