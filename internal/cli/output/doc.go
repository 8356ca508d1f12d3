// Package output renders replies and listings for the redline CLI.
//
//   - formatter.go: formats, the Formatter and Renderer interfaces, terminal detection
//   - raw.go: plain text, one value per line, for scripts
//   - pretty.go: redis-cli style with type annotations
//   - json.go, yaml.go: structured rendering of the reply tree
//   - table.go: column tables for `connections list`
//
// Rendering never touches the network; a renderer sees a decoded reply only.
package output
