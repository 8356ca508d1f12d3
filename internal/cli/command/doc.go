// Package command defines the redline command line using urfave/cli/v2.
//
//   - root.go: the app, global flags, and the default action that sends
//     the remaining arguments to the server as one command
//   - env.go: per-run state (config, logger, metrics, saved connections)
//   - target.go: choosing the server from flags and saved connections
//   - register.go, connections.go, version.go: subcommands
//
// Global flags stop at the first positional argument, so everything from
// the command name on is passed through verbatim.
package command
