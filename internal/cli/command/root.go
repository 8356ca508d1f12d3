package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/cli/output"
	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/core/service"
)

// Global flag names.
const (
	flagHost           = "host"
	flagPort           = "port"
	flagPassword       = "password"
	flagUser           = "user"
	flagDB             = "db"
	flagClientName     = "client-name"
	flagProfile        = "profile"
	flagTimeout        = "timeout"
	flagConnectTimeout = "connect-timeout"
	flagOutput         = "output"
	flagConfig         = "config"
	flagStoreDir       = "store-dir"
	flagMetricsFile    = "metrics-file"
	flagVerbose        = "verbose"
)

const envKey = "env"

// Main runs redline with args (including the program name) and returns
// the process exit code. Errors are printed to stderr; stdout only ever
// receives a complete result.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	env := NewEnv(stdout, stderr)
	err := App(env).RunContext(ctx, args)

	if cerr := env.Close(); cerr != nil {
		env.Logger().Warn("cleanup failed", "error", cerr)
	}
	if err != nil {
		fmt.Fprintln(stderr, errorMessage(err))
		return domain.ExitCode(err)
	}
	return 0
}

func errorMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de == err {
		return err.Error()
	}
	if kind := domain.KindOf(err); kind != "" {
		return fmt.Sprintf("%s error: %v", kind, err)
	}
	return fmt.Sprintf("error: %v", err)
}

// App creates the CLI application bound to env.
func App(env *Env) *cli.App {
	// -h selects the host, as in redis-cli.
	cli.HelpFlag = &cli.BoolFlag{Name: "help", Usage: "show help"}

	app := &cli.App{
		Name:            "redline",
		Usage:           "send one command to a Redis-compatible server and print the reply",
		UsageText:       "redline [global options] COMMAND [ARGS...]\nredline [global options] register|connections|version",
		HideVersion:     true,
		HideHelpCommand: true,
		Flags:           globalFlags(),
		Commands: []*cli.Command{
			RegisterCommand(),
			ConnectionsCommand(),
			VersionCommand(),
		},
		Metadata:       map[string]any{envKey: env},
		Writer:         env.Stdout,
		ErrWriter:      env.Stderr,
		Before:         func(c *cli.Context) error { return getEnv(c).Setup(c) },
		Action:         runCommand,
		OnUsageError:   usageError,
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

// globalFlags returns the global CLI flags. Defaults live in the config
// layer, so flags only count when set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        flagHost,
			Aliases:     []string{"h"},
			Usage:       "server host",
			DefaultText: domain.DefaultHost,
		},
		&cli.IntFlag{
			Name:        flagPort,
			Aliases:     []string{"p"},
			Usage:       "server port",
			DefaultText: "6379",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"a"},
			Usage:   "password sent with AUTH before the command",
			EnvVars: []string{"REDISCLI_AUTH"},
		},
		&cli.StringFlag{
			Name:  flagUser,
			Usage: "ACL user sent with AUTH",
		},
		&cli.IntFlag{
			Name:        flagDB,
			Aliases:     []string{"n"},
			Usage:       "database number selected before the command",
			DefaultText: "0",
		},
		&cli.StringFlag{
			Name:  flagClientName,
			Usage: "connection name set with CLIENT SETNAME",
		},
		&cli.StringFlag{
			Name:  flagProfile,
			Usage: "use a saved connection by name or ID",
		},
		&cli.DurationFlag{
			Name:        flagTimeout,
			Aliases:     []string{"t"},
			Usage:       "bound on each request/reply exchange",
			DefaultText: "5s",
		},
		&cli.DurationFlag{
			Name:        flagConnectTimeout,
			Usage:       "bound on establishing the connection",
			DefaultText: "3s",
		},
		&cli.StringFlag{
			Name:        flagOutput,
			Aliases:     []string{"o"},
			Usage:       "output format: auto, raw, pretty, json, yaml",
			DefaultText: "auto",
		},
		&cli.StringFlag{
			Name:        flagConfig,
			Usage:       "config file",
			DefaultText: "~/.redline/cli.yaml",
		},
		&cli.StringFlag{
			Name:        flagStoreDir,
			Usage:       "saved connection store",
			DefaultText: "~/.redline/store",
		},
		&cli.StringFlag{
			Name:  flagMetricsFile,
			Usage: "write a Prometheus textfile after the run",
		},
		&cli.BoolFlag{
			Name:    flagVerbose,
			Aliases: []string{"V"},
			Usage:   "debug logging to stderr",
		},
	}
}

// getEnv retrieves the run state from context.
func getEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env
	}
	return nil
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return domain.Wrap(domain.KindUsage, "", err)
}

// runCommand sends the positional arguments as one command.
func runCommand(c *cli.Context) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return domain.NewError(domain.KindUsage, "no command given (see --help)")
	}

	env := getEnv(c)
	target, err := env.ResolveTarget(c)
	if err != nil {
		return err
	}
	mgr, err := env.Manager(target)
	if err != nil {
		return err
	}
	renderer, err := output.NewRenderer(env.Format().Resolve(env.Stdout))
	if err != nil {
		return err
	}

	d := service.NewDispatcher(mgr, renderer, env.Logger())
	return d.Run(c.Context, service.Invocation{Args: args}, env.Stdout)
}

// writeBuffered renders into memory first so a failed render writes nothing.
func writeBuffered(w io.Writer, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
