package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/cli/output"
	"github.com/yndnr/redline/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:         "version",
		Usage:        "Show version information",
		OnUsageError: usageError,
		Action: func(c *cli.Context) error {
			env := getEnv(c)
			info := buildinfo.Get()

			switch env.Format() {
			case output.FormatJSON, output.FormatYAML:
				return writeBuffered(env.Stdout, func(w io.Writer) error {
					return output.NewFormatter(env.Format()).Format(w, info)
				})
			default:
				_, err := fmt.Fprintln(env.Stdout, buildinfo.String())
				return err
			}
		},
	}
}
