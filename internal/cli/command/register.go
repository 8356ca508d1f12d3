package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/core/service"
)

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:      "register",
		Usage:     "Check the connection given by the global flags with PING and save it",
		UsageText: "redline -h HOST [-p PORT] [-a PASSWORD] [--user USER] [-n DB] register [--name NAME]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "name to use with --profile",
			},
		},
		OnUsageError: usageError,
		Action:       registerAction,
	}
}

func registerAction(c *cli.Context) error {
	env := getEnv(c)

	target, err := env.flagTarget(c)
	if err != nil {
		return err
	}
	cred, err := target.Credential(c.String("name"))
	if err != nil {
		return err
	}
	mgr, err := env.Manager(target)
	if err != nil {
		return err
	}
	store, err := env.Store()
	if err != nil {
		return err
	}

	if err := service.NewCredentialService(store).Register(c.Context, cred, mgr); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Connection to '%s' registered.\n", cred)
	return nil
}
