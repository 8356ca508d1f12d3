package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/cli/output"
	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/core/service"
)

// ConnectionsCommand returns the connections subcommand group.
func ConnectionsCommand() *cli.Command {
	return &cli.Command{
		Name:         "connections",
		Usage:        "Manage saved connections",
		OnUsageError: usageError,
		Subcommands: []*cli.Command{
			{
				Name:         "list",
				Aliases:      []string{"ls"},
				Usage:        "List saved connections (passwords are never shown)",
				OnUsageError: usageError,
				Action:       connectionsList,
			},
			{
				Name:         "remove",
				Aliases:      []string{"rm"},
				Usage:        "Remove a saved connection",
				ArgsUsage:    "NAME|ID",
				OnUsageError: usageError,
				Action:       connectionsRemove,
			},
			{
				Name:         "compact",
				Usage:        "Reclaim space in the saved connection store",
				OnUsageError: usageError,
				Action:       connectionsCompact,
			},
		},
	}
}

func connectionsList(c *cli.Context) error {
	env := getEnv(c)

	var creds []*domain.Credential
	if env.StoreExists() {
		store, err := env.Store()
		if err != nil {
			return err
		}
		creds, err = service.NewCredentialService(store).List(c.Context)
		if err != nil {
			return err
		}
	}
	if creds == nil {
		creds = []*domain.Credential{}
	}

	return writeBuffered(env.Stdout, func(w io.Writer) error {
		return output.NewFormatter(env.Format()).Format(w, creds)
	})
}

func connectionsRemove(c *cli.Context) error {
	env := getEnv(c)

	nameOrID := c.Args().First()
	if nameOrID == "" || c.NArg() > 1 {
		return domain.NewError(domain.KindUsage, "connections remove takes exactly one NAME or ID")
	}
	if !env.StoreExists() {
		return domain.Errorf(domain.KindUsage, "no saved connection %q", nameOrID)
	}

	store, err := env.Store()
	if err != nil {
		return err
	}
	if err := service.NewCredentialService(store).Remove(c.Context, nameOrID); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "Connection '%s' removed.\n", nameOrID)
	return nil
}

func connectionsCompact(c *cli.Context) error {
	env := getEnv(c)
	if !env.StoreExists() {
		fmt.Fprintln(env.Stdout, "No saved connection store.")
		return nil
	}

	store, err := env.Store()
	if err != nil {
		return err
	}
	reclaimed, err := store.Engine().GC(c.Context)
	if err != nil {
		return fmt.Errorf("compact store: %w", err)
	}
	stats, err := store.Engine().Stats(c.Context)
	if err != nil {
		return fmt.Errorf("compact store: %w", err)
	}

	fmt.Fprintf(env.Stdout, "Rewrote %d value log file(s); store is %d bytes.\n", reclaimed, stats.TotalSize())
	return nil
}
