package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/cli/connection"
	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/core/service"
)

// ResolveTarget picks the server for this run.
//
//   - --profile NAME starts from that saved connection.
//   - An explicit --host without a password starts from the most specific
//     saved connection matching the host, port, user and db flags given.
//   - Otherwise the target is the configured host and port.
//
// Explicit flags then override the starting point field by field.
func (e *Env) ResolveTarget(c *cli.Context) (connection.Target, error) {
	target := connection.Target{Host: e.cfg.Host, Port: e.cfg.Port}

	switch {
	case c.IsSet(flagProfile):
		store, err := e.Store()
		if err != nil {
			return connection.Target{}, err
		}
		cred, err := service.NewCredentialService(store).Profile(c.Context, c.String(flagProfile))
		if err != nil {
			return connection.Target{}, err
		}
		e.log.Debug("using saved connection", "name", cred.Name, "id", cred.ID)
		target = connection.TargetFromCredential(cred)

	case c.IsSet(flagHost) && !c.IsSet(flagPassword) && e.StoreExists():
		store, err := e.Store()
		if err != nil {
			return connection.Target{}, err
		}
		cred, err := service.NewCredentialService(store).Match(c.Context, matchFilter(c))
		if err != nil {
			return connection.Target{}, err
		}
		if cred != nil {
			e.log.Debug("matched saved connection", "name", cred.Name, "id", cred.ID)
			target = connection.TargetFromCredential(cred)
		}
	}

	applyTargetFlags(c, &target)
	if err := target.Validate(); err != nil {
		return connection.Target{}, err
	}
	return target, nil
}

// flagTarget builds a target from the configuration and explicit flags
// only, ignoring saved connections.
func (e *Env) flagTarget(c *cli.Context) (connection.Target, error) {
	target := connection.Target{Host: e.cfg.Host, Port: e.cfg.Port}
	applyTargetFlags(c, &target)
	if err := target.Validate(); err != nil {
		return connection.Target{}, err
	}
	return target, nil
}

func matchFilter(c *cli.Context) domain.CredentialFilter {
	f := domain.CredentialFilter{
		Host:     c.String(flagHost),
		Username: c.String(flagUser),
	}
	if c.IsSet(flagPort) {
		port := c.Int(flagPort)
		f.Port = &port
	}
	if c.IsSet(flagDB) {
		db := c.Int(flagDB)
		f.DB = &db
	}
	return f
}

func applyTargetFlags(c *cli.Context, t *connection.Target) {
	if c.IsSet(flagHost) {
		t.Host = c.String(flagHost)
	}
	if c.IsSet(flagPort) {
		t.Port = c.Int(flagPort)
	}
	if c.IsSet(flagUser) {
		t.Username = c.String(flagUser)
	}
	if c.IsSet(flagPassword) {
		t.Password = c.String(flagPassword)
	}
	if c.IsSet(flagDB) {
		t.DB = c.Int(flagDB)
	}
	if c.IsSet(flagClientName) {
		t.ClientName = c.String(flagClientName)
	}
}
