package connection

import (
	"context"
	"time"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
	"github.com/yndnr/redline/internal/telemetry/logger"
	"github.com/yndnr/redline/internal/telemetry/metric"
)

// Default timeouts.
const (
	DefaultConnectTimeout = 3 * time.Second
	DefaultTimeout        = 5 * time.Second
)

// Target is the server one invocation talks to, plus the optional
// session setup sent before the command.
type Target struct {
	// Name is the saved connection this target came from, if any.
	Name       string
	Host       string
	Port       int
	Username   string
	Password   string
	DB         int
	ClientName string
}

// TargetFromCredential builds a target from a saved connection.
func TargetFromCredential(c *domain.Credential) Target {
	return Target{
		Name:       c.Name,
		Host:       c.Host,
		Port:       c.Port,
		Username:   c.Username,
		Password:   c.Password,
		DB:         c.DB,
		ClientName: c.ClientName,
	}
}

// Address returns host:port.
func (t Target) Address() string {
	return (&domain.Credential{Host: t.Host, Port: t.Port}).Address()
}

// Credential converts the target into a credential for saving.
func (t Target) Credential(name string) (*domain.Credential, error) {
	c, err := domain.NewCredential(t.Host, t.Port)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Username = t.Username
	c.Password = t.Password
	c.DB = t.DB
	c.ClientName = t.ClientName
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the target can be dialled.
func (t Target) Validate() error {
	c := domain.Credential{
		Host:     t.Host,
		Port:     t.Port,
		Username: t.Username,
		Password: t.Password,
		DB:       t.DB,
	}
	return c.Validate()
}

// Options bound and observe an exchange.
type Options struct {
	// ConnectTimeout bounds the TCP dial.
	ConnectTimeout time.Duration
	// Timeout bounds each request/reply exchange, write and read together.
	Timeout time.Duration
	Logger  logger.Logger
	Metrics *metric.Registry
}

// DefaultOptions returns the default timeouts with the default logger.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: DefaultConnectTimeout,
		Timeout:        DefaultTimeout,
	}
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.Default()
	}
	return o.Logger
}

// Manager holds the target resolved for this process.
type Manager struct {
	current *Target
	opts    Options
}

// NewManager creates a manager with the given options.
func NewManager(opts Options) *Manager {
	return &Manager{opts: opts}
}

// Connect validates target and makes it current. No socket is opened
// until Exchange.
func (m *Manager) Connect(target Target) error {
	if err := target.Validate(); err != nil {
		return err
	}
	m.current = &target
	return nil
}

// Disconnect forgets the current target.
func (m *Manager) Disconnect() {
	m.current = nil
}

// Current returns the current target, or nil.
func (m *Manager) Current() *Target {
	return m.current
}

// IsConnected reports whether a target is set.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}

// Options returns the exchange options.
func (m *Manager) Options() Options {
	return m.opts
}

// Exchange runs cmd against the current target.
func (m *Manager) Exchange(ctx context.Context, cmd domain.Command) (resp.Reply, error) {
	if m.current == nil {
		return resp.Reply{}, domain.NewError(domain.KindUsage, "no connection target")
	}
	return Exchange(ctx, *m.current, cmd, m.opts)
}
