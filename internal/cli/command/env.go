package command

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/redline/internal/cli/config"
	"github.com/yndnr/redline/internal/cli/connection"
	"github.com/yndnr/redline/internal/cli/output"
	"github.com/yndnr/redline/internal/infra/shutdown"
	"github.com/yndnr/redline/internal/storage/credential"
	"github.com/yndnr/redline/internal/telemetry/logger"
	"github.com/yndnr/redline/internal/telemetry/metric"
)

// cleanupTimeout bounds the shutdown hooks.
const cleanupTimeout = 2 * time.Second

// Env is the state of one run: resolved configuration, logger, metrics
// and, once something needs it, the saved connection store.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	cfg     *config.CLIConfig
	format  output.Format
	log     logger.Logger
	metrics *metric.Registry
	hooks   *shutdown.Handler
	store   *credential.Store
}

// NewEnv creates run state writing to stdout and stderr. Setup completes it.
func NewEnv(stdout, stderr io.Writer) *Env {
	return &Env{
		Stdout:  stdout,
		Stderr:  stderr,
		cfg:     config.Default(),
		format:  output.FormatAuto,
		log:     logger.Default(),
		metrics: metric.NewRegistry(),
		hooks:   shutdown.NewHandler(cleanupTimeout),
	}
}

// Setup loads the configuration, applies flag overrides and builds the
// logger.
func (e *Env) Setup(c *cli.Context) error {
	path := ""
	if c.IsSet(flagConfig) {
		path = c.String(flagConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg, err = config.Merge(cfg, flagOverrides(c))
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: e.Stderr,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	e.cfg = cfg
	e.format = format
	e.log = log
	log.Debug("configuration loaded", "host", cfg.Host, "port", cfg.Port, "store_dir", cfg.StoreDir)
	return nil
}

// flagOverrides collects the flags that were set, keyed like the config file.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	set := func(flag, key string, value any) {
		if c.IsSet(flag) {
			out[key] = value
		}
	}
	set(flagHost, "host", c.String(flagHost))
	set(flagPort, "port", c.Int(flagPort))
	set(flagTimeout, "timeout", c.Duration(flagTimeout))
	set(flagConnectTimeout, "connect_timeout", c.Duration(flagConnectTimeout))
	set(flagOutput, "output", c.String(flagOutput))
	set(flagStoreDir, "store_dir", c.String(flagStoreDir))
	set(flagMetricsFile, "metrics_file", c.String(flagMetricsFile))
	if c.Bool(flagVerbose) {
		out["log_level"] = "debug"
	}
	return out
}

// Config returns the resolved configuration.
func (e *Env) Config() *config.CLIConfig {
	return e.cfg
}

// Format returns the requested output format.
func (e *Env) Format() output.Format {
	return e.format
}

// Logger returns the run's logger.
func (e *Env) Logger() logger.Logger {
	return e.log
}

// Metrics returns the run's metrics registry.
func (e *Env) Metrics() *metric.Registry {
	return e.metrics
}

// Manager returns a connection manager for target with the configured
// timeouts.
func (e *Env) Manager(target connection.Target) (*connection.Manager, error) {
	mgr := connection.NewManager(connection.Options{
		ConnectTimeout: e.cfg.ConnectTimeout,
		Timeout:        e.cfg.Timeout,
		Logger:         e.log,
		Metrics:        e.metrics,
	})
	if err := mgr.Connect(target); err != nil {
		return nil, err
	}
	return mgr, nil
}

// StoreExists reports whether a saved connection store has been created.
func (e *Env) StoreExists() bool {
	_, err := os.Stat(filepath.Join(e.cfg.StoreDir, "db"))
	return err == nil
}

// Store opens the saved connection store, creating it on first use. It is
// closed by Close.
func (e *Env) Store() (*credential.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	st, err := credential.Open(e.cfg.StoreDir, e.log)
	if err != nil {
		return nil, err
	}
	if e.cfg.MetricsFile != "" {
		if m, ok := st.Engine().(interface {
			RegisterMetrics(prometheus.Registerer) error
		}); ok {
			if err := m.RegisterMetrics(e.metrics.Registerer()); err != nil {
				e.log.Warn("store metrics unavailable", "error", err)
			}
		}
	}
	e.store = st
	e.hooks.OnClose(st.Close)
	return st, nil
}

// Close runs the shutdown hooks: the metrics textfile is written first,
// then the store is closed.
func (e *Env) Close() error {
	if e.cfg.MetricsFile != "" {
		e.hooks.OnShutdown(e.flushMetrics)
	}
	return e.hooks.Shutdown()
}

func (e *Env) flushMetrics(context.Context) error {
	var count metric.CountFunc
	if e.store != nil {
		store := e.store
		count = func() (int, error) { return store.Count(context.Background()) }
	}
	if err := e.metrics.Registerer().Register(metric.NewCollector(count)); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
	}
	return e.metrics.WriteTextfile(e.cfg.MetricsFile)
}
