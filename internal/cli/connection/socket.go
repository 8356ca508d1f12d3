package connection

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
	"github.com/yndnr/redline/internal/telemetry/logger"
	"github.com/yndnr/redline/internal/telemetry/metric"
)

// minRead is the smallest free space offered to a socket read.
const minRead = 4096

// aLongTimeAgo is a deadline in the past, used to unblock pending I/O.
var aLongTimeAgo = time.Unix(1, 0)

// Conn is one TCP session to a server.
type Conn struct {
	netConn net.Conn
	target  Target
	opts    Options
	log     logger.Logger

	// buf holds received bytes not yet consumed by a decoded reply.
	buf []byte

	closed atomic.Bool
}

// Dial opens a TCP connection to target within opts.ConnectTimeout.
func Dial(ctx context.Context, target Target, opts Options) (*Conn, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	addr := target.Address()
	log := opts.logger().With("addr", addr)
	log.Debug("dialing", "connect_timeout", opts.ConnectTimeout)

	d := net.Dialer{Timeout: opts.ConnectTimeout}
	nc, err := d.DialContext(ctx, "tcp", addr)
	opts.Metrics.ObserveDial(err)
	if err != nil {
		log.Debug("dial failed", "error", err)
		return nil, dialError(ctx, addr, opts.ConnectTimeout, err)
	}

	return &Conn{
		netConn: nc,
		target:  target,
		opts:    opts,
		log:     log,
	}, nil
}

// Target returns the target this connection was dialled for.
func (c *Conn) Target() Target {
	return c.target
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.log.Debug("closing connection")
	return c.netConn.Close()
}

// Handshake prepares the session: AUTH when a password is set, SELECT for
// a non-zero database and CLIENT SETNAME for a client name, each as its
// own exchange. An error reply to any step is a connect error.
func (c *Conn) Handshake(ctx context.Context) error {
	t := c.target
	var steps []domain.Command
	if t.Password != "" {
		if t.Username != "" {
			steps = append(steps, commandOf("AUTH", t.Username, t.Password))
		} else {
			steps = append(steps, commandOf("AUTH", t.Password))
		}
	}
	if t.DB != 0 {
		steps = append(steps, commandOf("SELECT", strconv.Itoa(t.DB)))
	}
	if t.ClientName != "" {
		steps = append(steps, commandOf("CLIENT", "SETNAME", t.ClientName))
	}

	for _, step := range steps {
		reply, err := c.Execute(ctx, step)
		if err != nil {
			return err
		}
		if reply.IsError() {
			return domain.Errorf(domain.KindConnect, "%s rejected: %s", step.Name(), reply.Text())
		}
	}
	return nil
}

// Execute writes cmd and reads exactly one reply. An error reply is
// returned as a Reply, not as an error.
func (c *Conn) Execute(ctx context.Context, cmd domain.Command) (resp.Reply, error) {
	if c.closed.Load() {
		return resp.Reply{}, domain.NewError(domain.KindTransport, "connection is closed")
	}
	if err := contextError(ctx); err != nil {
		return resp.Reply{}, err
	}

	timeout := c.opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := c.netConn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return resp.Reply{}, domain.Wrap(domain.KindTransport, "set deadline", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.netConn.SetDeadline(aLongTimeAgo)
	})
	defer stop()

	c.log.Debug("sending command", "args", logger.RedactArgs(cmd.Strings()))
	start := time.Now()

	if err := c.writeFull(resp.EncodeCommand(cmd)); err != nil {
		c.observe(cmd, nil, start, 0)
		return resp.Reply{}, ioError(ctx, "write", timeout, err)
	}

	reply, n, err := c.readReply(ctx, timeout)
	if err != nil {
		c.observe(cmd, nil, start, 0)
		return resp.Reply{}, err
	}
	c.observe(cmd, &reply, start, n)
	c.log.Debug("received reply", "kind", reply.Kind.String(), "bytes", n, "elapsed", time.Since(start))
	return reply, nil
}

func (c *Conn) writeFull(frame []byte) error {
	for len(frame) > 0 {
		n, err := c.netConn.Write(frame)
		if err != nil {
			return err
		}
		frame = frame[n:]
	}
	return nil
}

// readReply reads until one complete reply is buffered and returns it
// with its encoded size.
func (c *Conn) readReply(ctx context.Context, timeout time.Duration) (resp.Reply, int, error) {
	var readErr error
	for {
		reply, n, err := resp.Decode(c.buf)
		if err == nil {
			c.buf = c.buf[n:]
			return reply, n, nil
		}
		if !errors.Is(err, resp.ErrIncomplete) {
			return resp.Reply{}, 0, domain.Wrap(domain.KindProtocol, "invalid reply", err)
		}

		if readErr != nil {
			return resp.Reply{}, 0, c.readFailure(ctx, timeout, readErr)
		}

		if cap(c.buf)-len(c.buf) < minRead {
			grown := make([]byte, len(c.buf), 2*cap(c.buf)+minRead)
			copy(grown, c.buf)
			c.buf = grown
		}
		var m int
		m, readErr = c.netConn.Read(c.buf[len(c.buf):cap(c.buf)])
		c.buf = c.buf[:len(c.buf)+m]
	}
}

func (c *Conn) readFailure(ctx context.Context, timeout time.Duration, err error) error {
	if errors.Is(err, io.EOF) {
		if len(c.buf) == 0 {
			return domain.Wrap(domain.KindTransport, "connection closed by server before reply", err)
		}
		return domain.Wrap(domain.KindProtocol, "truncated reply: connection closed mid-frame", err)
	}
	return ioError(ctx, "read", timeout, err)
}

func (c *Conn) observe(cmd domain.Command, reply *resp.Reply, start time.Time, n int) {
	outcome := metric.OutcomeFailed
	if reply != nil {
		outcome = metric.OutcomeOK
		if reply.IsError() {
			outcome = metric.OutcomeServerError
		}
	}
	c.opts.Metrics.ObserveExchange(cmd.Name(), outcome, time.Since(start), n)
}

// Exchange dials target, runs the handshake, executes cmd and closes the
// connection, whatever the outcome.
func Exchange(ctx context.Context, target Target, cmd domain.Command, opts Options) (resp.Reply, error) {
	conn, err := Dial(ctx, target, opts)
	if err != nil {
		return resp.Reply{}, err
	}
	defer conn.Close()

	if err := conn.Handshake(ctx); err != nil {
		return resp.Reply{}, err
	}
	return conn.Execute(ctx, cmd)
}

func commandOf(tokens ...string) domain.Command {
	cmd := make(domain.Command, len(tokens))
	for i, tok := range tokens {
		cmd[i] = []byte(tok)
	}
	return cmd
}
