package connection

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/yndnr/redline/internal/core/domain"
)

// errInterrupted is the cause recorded when the context is cancelled.
var errInterrupted = errors.New("interrupted")

// dialError classifies a failed dial.
func dialError(ctx context.Context, addr string, timeout time.Duration, err error) error {
	if cerr := contextError(ctx); cerr != nil {
		return cerr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Wrap(domain.KindTimeout, "connect to "+addr+" timed out after "+timeout.String(), err)
	}
	return domain.Wrap(domain.KindConnect, "could not connect to "+addr, err)
}

// ioError classifies a failed read or write on an established connection.
func ioError(ctx context.Context, op string, timeout time.Duration, err error) error {
	if cerr := contextError(ctx); cerr != nil {
		return cerr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Wrap(domain.KindTimeout, op+" timed out after "+timeout.String(), err)
	}
	return domain.Wrap(domain.KindTransport, op+" failed", err)
}

// contextError maps a finished context: a deadline is a timeout, a
// cancellation an interrupt. It returns nil while ctx is live.
func contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.KindTimeout, "deadline exceeded", err)
	default:
		return domain.Wrap(domain.KindTransport, errInterrupted.Error(), context.Cause(ctx))
	}
}
