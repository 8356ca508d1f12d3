package service

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
	"github.com/yndnr/redline/internal/telemetry/logger"
)

// Exchanger performs one request/reply exchange with the current target.
type Exchanger interface {
	Exchange(ctx context.Context, cmd domain.Command) (resp.Reply, error)
}

// Renderer writes a reply for display.
type Renderer interface {
	Render(w io.Writer, r resp.Reply) error
}

// Invocation is one run of the CLI.
type Invocation struct {
	// Args are the command name and arguments, verbatim.
	Args []string
}

// Dispatcher turns an invocation into an exchange and its result.
type Dispatcher struct {
	transport Exchanger
	renderer  Renderer
	log       logger.Logger
}

// NewDispatcher creates a dispatcher. A nil logger uses the default.
func NewDispatcher(transport Exchanger, renderer Renderer, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Default()
	}
	return &Dispatcher{
		transport: transport,
		renderer:  renderer,
		log:       log,
	}
}

// Dispatch sends the invocation's command and returns the reply. The
// command is not validated beyond being non-empty; the server decides.
//
// A top-level error reply is returned alongside a server error carrying
// its text verbatim, except NOAUTH, which is a connect error.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (resp.Reply, error) {
	cmd, err := domain.NewCommand(inv.Args...)
	if err != nil {
		return resp.Reply{}, err
	}

	log := logger.WithCommand(d.log, inv.Args)
	log.Debug("dispatching")

	reply, err := d.transport.Exchange(ctx, cmd)
	if err != nil {
		log.Debug("exchange failed", "error", err)
		return resp.Reply{}, err
	}

	if reply.IsError() {
		return reply, errorFromReply(reply)
	}
	return reply, nil
}

// Run dispatches and renders the reply to w. Nothing is written when the
// exchange or rendering fails.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation, w io.Writer) error {
	reply, err := d.Dispatch(ctx, inv)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := d.renderer.Render(&buf, reply); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func errorFromReply(r resp.Reply) error {
	text := r.Text()
	if strings.HasPrefix(text, "NOAUTH") {
		return domain.NewError(domain.KindConnect, text)
	}
	return domain.NewError(domain.KindServer, text)
}
