package main

import (
	"context"
	"os"

	"github.com/yndnr/redline/internal/cli/command"
	"github.com/yndnr/redline/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	code := command.Main(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
