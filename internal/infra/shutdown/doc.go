// Package shutdown ties process termination to a context and runs
// cleanup hooks once the work is over.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(2 * time.Second)
//	defer h.Shutdown()
//	h.OnShutdown(store.Close)
package shutdown
