// Package connection is the redline transport: one TCP session to a
// Redis-compatible server, used for one request/reply exchange.
//
//   - manager.go: Target, Options and the process-wide Manager
//   - socket.go: Dial, the handshake, Execute and the scoped Exchange
//   - errors.go: mapping of network failures onto domain error kinds
//
// The connection is never reused across invocations. Exchange closes it
// on every path, including timeouts and interrupts.
package connection
