// Package service holds redline's use cases.
//
// Services contain the logic between the CLI surface and the transport.
// They define interfaces for their dependencies so the transport, store
// and output can be swapped in tests.
//
//   - Dispatcher: builds a command from CLI tokens, runs one exchange and
//     turns the reply into output or a classified error
//   - CredentialService: registers, lists, removes and resolves saved
//     connections
package service
