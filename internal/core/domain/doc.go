// Package domain defines the core models for redline.
//
// Domain models are plain values without IO dependencies:
//
//   - Command: the ordered byte strings sent as one request
//   - Credential: a saved connection profile
//   - Errors: the failure taxonomy shared by codec, transport and CLI
package domain
