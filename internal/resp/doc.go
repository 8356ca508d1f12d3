// Package resp implements the RESP2 wire codec used by redline.
//
// The package does no I/O:
//
//   - reply.go: Reply tagged variant and constructors
//   - encode.go: request framing (array of bulk strings) and server-side reply encoding
//   - decode.go: incremental decoder over a growing byte buffer
//
// Decode is a pure function of the buffer. It reports ErrIncomplete while
// the buffer holds a strict prefix of a frame, so callers can append more
// bytes and call it again without coupling protocol logic to socket reads.
package resp
