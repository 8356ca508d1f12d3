// Package redistest provides an in-process RESP server for tests.
//
// The server listens on 127.0.0.1:0, decodes each request with the resp
// codec and answers with whatever its Handler returns: a well-formed
// reply, arbitrary raw bytes, a reply split into small writes, a delay,
// or an abrupt close. Memory is a tiny Redis-like handler for end-to-end
// tests; Script replays canned responses.
package redistest
