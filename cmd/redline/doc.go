// Package main provides the entry point for redline.
//
// redline sends one command to a Redis-compatible server over RESP2,
// prints the reply and exits:
//
//	redline SET greeting hello
//	redline -h cache.internal -p 6380 -a secret GET greeting
//	redline -o json LRANGE queue 0 -1
//	redline -h cache.internal -a secret register --name cache
//	redline --profile cache INCRBY hits -1
//
// Exit status: 0 success, 1 server error reply, 2 usage, 3 connect,
// 4 timeout, 5 transport, 6 protocol.
package main
