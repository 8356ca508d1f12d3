package redistest

import (
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/redline/internal/resp"
)

// Response is what the server does after decoding one request.
type Response struct {
	// Raw is written verbatim, so malformed frames can be produced.
	Raw []byte
	// Chunk splits Raw into writes of at most this many bytes.
	Chunk int
	// Delay is waited before the first byte is written.
	Delay time.Duration
	// Close closes the connection after Raw has been written.
	Close bool
	// Hang never answers; the connection stays open until the server closes.
	Hang bool
}

// Reply answers with a well-formed reply.
func Reply(r resp.Reply) Response {
	return Response{Raw: resp.AppendReply(nil, r)}
}

// Raw answers with the given bytes.
func Raw(s string) Response {
	return Response{Raw: []byte(s)}
}

// CloseConn closes the connection without answering.
func CloseConn() Response {
	return Response{Close: true}
}

// Session is the per-connection state handed to a Handler.
type Session struct {
	Authenticated bool
	DB            int
	Name          string
}

// Handler answers one decoded request.
type Handler func(s *Session, cmd []string) Response

// Server is a RESP server bound to a loopback port.
type Server struct {
	ln      net.Listener
	handler Handler
	running atomic.Bool
	wg      sync.WaitGroup

	mu       sync.Mutex
	commands [][]string
	conns    map[net.Conn]struct{}
}

// NewServer starts a server and registers its shutdown with t.Cleanup.
func NewServer(t testing.TB, h Handler) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("redistest: listen: %v", err)
	}
	s := &Server{
		ln:      ln,
		handler: h,
		conns:   make(map[net.Conn]struct{}),
	}
	s.running.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()

	t.Cleanup(s.Close)
	return s
}

// Addr returns host:port.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Host returns the listening host.
func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Commands returns every request received so far, in order.
func (s *Server) Commands() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.commands))
	copy(out, s.commands)
	return out
}

// Close stops accepting, closes open connections and waits for handlers.
func (s *Server) Close() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	_ = s.ln.Close()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		s.mu.Lock()
		s.conns[c] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		_ = c.Close()
	}()

	var (
		sess Session
		buf  []byte
		tmp  = make([]byte, 4096)
	)
	for {
		req, n, err := resp.Decode(buf)
		if errors.Is(err, resp.ErrIncomplete) {
			m, rerr := c.Read(tmp)
			if m > 0 {
				buf = append(buf, tmp[:m]...)
				continue
			}
			if rerr != nil {
				return
			}
			continue
		}
		if err != nil {
			_, _ = c.Write(resp.AppendReply(nil, resp.ErrorReply("ERR Protocol error: "+err.Error())))
			return
		}
		buf = buf[n:]

		cmd, ok := commandStrings(req)
		if !ok {
			_, _ = c.Write(resp.AppendReply(nil, resp.ErrorReply("ERR Protocol error: expected array of bulk strings")))
			return
		}

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		if !s.respond(c, s.handler(&sess, cmd)) {
			return
		}
	}
}

// respond performs r and reports whether the connection stays open.
func (s *Server) respond(c net.Conn, r Response) bool {
	if r.Hang {
		_, _ = io.Copy(io.Discard, c)
		return false
	}
	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}

	chunk := r.Chunk
	if chunk <= 0 {
		chunk = len(r.Raw)
	}
	for off := 0; off < len(r.Raw); off += chunk {
		end := min(off+chunk, len(r.Raw))
		if _, err := c.Write(r.Raw[off:end]); err != nil {
			return false
		}
		if r.Chunk > 0 {
			time.Sleep(time.Millisecond)
		}
	}
	return !r.Close
}

func commandStrings(r resp.Reply) ([]string, bool) {
	if r.Kind != resp.KindArray || r.Null || len(r.Elems) == 0 {
		return nil, false
	}
	out := make([]string, len(r.Elems))
	for i, e := range r.Elems {
		if e.Kind != resp.KindBulkString || e.Null {
			return nil, false
		}
		out[i] = string(e.Str)
	}
	return out, true
}

// ClosedPort returns a loopback port with nothing listening on it.
func ClosedPort(t testing.TB) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("redistest: listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// PortString is Port formatted for CLI flags.
func (s *Server) PortString() string {
	return strconv.Itoa(s.Port())
}
