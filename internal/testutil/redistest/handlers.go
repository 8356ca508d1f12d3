package redistest

import (
	"strconv"
	"strings"
	"sync"

	"github.com/yndnr/redline/internal/resp"
)

// Script answers the n-th request with the n-th response. Requests past
// the end get an error reply.
func Script(responses ...Response) Handler {
	var (
		mu   sync.Mutex
		next int
	)
	return func(_ *Session, _ []string) Response {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(responses) {
			return Reply(resp.ErrorReply("ERR redistest script exhausted"))
		}
		r := responses[next]
		next++
		return r
	}
}

// Always answers every request with r.
func Always(r Response) Handler {
	return func(*Session, []string) Response { return r }
}

// Memory is a small Redis-like keyspace: PING, ECHO, SET, GET, DEL, INCR,
// AUTH, SELECT and CLIENT SETNAME. With Password set, every other command
// answers NOAUTH until the session authenticates.
type Memory struct {
	Username string
	Password string

	mu   sync.Mutex
	data map[string]string
}

// NewMemory creates an empty keyspace.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Handler returns the Memory as a Handler.
func (m *Memory) Handler() Handler {
	return m.handle
}

func (m *Memory) handle(s *Session, cmd []string) Response {
	name := strings.ToUpper(cmd[0])
	args := cmd[1:]

	if name == "AUTH" {
		return m.auth(s, args)
	}
	if m.Password != "" && !s.Authenticated {
		return Reply(resp.ErrorReply("NOAUTH Authentication required."))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "PING":
		if len(args) == 1 {
			return Reply(resp.BulkString(args[0]))
		}
		return Reply(resp.SimpleString("PONG"))
	case "ECHO":
		if len(args) != 1 {
			return wrongArity(cmd[0])
		}
		return Reply(resp.BulkString(args[0]))
	case "SET":
		if len(args) < 2 {
			return wrongArity(cmd[0])
		}
		m.data[args[0]] = args[1]
		return Reply(resp.SimpleString("OK"))
	case "GET":
		if len(args) != 1 {
			return wrongArity(cmd[0])
		}
		v, ok := m.data[args[0]]
		if !ok {
			return Reply(resp.NullBulk())
		}
		return Reply(resp.BulkString(v))
	case "DEL":
		var n int64
		for _, k := range args {
			if _, ok := m.data[k]; ok {
				delete(m.data, k)
				n++
			}
		}
		return Reply(resp.Integer(n))
	case "INCR", "INCRBY":
		by := int64(1)
		if name == "INCRBY" {
			if len(args) != 2 {
				return wrongArity(cmd[0])
			}
			v, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return Reply(resp.ErrorReply("ERR value is not an integer or out of range"))
			}
			by = v
		}
		if len(args) < 1 {
			return wrongArity(cmd[0])
		}
		cur, _ := strconv.ParseInt(m.data[args[0]], 10, 64)
		cur += by
		m.data[args[0]] = strconv.FormatInt(cur, 10)
		return Reply(resp.Integer(cur))
	case "SELECT":
		if len(args) != 1 {
			return wrongArity(cmd[0])
		}
		db, err := strconv.Atoi(args[0])
		if err != nil || db < 0 || db > 15 {
			return Reply(resp.ErrorReply("ERR DB index is out of range"))
		}
		s.DB = db
		return Reply(resp.SimpleString("OK"))
	case "CLIENT":
		if len(args) == 2 && strings.EqualFold(args[0], "SETNAME") {
			s.Name = args[1]
			return Reply(resp.SimpleString("OK"))
		}
		return Reply(resp.ErrorReply("ERR unknown subcommand"))
	default:
		return Reply(resp.ErrorReply("ERR unknown command '" + cmd[0] + "'"))
	}
}

func (m *Memory) auth(s *Session, args []string) Response {
	var user, pass string
	switch len(args) {
	case 1:
		user, pass = "default", args[0]
	case 2:
		user, pass = args[0], args[1]
	default:
		return wrongArity("auth")
	}

	wantUser := m.Username
	if wantUser == "" {
		wantUser = "default"
	}
	if m.Password == "" {
		return Reply(resp.ErrorReply("ERR AUTH <password> called without any password configured for the default user."))
	}
	if user != wantUser || pass != m.Password {
		return Reply(resp.ErrorReply("WRONGPASS invalid username-password pair or user is disabled."))
	}
	s.Authenticated = true
	return Reply(resp.SimpleString("OK"))
}

func wrongArity(name string) Response {
	return Reply(resp.ErrorReply("ERR wrong number of arguments for '" + strings.ToLower(name) + "' command"))
}
