package redistest

import (
	"bufio"
	"net"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/yndnr/redline/internal/resp"
)

func roundTrip(t *testing.T, addr string, args ...string) string {
	t.Helper()
	c, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(2 * time.Second))

	cmd := make([][]byte, len(args))
	for i, a := range args {
		cmd[i] = []byte(a)
	}
	if _, err := c.Write(resp.EncodeCommand(cmd)); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return line
}

func TestServer_Memory(t *testing.T) {
	srv := NewServer(t, NewMemory().Handler())

	if got := roundTrip(t, srv.Addr(), "PING"); got != "+PONG\r\n" {
		t.Errorf("PING = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "SET", "k", "v"); got != "+OK\r\n" {
		t.Errorf("SET = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "GET", "missing"); got != "$-1\r\n" {
		t.Errorf("GET missing = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "NOPE"); got != "-ERR unknown command 'NOPE'\r\n" {
		t.Errorf("NOPE = %q", got)
	}

	want := [][]string{{"PING"}, {"SET", "k", "v"}, {"GET", "missing"}, {"NOPE"}}
	if got := srv.Commands(); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
}

func TestServer_RequiresAuth(t *testing.T) {
	m := NewMemory()
	m.Password = "s3cret"
	srv := NewServer(t, m.Handler())

	if got := roundTrip(t, srv.Addr(), "PING"); got != "-NOAUTH Authentication required.\r\n" {
		t.Errorf("PING without auth = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "AUTH", "wrong"); got[0] != '-' {
		t.Errorf("AUTH wrong = %q, want error", got)
	}
}

func TestServer_Script(t *testing.T) {
	srv := NewServer(t, Script(
		Raw("+first\r\n"),
		Response{Raw: []byte("+second\r\n"), Chunk: 1},
	))

	if got := roundTrip(t, srv.Addr(), "A"); got != "+first\r\n" {
		t.Errorf("first = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "B"); got != "+second\r\n" {
		t.Errorf("second = %q", got)
	}
	if got := roundTrip(t, srv.Addr(), "C"); got[0] != '-' {
		t.Errorf("exhausted = %q, want error", got)
	}
}

func TestClosedPort(t *testing.T) {
	port := ClosedPort(t)
	c, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
	if err == nil {
		c.Close()
		t.Fatal("dial to closed port should fail")
	}
}
