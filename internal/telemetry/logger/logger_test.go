package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "text",
			format: "text",
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "msg=hello") {
					t.Errorf("text output missing message: %q", out)
				}
			},
		},
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				var m map[string]any
				if err := json.Unmarshal([]byte(out), &m); err != nil {
					t.Fatalf("json output not parseable: %v (%q)", err, out)
				}
				if m["msg"] != "hello" {
					t.Errorf("msg = %v, want hello", m["msg"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Config{Level: "info", Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			l.Info("hello", "command", "GET")
			tt.check(t, buf.String())
		})
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "warn", Output: &buf})
	defer SetLevel("warn")

	l.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}

	SetLevel("debug")
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
	l.Debug("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Errorf("debug not logged after SetLevel: %q", buf.String())
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if got := parseLevel("chatty"); got.String() != "WARN" {
		t.Errorf("parseLevel(chatty) = %v, want WARN", got)
	}
}

func TestRedactionInOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.With("password", "hunter2").Info("connecting", "host", "db1")

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("password leaked into log: %q", out)
	}
	if !strings.Contains(out, "db1") {
		t.Errorf("non-sensitive attribute dropped: %q", out)
	}
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context not used: %q", buf.String())
	}

	if FromContext(context.Background()) != Default() {
		t.Error("FromContext without a logger should return Default()")
	}
}

func TestNew_TextOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "warn", Format: "text", Output: &buf})
	l.Warn("slow")
	if strings.Contains(buf.String(), "time=") {
		t.Errorf("text output carries a timestamp: %q", buf.String())
	}

	buf.Reset()
	l, _ = New(Config{Level: "warn", Format: "text", Output: &buf, Timestamps: true})
	l.Warn("slow")
	if !strings.HasPrefix(buf.String(), "time=") {
		t.Errorf("Timestamps did not keep the time attribute: %q", buf.String())
	}

	buf.Reset()
	l, _ = New(Config{Level: "warn", Format: "json", Output: &buf})
	l.Warn("slow")
	if !strings.Contains(buf.String(), `"time":`) {
		t.Errorf("json output lost its timestamp: %q", buf.String())
	}
}

func TestWithCommand(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "debug", Format: "json", Output: &buf})
	defer SetLevel("warn")

	WithCommand(l, []string{"auth", "alice", "s3cret"}).Debug("dispatching")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json output not parseable: %v (%q)", err, buf.String())
	}
	if m["command"] != "AUTH" {
		t.Errorf("command = %v, want AUTH", m["command"])
	}
	if strings.Contains(buf.String(), "s3cret") || strings.Contains(buf.String(), "alice") {
		t.Errorf("credentials leaked: %q", buf.String())
	}
}
