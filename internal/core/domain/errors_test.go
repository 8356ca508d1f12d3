package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      NewError(KindServer, "ERR unknown command 'FOO'"),
			expected: "server error: ERR unknown command 'FOO'",
		},
		{
			name:     "message and cause",
			err:      Wrap(KindConnect, "dial 127.0.0.1:1", errors.New("connection refused")),
			expected: "connect error: dial 127.0.0.1:1: connection refused",
		},
		{
			name:     "cause only",
			err:      NewError(KindTimeout, "").WithCause(errors.New("i/o timeout")),
			expected: "timeout error: i/o timeout",
		},
		{
			name:     "bare kind",
			err:      NewError(KindTransport, ""),
			expected: "transport error",
		},
		{
			name:     "formatted",
			err:      Errorf(KindProtocol, "unexpected %q", '>'),
			expected: "protocol error: unexpected '>'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("execute: %w", Wrap(KindTimeout, "read reply", errors.New("deadline")))

	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is should match same kind through wrapping")
	}
	if errors.Is(err, ErrTransport) {
		t.Error("errors.Is should not match a different kind")
	}
	if errors.Is(NewError(KindServer, "x"), errors.New("x")) {
		t.Error("errors.Is should not match a plain error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying cause")
	err := Wrap(KindTransport, "write request", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"direct", NewError(KindUsage, "no command"), KindUsage},
		{"wrapped", fmt.Errorf("run: %w", NewError(KindProtocol, "bad")), KindProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !IsKind(tt.err, tt.want) {
				t.Errorf("IsKind(%q) = false", tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("unclassified"), 1},
		{NewError(KindServer, "ERR unknown command"), 1},
		{NewError(KindUsage, "no command given"), 2},
		{NewError(KindConnect, "connection refused"), 3},
		{fmt.Errorf("exchange: %w", NewError(KindTimeout, "read")), 4},
		{NewError(KindTransport, "connection closed"), 5},
		{NewError(KindProtocol, "unrecognized reply type"), 6},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
