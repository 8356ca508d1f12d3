package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the CLI can report it and pick an exit code.
type Kind string

const (
	// KindConnect: the TCP connection could not be established, or the
	// server refused the session (authentication).
	KindConnect Kind = "connect"
	// KindTimeout: connect, read or write exceeded its bound.
	KindTimeout Kind = "timeout"
	// KindTransport: the connection closed mid-exchange or a write failed.
	KindTransport Kind = "transport"
	// KindProtocol: the peer sent bytes that are not valid RESP.
	KindProtocol Kind = "protocol"
	// KindServer: a well-formed error reply from the server.
	KindServer Kind = "server"
	// KindUsage: the invocation itself is malformed.
	KindUsage Kind = "usage"
)

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	default:
		return string(e.Kind) + " error"
	}
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause as kind.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Cause: cause}
}

// Sentinels for errors.Is.
var (
	ErrConnect   = NewError(KindConnect, "")
	ErrTimeout   = NewError(KindTimeout, "")
	ErrTransport = NewError(KindTransport, "")
	ErrProtocol  = NewError(KindProtocol, "")
	ErrServer    = NewError(KindServer, "")
	ErrUsage     = NewError(KindUsage, "")
)

// KindOf returns the kind of the outermost classified error in err's
// chain, or "" when err is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ExitCode maps an error to the process exit status: 0 for nil, 1 for a
// server error reply, 2 for usage, 3 connect, 4 timeout, 5 transport and
// 6 protocol. Unclassified errors exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindUsage:
		return 2
	case KindConnect:
		return 3
	case KindTimeout:
		return 4
	case KindTransport:
		return 5
	case KindProtocol:
		return 6
	default:
		return 1
	}
}
