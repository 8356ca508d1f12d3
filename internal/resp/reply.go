package resp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the RESP type of a reply.
type Kind uint8

const (
	KindSimpleString Kind = iota + 1
	KindError
	KindInteger
	KindBulkString
	KindArray
)

// Type indicator bytes.
const (
	TypeSimpleString = '+'
	TypeError        = '-'
	TypeInteger      = ':'
	TypeBulkString   = '$'
	TypeArray        = '*'
)

func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Reply is one decoded RESP value.
//
// Str carries the payload of simple strings, errors and bulk strings.
// Int carries integers. Elems carries array elements. Null marks the
// RESP2 null bulk string ($-1) and null array (*-1); it is never set for
// other kinds.
type Reply struct {
	Kind  Kind
	Str   []byte
	Int   int64
	Elems []Reply
	Null  bool
}

// SimpleString returns a simple string reply.
func SimpleString(s string) Reply {
	return Reply{Kind: KindSimpleString, Str: []byte(s)}
}

// ErrorReply returns an error reply carrying the server message verbatim.
func ErrorReply(msg string) Reply {
	return Reply{Kind: KindError, Str: []byte(msg)}
}

// Integer returns an integer reply.
func Integer(n int64) Reply {
	return Reply{Kind: KindInteger, Int: n}
}

// Bulk returns a bulk string reply. A nil slice is treated as empty;
// use NullBulk for the absent value.
func Bulk(b []byte) Reply {
	if b == nil {
		b = []byte{}
	}
	return Reply{Kind: KindBulkString, Str: b}
}

// BulkString is Bulk for string payloads.
func BulkString(s string) Reply {
	return Bulk([]byte(s))
}

// NullBulk returns the absent bulk string ($-1).
func NullBulk() Reply {
	return Reply{Kind: KindBulkString, Null: true}
}

// Array returns an array reply. Calling it with no elements yields the
// empty array, not the null one.
func Array(elems ...Reply) Reply {
	if elems == nil {
		elems = []Reply{}
	}
	return Reply{Kind: KindArray, Elems: elems}
}

// NullArray returns the absent array (*-1).
func NullArray() Reply {
	return Reply{Kind: KindArray, Null: true}
}

// IsError reports whether r is a server error reply.
func (r Reply) IsError() bool {
	return r.Kind == KindError
}

// Text returns the payload of string-like replies as a Go string.
func (r Reply) Text() string {
	return string(r.Str)
}

// Equal reports whether two replies are structurally identical, keeping
// empty and null values apart.
func (r Reply) Equal(o Reply) bool {
	if r.Kind != o.Kind || r.Null != o.Null {
		return false
	}
	switch r.Kind {
	case KindInteger:
		return r.Int == o.Int
	case KindArray:
		if len(r.Elems) != len(o.Elems) {
			return false
		}
		for i := range r.Elems {
			if !r.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return bytes.Equal(r.Str, o.Str)
	}
}

// String renders the reply for debugging and test failure messages.
func (r Reply) String() string {
	switch r.Kind {
	case KindSimpleString:
		return fmt.Sprintf("simple(%q)", r.Str)
	case KindError:
		return fmt.Sprintf("error(%q)", r.Str)
	case KindInteger:
		return fmt.Sprintf("integer(%d)", r.Int)
	case KindBulkString:
		if r.Null {
			return "bulk(nil)"
		}
		return fmt.Sprintf("bulk(%q)", r.Str)
	case KindArray:
		if r.Null {
			return "array(nil)"
		}
		parts := make([]string, len(r.Elems))
		for i, e := range r.Elems {
			parts[i] = e.String()
		}
		return "array[" + strings.Join(parts, ", ") + "]"
	default:
		return r.Kind.String()
	}
}
