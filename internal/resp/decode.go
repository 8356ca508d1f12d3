package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits. Exceeding any of them is a protocol error rather than
// an allocation the peer controls.
const (
	// MaxBulkLen matches the proto-max-bulk-len default of Redis (512MB).
	MaxBulkLen = 512 << 20

	// MaxArrayLen bounds the declared element count of one array.
	MaxArrayLen = 1<<31 - 1

	// MaxDepth bounds array nesting.
	MaxDepth = 128

	// MaxLineLen bounds a status, error or header line.
	MaxLineLen = 64 * 1024
)

var (
	// ErrIncomplete means the buffer holds a strict prefix of a frame.
	// It is not a failure: append more bytes and decode again.
	ErrIncomplete = errors.New("resp: incomplete frame")

	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

// Decode decodes exactly one reply from the start of buf.
//
// It returns the reply and the number of bytes it occupied; anything after
// that is left alone. When buf ends before the reply does, Decode returns
// ErrIncomplete. Malformed input yields an error wrapping ErrProtocol.
// The returned reply does not alias buf.
func Decode(buf []byte) (Reply, int, error) {
	d := decoder{buf: buf}
	r, err := d.reply()
	if err != nil {
		return Reply{}, 0, err
	}
	return r, d.pos, nil
}

type decoder struct {
	buf   []byte
	pos   int
	depth int
}

func (d *decoder) reply() (Reply, error) {
	if d.pos >= len(d.buf) {
		return Reply{}, ErrIncomplete
	}

	typ := d.buf[d.pos]
	switch typ {
	case TypeSimpleString, TypeError, TypeInteger, TypeBulkString, TypeArray:
	default:
		return Reply{}, fmt.Errorf("%w: unrecognized reply type %q", ErrProtocol, typ)
	}

	line, err := d.line()
	if err != nil {
		return Reply{}, err
	}

	switch typ {
	case TypeSimpleString:
		return Reply{Kind: KindSimpleString, Str: clone(line)}, nil
	case TypeError:
		return Reply{Kind: KindError, Str: clone(line)}, nil
	case TypeInteger:
		n, err := parseInt(line)
		if err != nil {
			return Reply{}, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
		}
		return Integer(n), nil
	case TypeBulkString:
		return d.bulk(line)
	default:
		return d.array(line)
	}
}

func (d *decoder) bulk(header []byte) (Reply, error) {
	n, err := parseInt(header)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: invalid bulk length %q", ErrProtocol, header)
	}
	switch {
	case n == -1:
		return NullBulk(), nil
	case n < 0:
		return Reply{}, fmt.Errorf("%w: invalid bulk length %d", ErrProtocol, n)
	case n > MaxBulkLen:
		return Reply{}, fmt.Errorf("%w: bulk length %d exceeds %d", ErrLimitExceeded, n, MaxBulkLen)
	}

	size := int(n)
	if len(d.buf)-d.pos < size+2 {
		return Reply{}, ErrIncomplete
	}
	end := d.pos + size
	if d.buf[end] != '\r' || d.buf[end+1] != '\n' {
		return Reply{}, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrProtocol)
	}

	data := make([]byte, size)
	copy(data, d.buf[d.pos:end])
	d.pos = end + 2
	return Reply{Kind: KindBulkString, Str: data}, nil
}

func (d *decoder) array(header []byte) (Reply, error) {
	n, err := parseInt(header)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: invalid array length %q", ErrProtocol, header)
	}
	switch {
	case n == -1:
		return NullArray(), nil
	case n < 0:
		return Reply{}, fmt.Errorf("%w: invalid array length %d", ErrProtocol, n)
	case n > MaxArrayLen:
		return Reply{}, fmt.Errorf("%w: array length %d exceeds %d", ErrLimitExceeded, n, MaxArrayLen)
	}

	d.depth++
	if d.depth > MaxDepth {
		return Reply{}, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, MaxDepth)
	}
	defer func() { d.depth-- }()

	// The declared count is peer-controlled; grow as elements arrive.
	elems := make([]Reply, 0, min(int(n), 64))
	for i := int64(0); i < n; i++ {
		e, err := d.reply()
		if err != nil {
			return Reply{}, err
		}
		elems = append(elems, e)
	}
	return Reply{Kind: KindArray, Elems: elems}, nil
}

// line consumes the type byte and the text up to CRLF, returning the text.
func (d *decoder) line() ([]byte, error) {
	start := d.pos + 1
	idx := bytes.IndexByte(d.buf[start:], '\n')
	if idx < 0 {
		// A pending CR may still complete a line of exactly MaxLineLen.
		pending := len(d.buf) - start
		if pending > MaxLineLen+1 || (pending == MaxLineLen+1 && d.buf[len(d.buf)-1] != '\r') {
			return nil, fmt.Errorf("%w: line length exceeds %d", ErrLimitExceeded, MaxLineLen)
		}
		return nil, ErrIncomplete
	}
	end := start + idx
	if end == start || d.buf[end-1] != '\r' {
		return nil, fmt.Errorf("%w: missing CR before LF", ErrProtocol)
	}
	if end-1-start > MaxLineLen {
		return nil, fmt.Errorf("%w: line length exceeds %d", ErrLimitExceeded, MaxLineLen)
	}
	d.pos = end + 1
	return d.buf[start : end-1], nil
}

func parseInt(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(string(b), 10, 64)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
