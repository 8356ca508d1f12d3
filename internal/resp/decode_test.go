package resp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Decode - reply scenarios
// ============================================================

func TestDecode_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Reply
	}{
		{"simple string", "+PONG\r\n", SimpleString("PONG")},
		{"empty simple string", "+\r\n", SimpleString("")},
		{"error", "-ERR wrong number of arguments for 'get' command\r\n",
			ErrorReply("ERR wrong number of arguments for 'get' command")},
		{"integer", ":1000\r\n", Integer(1000)},
		{"negative integer", ":-7\r\n", Integer(-7)},
		{"zero", ":0\r\n", Integer(0)},
		{"null bulk", "$-1\r\n", NullBulk()},
		{"empty bulk", "$0\r\n\r\n", BulkString("")},
		{"bulk", "$5\r\nhello\r\n", BulkString("hello")},
		{"bulk with CRLF inside", "$4\r\na\r\nb\r\n", BulkString("a\r\nb")},
		{"binary bulk", "$3\r\n\x00\xff\x01\r\n", Bulk([]byte{0x00, 0xff, 0x01})},
		{"array of bulks", "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n",
			Array(BulkString("foo"), BulkString("bar"))},
		{"empty array", "*0\r\n", Array()},
		{"null array", "*-1\r\n", NullArray()},
		{"mixed array", "*4\r\n:1\r\n+OK\r\n$-1\r\n-ERR nested\r\n",
			Array(Integer(1), SimpleString("OK"), NullBulk(), ErrorReply("ERR nested"))},
		{"nested arrays", "*2\r\n*1\r\n:1\r\n*0\r\n",
			Array(Array(Integer(1)), Array())},
		{"array with null array", "*1\r\n*-1\r\n", Array(NullArray())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), n)
			assert.Truef(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDecode_EmptyAndNullStayDistinct(t *testing.T) {
	empty, _, err := Decode([]byte("$0\r\n\r\n"))
	require.NoError(t, err)
	null, _, err := Decode([]byte("$-1\r\n"))
	require.NoError(t, err)

	assert.False(t, empty.Null)
	assert.NotNil(t, empty.Str)
	assert.True(t, null.Null)
	assert.False(t, empty.Equal(null))

	emptyArr, _, err := Decode([]byte("*0\r\n"))
	require.NoError(t, err)
	nullArr, _, err := Decode([]byte("*-1\r\n"))
	require.NoError(t, err)
	assert.False(t, emptyArr.Equal(nullArr))
}

func TestDecode_LeavesTrailingBytes(t *testing.T) {
	input := []byte("+OK\r\n:5\r\n")

	got, n, err := Decode(input)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, SimpleString("OK").Equal(got))

	next, m, err := Decode(input[n:])
	require.NoError(t, err)
	assert.Equal(t, 4, m)
	assert.True(t, Integer(5).Equal(next))
}

func TestDecode_DoesNotAliasBuffer(t *testing.T) {
	buf := []byte("*2\r\n$3\r\nfoo\r\n+bar\r\n")
	got, _, err := Decode(buf)
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 'x'
	}
	assert.Equal(t, "foo", got.Elems[0].Text())
	assert.Equal(t, "bar", got.Elems[1].Text())
}

// ============================================================
// Decode - incremental input
// ============================================================

func TestDecode_StrictPrefixIsIncomplete(t *testing.T) {
	frames := []string{
		"+PONG\r\n",
		"-ERR unknown command\r\n",
		":-7\r\n",
		"$-1\r\n",
		"$0\r\n\r\n",
		"$5\r\nhello\r\n",
		"*-1\r\n",
		"*0\r\n",
		"*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n",
		"*3\r\n*1\r\n:1\r\n$-1\r\n*2\r\n+a\r\n-b\r\n",
	}

	for _, frame := range frames {
		for i := 0; i < len(frame); i++ {
			prefix := []byte(frame[:i])
			got, n, err := Decode(prefix)
			require.ErrorIsf(t, err, ErrIncomplete, "frame %q prefix %q", frame, prefix)
			assert.Zero(t, n)
			assert.Zero(t, got.Kind)
		}

		_, n, err := Decode([]byte(frame))
		require.NoErrorf(t, err, "frame %q", frame)
		assert.Equal(t, len(frame), n)
	}
}

func TestDecode_GrowingBuffer(t *testing.T) {
	frame := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"

	var buf []byte
	var got Reply
	for i := 0; i < len(frame); i++ {
		buf = append(buf, frame[i])
		r, _, err := Decode(buf)
		if errors.Is(err, ErrIncomplete) {
			continue
		}
		require.NoError(t, err)
		require.Equal(t, len(frame)-1, i, "decoded before the frame was complete")
		got = r
	}

	want := Array(BulkString("SET"), BulkString("k"), BulkString("v"))
	assert.Truef(t, want.Equal(got), "got %s", got)
}

// ============================================================
// Decode - protocol errors
// ============================================================

func TestDecode_UnrecognizedType(t *testing.T) {
	for _, b := range []byte{'>', '%', '_', ',', '#', '!', '=', '(', '|', '~', 'P', ' ', '\r', 0} {
		_, _, err := Decode([]byte{b, '1', '\r', '\n'})
		require.ErrorIsf(t, err, ErrProtocol, "type byte %q", b)
		assert.Contains(t, err.Error(), "unrecognized reply type")

		// The type byte alone is enough to reject.
		_, _, err = Decode([]byte{b})
		require.ErrorIsf(t, err, ErrProtocol, "lone type byte %q", b)
	}
}

func TestDecode_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-numeric integer", ":abc\r\n"},
		{"empty integer", ":\r\n"},
		{"integer overflow", ":99999999999999999999\r\n"},
		{"non-numeric bulk length", "$x\r\nabc\r\n"},
		{"negative bulk length", "$-2\r\n"},
		{"bulk missing terminator", "$3\r\nfooXY"},
		{"non-numeric array length", "*two\r\n"},
		{"negative array length", "*-5\r\n"},
		{"bare LF", "+OK\n"},
		{"bad element inside array", "*2\r\n:1\r\n?\r\n"},
		{"bulk too long", "$536870913\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProtocol)
			assert.NotErrorIs(t, err, ErrIncomplete)
		})
	}
}

func TestDecode_Limits(t *testing.T) {
	t.Run("unterminated line too long", func(t *testing.T) {
		buf := make([]byte, MaxLineLen+2)
		buf[0] = '+'
		for i := 1; i < len(buf); i++ {
			buf[i] = 'a'
		}
		_, _, err := Decode(buf)
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("line at the limit", func(t *testing.T) {
		frame := make([]byte, 0, MaxLineLen+3)
		frame = append(frame, '+')
		for i := 0; i < MaxLineLen; i++ {
			frame = append(frame, 'a')
		}
		frame = append(frame, "\r\n"...)

		r, n, err := Decode(frame)
		require.NoError(t, err)
		assert.Equal(t, len(frame), n)
		assert.Len(t, r.Str, MaxLineLen)

		for _, cut := range []int{1, 2} {
			_, _, err := Decode(frame[:len(frame)-cut])
			assert.ErrorIs(t, err, ErrIncomplete, "prefix without last %d byte(s)", cut)
		}
	})

	t.Run("line one past the limit", func(t *testing.T) {
		frame := make([]byte, 0, MaxLineLen+4)
		frame = append(frame, '+')
		for i := 0; i <= MaxLineLen; i++ {
			frame = append(frame, 'a')
		}
		frame = append(frame, "\r\n"...)

		_, _, err := Decode(frame)
		assert.ErrorIs(t, err, ErrLimitExceeded)
		_, _, err = Decode(frame[:len(frame)-1])
		assert.ErrorIs(t, err, ErrLimitExceeded)
	})

	t.Run("nesting too deep", func(t *testing.T) {
		var buf []byte
		for i := 0; i <= MaxDepth; i++ {
			buf = append(buf, "*1\r\n"...)
		}
		buf = append(buf, ":1\r\n"...)
		_, _, err := Decode(buf)
		assert.ErrorIs(t, err, ErrLimitExceeded)
		assert.ErrorIs(t, err, ErrProtocol)
	})

	t.Run("nesting at the limit", func(t *testing.T) {
		var buf []byte
		for i := 0; i < MaxDepth; i++ {
			buf = append(buf, "*1\r\n"...)
		}
		buf = append(buf, ":1\r\n"...)
		_, _, err := Decode(buf)
		assert.NoError(t, err)
	})
}
