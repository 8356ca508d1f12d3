package output

import (
	"bytes"
	"testing"

	"github.com/yndnr/redline/internal/resp"
)

func TestRawRenderer(t *testing.T) {
	tests := []struct {
		name  string
		reply resp.Reply
		want  string
	}{
		{"simple string", resp.SimpleString("PONG"), "PONG\n"},
		{"integer", resp.Integer(-7), "-7\n"},
		{"bulk", resp.BulkString("hello world"), "hello world\n"},
		{"empty bulk", resp.BulkString(""), "\n"},
		{"null bulk", resp.NullBulk(), "(nil)\n"},
		{"binary bulk", resp.Bulk([]byte{0x00, 0xff}), "\x00\xff\n"},
		{"array", resp.Array(resp.BulkString("foo"), resp.BulkString("bar")), "foo\nbar\n"},
		{"empty array", resp.Array(), ""},
		{"null array", resp.NullArray(), "(nil)\n"},
		{
			"nested",
			resp.Array(resp.Integer(1), resp.Array(resp.BulkString("a"), resp.NullBulk()), resp.ErrorReply("ERR x")),
			"1\na\n(nil)\nERR x\n",
		},
		{"error", resp.ErrorReply("ERR unknown"), "ERR unknown\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&RawRenderer{}).Render(&buf, tt.reply); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
