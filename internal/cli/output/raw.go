package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/yndnr/redline/internal/resp"
)

// RawRenderer prints values without decoration: bulk strings byte for
// byte, integers in decimal, (nil) for null, and array elements one per
// line, flattened. An empty array prints nothing.
type RawRenderer struct{}

// Render writes r.
func (f *RawRenderer) Render(w io.Writer, r resp.Reply) error {
	bw := bufio.NewWriter(w)
	writeRaw(bw, r)
	return bw.Flush()
}

func writeRaw(w *bufio.Writer, r resp.Reply) {
	switch r.Kind {
	case resp.KindArray:
		if r.Null {
			w.WriteString("(nil)\n")
			return
		}
		for _, e := range r.Elems {
			writeRaw(w, e)
		}
	case resp.KindInteger:
		w.WriteString(strconv.FormatInt(r.Int, 10))
		w.WriteByte('\n')
	case resp.KindBulkString:
		if r.Null {
			w.WriteString("(nil)\n")
			return
		}
		w.Write(r.Str)
		w.WriteByte('\n')
	default:
		w.Write(r.Str)
		w.WriteByte('\n')
	}
}
