package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/redline/internal/resp"
)

// PrettyRenderer prints replies the way redis-cli does on a terminal.
type PrettyRenderer struct{}

// Render writes r.
func (f *PrettyRenderer) Render(w io.Writer, r resp.Reply) error {
	var b strings.Builder
	for _, line := range prettyLines(r) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func prettyLines(r resp.Reply) []string {
	switch r.Kind {
	case resp.KindSimpleString:
		return []string{string(r.Str)}
	case resp.KindError:
		return []string{"(error) " + string(r.Str)}
	case resp.KindInteger:
		return []string{"(integer) " + strconv.FormatInt(r.Int, 10)}
	case resp.KindBulkString:
		if r.Null {
			return []string{"(nil)"}
		}
		return []string{Quote(r.Str)}
	case resp.KindArray:
		if r.Null {
			return []string{"(nil)"}
		}
		if len(r.Elems) == 0 {
			return []string{"(empty array)"}
		}
		return arrayLines(r.Elems)
	default:
		return nil
	}
}

// arrayLines numbers elements from 1, right-aligning the index and
// indenting nested lines under their element.
func arrayLines(elems []resp.Reply) []string {
	width := len(strconv.Itoa(len(elems)))
	var out []string
	for i, e := range elems {
		idx := strconv.Itoa(i + 1)
		prefix := strings.Repeat(" ", width-len(idx)) + idx + ") "
		pad := strings.Repeat(" ", len(prefix))
		for j, line := range prettyLines(e) {
			if j == 0 {
				out = append(out, prefix+line)
			} else {
				out = append(out, pad+line)
			}
		}
	}
	return out
}

// Quote renders bytes as a double-quoted string with redis-cli escapes.
func Quote(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if c < 0x20 || c >= 0x7f {
				const hex = "0123456789abcdef"
				sb.WriteString(`\x`)
				sb.WriteByte(hex[c>>4])
				sb.WriteByte(hex[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
