package output

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/yndnr/redline/internal/core/domain"
	"github.com/yndnr/redline/internal/resp"
)

// Format represents the output format.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatRaw    Format = "raw"
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTable  Format = "table"
)

// Formats lists the values accepted by --output.
var Formats = []Format{FormatAuto, FormatRaw, FormatPretty, FormatJSON, FormatYAML}

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatAuto, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", domain.Errorf(domain.KindUsage, "unknown output format %q (want one of auto, raw, pretty, json, yaml)", s)
}

// Resolve turns auto into pretty for a terminal and raw otherwise.
func (f Format) Resolve(w io.Writer) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	if IsTerminal(w) {
		return FormatPretty
	}
	return FormatRaw
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes a reply.
type Renderer interface {
	Render(w io.Writer, r resp.Reply) error
}

// NewRenderer returns the renderer for a resolved format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatRaw:
		return &RawRenderer{}, nil
	case FormatPretty:
		return &PrettyRenderer{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return nil, domain.Errorf(domain.KindUsage, "format %q cannot render replies", format)
	}
}

// Formatter formats listings and reports.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for listings. Reply-only formats
// fall back to a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// replyValue converts a reply into plain values for structured encoders:
// strings, int64, nil, []any, and {"error": text} for error replies.
// Bulk strings go through bulk, which decides how raw bytes are carried.
func replyValue(r resp.Reply, bulk func([]byte) any) any {
	switch r.Kind {
	case resp.KindSimpleString:
		return string(r.Str)
	case resp.KindError:
		return map[string]string{"error": string(r.Str)}
	case resp.KindInteger:
		return r.Int
	case resp.KindBulkString:
		if r.Null {
			return nil
		}
		return bulk(r.Str)
	case resp.KindArray:
		if r.Null {
			return nil
		}
		out := make([]any, len(r.Elems))
		for i, e := range r.Elems {
			out[i] = replyValue(e, bulk)
		}
		return out
	default:
		panic(fmt.Sprintf("output: unknown reply kind %d", r.Kind))
	}
}

// bulkString carries bulk bytes as a Go string. yaml.v3 tags invalid UTF-8
// as !!binary on its own.
func bulkString(b []byte) any {
	return string(b)
}

// bulkJSON carries valid UTF-8 as a string and anything else as
// {"base64": ...}, since encoding/json would replace invalid bytes.
func bulkJSON(b []byte) any {
	if utf8.Valid(b) {
		return string(b)
	}
	return map[string]string{"base64": base64.StdEncoding.EncodeToString(b)}
}
