package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/redline/internal/resp"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as YAML.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// Render formats a reply tree as YAML.
func (f *YAMLFormatter) Render(w io.Writer, r resp.Reply) error {
	return f.Format(w, replyValue(r, bulkString))
}
