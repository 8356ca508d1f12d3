package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/redline/internal/resp"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// Render formats a reply tree as JSON. Bulk strings that are not valid
// UTF-8 are written as {"base64": "..."}.
func (f *JSONFormatter) Render(w io.Writer, r resp.Reply) error {
	return f.Format(w, replyValue(r, bulkJSON))
}
