package output

import (
	"encoding/json"
	"io"

	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

// JSONFormatter renders the debug report as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) Format(w io.Writer, report *widget.DebugReport) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
