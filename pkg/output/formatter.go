// Package output renders the widget's diagnostic report for the CLI and
// the debug API.
package output

import (
	"io"

	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

// Formatter renders a debug report to a writer.
type Formatter interface {
	Format(w io.Writer, report *widget.DebugReport) error
}
