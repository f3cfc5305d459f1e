package report

import (
	"fmt"
	"strings"
)

// FormatText renders diagnostics one per line, editor-friendly:
// path:line:col severity rule message
func FormatText(diagnostics []Diagnostic) string {
	var sb strings.Builder
	for _, d := range diagnostics {
		fmt.Fprintf(&sb, "%s:%d:%d %s %s %s\n",
			d.Location.File, d.Location.Line, d.Location.Column,
			d.Severity, d.Rule, d.Message)
	}
	return sb.String()
}
