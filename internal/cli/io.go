package cli

import (
	"fmt"
	"io"
	"slices"
)

// fprintln writes a line, ignoring write errors: output failures on stdout
// or stderr are not actionable here.
func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// fprintf writes formatted output, ignoring write errors.
func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

// hasHelpFlag reports whether args request command help.
func hasHelpFlag(args []string) bool {
	return slices.Contains(args, helpFlag) || slices.Contains(args, "-h")
}
