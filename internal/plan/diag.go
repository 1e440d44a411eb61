package plan

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes.
const (
	CodeMissingFormatHeader = "MISSING_FORMAT_HEADER"
	CodeDuplicateTaskID     = "DUPLICATE_TASK_ID"
	CodeInvalidTaskID       = "INVALID_TASK_ID"
	CodeMissingTaskID       = "MISSING_TASK_ID"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeMalformedTaskLine   = "MALFORMED_TASK_LINE"
	CodeNoTasks             = "NO_TASKS"
)

// NoLine marks a diagnostic that is not tied to a specific line.
const NoLine = -1

// Diagnostic is one parser or validator finding.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Line     int // 0-based; NoLine when not line-scoped
}

func (d Diagnostic) String() string {
	if d.Line == NoLine {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}

	return fmt.Sprintf("%s %s (line %d): %s", d.Severity, d.Code, d.Line+1, d.Message)
}

func errorDiag(code, msg string, line int) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, Message: msg, Line: line}
}

func warningDiag(code, msg string, line int) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: msg, Line: line}
}

// mergeDiagnostics combines diagnostic slices, dropping exact duplicates
// (same severity, code, line, and message) and ordering by line then code.
func mergeDiagnostics(slices ...[]Diagnostic) []Diagnostic {
	seen := make(map[Diagnostic]bool)

	var merged []Diagnostic

	for _, diags := range slices {
		for _, d := range diags {
			if seen[d] {
				continue
			}

			seen[d] = true

			merged = append(merged, d)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Line != merged[j].Line {
			return merged[i].Line < merged[j].Line
		}

		return merged[i].Code < merged[j].Code
	})

	return merged
}

// splitBySeverity partitions diagnostics into errors and warnings.
func splitBySeverity(diags []Diagnostic) (errs, warns []Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		} else {
			warns = append(warns, d)
		}
	}

	return errs, warns
}

// summarizeErrors renders error diagnostics into one human-readable string.
func summarizeErrors(diags []Diagnostic) string {
	errs, _ := splitBySeverity(diags)

	parts := make([]string, 0, len(errs))
	for _, d := range errs {
		parts = append(parts, d.String())
	}

	return strings.Join(parts, "; ")
}
