package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// Loose detectors used only for diagnosis. These intentionally accept far
// more than the strict grammar so the validator can explain *why* a line
// failed instead of just rejecting it.
var (
	// looseTaskPattern matches any line that looks like an attempted task.
	looseTaskPattern = regexp.MustCompile(`^( *)- \[([^\]]*)\](.*)$`)

	// looseIDTrailerPattern extracts a trailing id comment whose id uses
	// only characters from the id charset. A trailer with characters
	// outside the charset is deliberately treated as "no id present":
	// extracting ids out of arbitrary HTML comments would produce
	// false positives.
	looseIDTrailerPattern = regexp.MustCompile(`<!--\s*` + idKey + `=([A-Za-z0-9_-]+)\s*-->\s*$`)
)

// Validate diagnoses raw text independently of whether the strict parser
// succeeds, and merges its findings with the parser's own diagnostics into
// one deduplicated report.
func Validate(text string) []Diagnostic {
	result := Parse(text)

	merged := mergeDiagnostics(result.Errors, result.Warnings, scanCandidates(text))

	// The zero-tasks warning only applies to otherwise-clean documents.
	// The parser emits it without seeing the candidate scan's errors, so
	// it is filtered here once the full report is known.
	if errs, _ := splitBySeverity(merged); len(errs) > 0 {
		filtered := merged[:0]

		for _, d := range merged {
			if d.Code == CodeNoTasks {
				continue
			}

			filtered = append(filtered, d)
		}

		merged = filtered
	}

	return merged
}

// scanCandidates classifies every candidate task line the strict grammar
// rejects, and reports duplicate ids over the same scan.
func scanCandidates(text string) []Diagnostic {
	lines, _ := splitLines(text)

	var diags []Diagnostic

	seenIDs := make(map[string]int) // id -> first line

	inFence := false

	for i, line := range lines {
		// Candidate lines inside fenced code blocks are samples, not
		// attempted tasks. Repair skips them for the same reason.
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence

			continue
		}

		if inFence {
			continue
		}

		m := looseTaskPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		id, hasID := extractLooseID(line)

		if hasID && IsValidID(id) {
			// Message matches the parser's so the merged report
			// deduplicates cleanly.
			if _, dup := seenIDs[id]; dup {
				diags = append(diags, errorDiag(
					CodeDuplicateTaskID,
					fmt.Sprintf("duplicate task id %q", id),
					i,
				))
			} else {
				seenIDs[id] = i
			}
		}

		if sm := strictTaskPattern.FindStringSubmatch(line); sm != nil && strictMatchValid(sm) {
			continue // strict line, nothing to diagnose
		}

		diags = append(diags, classifyCandidate(i, m, id, hasID)...)
	}

	return diags
}

// extractLooseID pulls the id out of a trailing id comment, if one is
// present under the conservative charset rule.
func extractLooseID(line string) (string, bool) {
	m := looseIDTrailerPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// classifyCandidate explains why a candidate task line is not a strict task
// line. Invalid-id takes precedence over the generic malformed-line report.
func classifyCandidate(line int, loose []string, id string, hasID bool) []Diagnostic {
	var diags []Diagnostic

	statusOK := false

	sym := loose[2]
	if len(sym) == 1 {
		_, statusOK = StatusForSymbol(sym[0])
	}

	if !statusOK {
		diags = append(diags, errorDiag(
			CodeInvalidStatus,
			fmt.Sprintf("unrecognized status symbol %q (want one of %q, %q, %q)",
				sym, string(symbolTodo), string(symbolDoing), string(symbolDone)),
			line,
		))
	}

	switch {
	case !hasID:
		diags = append(diags, errorDiag(
			CodeMissingTaskID,
			"task line has no trailing id comment",
			line,
		))
	case !IsValidID(id):
		diags = append(diags, errorDiag(
			CodeInvalidTaskID,
			fmt.Sprintf("task id %q does not match the identifier grammar", id),
			line,
		))
	case statusOK:
		diags = append(diags, errorDiag(
			CodeMalformedTaskLine,
			"task line does not match the task grammar",
			line,
		))
	}

	return diags
}
