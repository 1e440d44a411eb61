package plan

import "strings"

// detectEOL returns the newline sequence used to rejoin edited lines.
func detectEOL(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}

	return "\n"
}

// splitLines splits text on any newline style. A final empty element produced
// by a trailing newline is not a real line; whether the text ended with a
// newline is returned separately so editors can preserve it.
func splitLines(text string) (lines []string, trailingNewline bool) {
	if text == "" {
		return nil, false
	}

	trailingNewline = strings.HasSuffix(text, "\n")

	raw := strings.Split(text, "\n")
	if trailingNewline {
		raw = raw[:len(raw)-1]
	}

	lines = make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines, trailingNewline
}

// joinLines is the inverse of splitLines for a given newline style.
func joinLines(lines []string, eol string, trailingNewline bool) string {
	joined := strings.Join(lines, eol)
	if trailingNewline && len(lines) > 0 {
		joined += eol
	}

	return joined
}

// countIndent returns the number of leading spaces.
func countIndent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// isBlank reports whether a line is empty or whitespace-only.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
