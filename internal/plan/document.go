package plan

import "strings"

// NewDocumentText renders a fresh, strictly valid plan document: the format
// header, the title heading, and an optional document body. An empty title
// falls back to DefaultTitle.
func NewDocumentText(title, body string) string {
	t, err := sanitizeTitle(title)
	if err != nil {
		t = DefaultTitle
	}

	lines := []string{FormatHeader, "", "# " + t}

	if body != "" {
		lines = append(lines, "")
		lines = append(lines, encodeBody(body, 0)...)
	}

	return strings.Join(lines, "\n") + "\n"
}
