package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// Line grammars. The strict pattern is what the parser accepts; the validator
// uses its own, deliberately looser detector (see validate.go). Keeping them
// as two independent matchers keeps the accept/reject decision untangled from
// failure explanation.
var (
	headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)

	// strictTaskPattern captures indent, status symbol, title, and the
	// trailing id comment (with its leading spaces) of a strict task line.
	strictTaskPattern = regexp.MustCompile(
		`^( *)- \[(.)\] (.+?)( +<!-- ` + idKey + `=([A-Za-z0-9][A-Za-z0-9_-]{0,127}) -->)$`)
)

// ParseResult is the outcome of Parse. Doc is nil unless OK is true; callers
// must never act on a partially-built model.
type ParseResult struct {
	OK       bool
	Doc      *Document
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Parse builds a typed document from raw plan markdown. It is a pure
// function: no I/O, no retained state, diagnostics instead of panics.
func Parse(text string) ParseResult {
	lines, _ := splitLines(text)

	if !hasFormatHeader(lines) {
		return ParseResult{Errors: []Diagnostic{errorDiag(
			CodeMissingFormatHeader,
			fmt.Sprintf("format header %q not found in first %d lines", FormatHeader, HeaderSearchLines),
			NoLine,
		)}}
	}

	p := &parser{
		lines: lines,
		doc: &Document{
			Title:     DefaultTitle,
			TitleLine: NoLine,
			TasksByID: make(map[string]*Task),
		},
	}

	p.run()

	if len(p.errors) > 0 {
		return ParseResult{Errors: p.errors, Warnings: p.warnings}
	}

	if len(p.doc.TasksByID) == 0 {
		p.warnings = append(p.warnings, warningDiag(CodeNoTasks, "document contains no tasks", NoLine))
	}

	return ParseResult{OK: true, Doc: p.doc, Warnings: p.warnings}
}

// hasFormatHeader reports whether the v1 marker appears, on a line of its
// own, within the first HeaderSearchLines lines.
func hasFormatHeader(lines []string) bool {
	limit := min(len(lines), HeaderSearchLines)

	for i := range limit {
		if strings.TrimSpace(lines[i]) == FormatHeader {
			return true
		}
	}

	return false
}

// parser is the line scanner. It maintains a heading stack and an open-task
// stack; both are explicit stacks of frames, never recursion, since nesting
// depth is controlled by the document, not the algorithm.
type parser struct {
	lines []string
	doc   *Document

	errors   []Diagnostic
	warnings []Diagnostic

	// headingStack holds indices into doc.Headings for the open headings.
	headingStack []int
	// taskStack holds the open tasks, shallowest first.
	taskStack []*Task
}

func (p *parser) run() {
	i := 0

	for i < len(p.lines) {
		line := p.lines[i]

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			i = p.scanHeading(i, m)

			continue
		}

		if isBlank(line) {
			// Blank lines neither close open tasks nor extend blocks.
			i++

			continue
		}

		if m := strictTaskPattern.FindStringSubmatch(line); m != nil && strictMatchValid(m) {
			i = p.scanTask(i, m)

			continue
		}

		// Opaque line: closes every open task at shallower-or-equal
		// indent, extends the blocks of the rest.
		p.closeTasksAtOrBelow(countIndent(line))
		p.extendOpenBlocks(i)
		i++
	}

	p.closeTasksAtOrBelow(0)
	p.closeHeadings(1, len(p.lines)-1)
}

// scanHeading processes a heading line and returns the next line index.
func (p *parser) scanHeading(i int, m []string) int {
	level := len(m[1])

	// Any heading unconditionally closes every open task.
	p.closeTasksAtOrBelow(0)
	p.closeHeadings(level, i-1)

	heading := Heading{
		Level: level,
		Text:  strings.TrimSpace(m[2]),
		Line:  i,
		End:   i,
		Path:  p.sectionPath(),
	}

	p.doc.Headings = append(p.doc.Headings, heading)
	p.headingStack = append(p.headingStack, len(p.doc.Headings)-1)

	if level == 1 && p.doc.TitleLine == NoLine {
		p.doc.TitleLine = i
		p.doc.Title = heading.Text

		return p.scanDocumentBody(i + 1)
	}

	return i + 1
}

// scanDocumentBody absorbs the document body block, if any: the first run of
// ">"-prefixed lines at indent 0 after the blank-skip that follows the title.
// Returns the next line index to scan.
func (p *parser) scanDocumentBody(start int) int {
	j := start
	for j < len(p.lines) && isBlank(p.lines[j]) {
		j++
	}

	if j >= len(p.lines) || !strings.HasPrefix(p.lines[j], ">") {
		return start
	}

	bodyStart := j
	for j < len(p.lines) && strings.HasPrefix(p.lines[j], ">") {
		j++
	}

	p.doc.HasBody = true
	p.doc.BodyRange = LineRange{Start: bodyStart, End: j - 1}
	p.doc.BodyMarkdown = decodeBody(p.lines[bodyStart:j])

	return j
}

// scanTask processes a strict task line plus its body block and returns the
// next line index.
func (p *parser) scanTask(i int, m []string) int {
	indent := len(m[1])

	p.closeTasksAtOrBelow(indent)

	status, _ := StatusForSymbol(m[2][0])

	task := &Task{
		ID:           m[5],
		Title:        m[3],
		Status:       status,
		Indent:       indent,
		Line:         i,
		BlockEndLine: i,
		SectionPath:  p.sectionPath(),
	}

	if parent := p.openTask(); parent != nil {
		task.ParentID = parent.ID
		parent.Children = append(parent.Children, task)
	} else {
		p.doc.RootTasks = append(p.doc.RootTasks, task)
	}

	if _, dup := p.doc.TasksByID[task.ID]; dup {
		p.errors = append(p.errors, errorDiag(
			CodeDuplicateTaskID,
			fmt.Sprintf("duplicate task id %q", task.ID),
			i,
		))
	} else {
		p.doc.TasksByID[task.ID] = task
	}

	p.taskStack = append(p.taskStack, task)
	p.extendOpenBlocks(i)

	// Body block: a maximal run of ">"-prefixed lines indented at least
	// two past the task. The encoding keeps body content inert; a body
	// line can spell out a task without being parsed as one.
	j := i + 1
	for j < len(p.lines) && isTaskBodyLine(p.lines[j], indent) {
		j++
	}

	if j > i+1 {
		task.HasBody = true
		task.BodyRange = LineRange{Start: i + 1, End: j - 1}
		task.BodyMarkdown = decodeBody(p.lines[i+1 : j])
		p.extendOpenBlocks(j - 1)
	}

	return j
}

// strictMatchValid applies the constraints the regex alone cannot express.
func strictMatchValid(m []string) bool {
	if len(m[1])%childIndentStep != 0 {
		return false
	}

	if _, ok := StatusForSymbol(m[2][0]); !ok {
		return false
	}

	title := m[3]
	if strings.Contains(title, commentOpen) || strings.Contains(title, commentClose) {
		return false
	}

	return true
}

// isTaskBodyLine reports whether line continues the body block of a task at
// the given indent.
func isTaskBodyLine(line string, taskIndent int) bool {
	if countIndent(line) < taskIndent+childIndentStep {
		return false
	}

	return strings.HasPrefix(strings.TrimLeft(line, " "), ">")
}

// openTask returns the innermost open task, or nil.
func (p *parser) openTask() *Task {
	if len(p.taskStack) == 0 {
		return nil
	}

	return p.taskStack[len(p.taskStack)-1]
}

// closeTasksAtOrBelow pops every open task whose indent is >= indent.
func (p *parser) closeTasksAtOrBelow(indent int) {
	for len(p.taskStack) > 0 && p.openTask().Indent >= indent {
		p.taskStack = p.taskStack[:len(p.taskStack)-1]
	}
}

// extendOpenBlocks stretches every open task's block to cover line i.
func (p *parser) extendOpenBlocks(i int) {
	for _, t := range p.taskStack {
		t.BlockEndLine = i
	}
}

// closeHeadings closes open headings whose level is >= level, recording end
// as their inclusive owned-range end.
func (p *parser) closeHeadings(level, end int) {
	for len(p.headingStack) > 0 {
		top := p.headingStack[len(p.headingStack)-1]
		if p.doc.Headings[top].Level < level {
			break
		}

		if end >= p.doc.Headings[top].Line {
			p.doc.Headings[top].End = end
		}

		p.headingStack = p.headingStack[:len(p.headingStack)-1]
	}
}

// sectionPath returns the open heading texts, levels >= 2 only.
func (p *parser) sectionPath() []string {
	var path []string

	for _, idx := range p.headingStack {
		if p.doc.Headings[idx].Level >= 2 {
			path = append(path, p.doc.Headings[idx].Text)
		}
	}

	return path
}

// decodeBody strips the blockquote encoding: leading spaces, one ">", and at
// most one following space per line.
func decodeBody(encoded []string) string {
	decoded := make([]string, len(encoded))

	for i, line := range encoded {
		s := strings.TrimLeft(line, " ")
		s = strings.TrimPrefix(s, ">")

		if len(s) > 0 && s[0] == ' ' {
			s = s[1:]
		}

		decoded[i] = s
	}

	return strings.Join(decoded, "\n")
}

// encodeBody renders logical body lines with the blockquote encoding at the
// given indent: "{spaces}> {line}", or a bare "{spaces}>" for empty lines.
func encodeBody(body string, indent int) []string {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	logical := strings.Split(normalized, "\n")
	prefix := strings.Repeat(" ", indent)

	encoded := make([]string, len(logical))
	for i, line := range logical {
		if line == "" {
			encoded[i] = prefix + ">"
		} else {
			encoded[i] = prefix + "> " + line
		}
	}

	return encoded
}
