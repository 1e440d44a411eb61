package plan

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// statusAnchorPattern anchors the three-character bracket on a task line so
// SetStatus can replace the symbol and nothing else.
var statusAnchorPattern = regexp.MustCompile(`^( *- \[)(.)\] `)

// editContext is the shared shape of every edit: a freshly parsed document,
// a mutable line-array copy, and the original text's newline conventions.
type editContext struct {
	doc             *Document
	lines           []string
	eol             string
	trailingNewline bool
}

// beginEdit parses text, refusing to edit an invalid document.
func beginEdit(text string) (*editContext, error) {
	result := Parse(text)
	if !result.OK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, summarizeErrors(result.Errors))
	}

	lines, trailing := splitLines(text)

	return &editContext{
		doc:             result.Doc,
		lines:           lines,
		eol:             detectEOL(text),
		trailingNewline: trailing,
	}, nil
}

// task locates the edit target by id.
func (e *editContext) task(id string) (*Task, error) {
	t, ok := e.doc.TasksByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}

	return t, nil
}

// finish rejoins the lines with the original newline style and re-validates
// the result. A successful edit is guaranteed to yield a strictly valid
// document.
func (e *editContext) finish() (string, error) {
	text := joinLines(e.lines, e.eol, e.trailingNewline)

	if result := Parse(text); !result.OK {
		return "", fmt.Errorf("%w: %s", ErrEditRegression, summarizeErrors(result.Errors))
	}

	return text, nil
}

// SetStatus rewrites the bracket symbol on the target's line. Every other
// byte of the line is untouched.
func SetStatus(text, taskID string, status Status) (string, error) {
	sym, err := status.Symbol()
	if err != nil {
		return "", err
	}

	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	t, err := e.task(taskID)
	if err != nil {
		return "", err
	}

	line := e.lines[t.Line]

	m := statusAnchorPattern.FindStringSubmatch(line)
	if m == nil {
		return "", fmt.Errorf("%w: line %d", ErrLineShapeChanged, t.Line+1)
	}

	cut := len(m[1])
	e.lines[t.Line] = line[:cut] + string(sym) + line[cut+1:]

	return e.finish()
}

// RenameTask splices a sanitized title between the line's status prefix and
// its id trailer, leaving both anchors untouched.
func RenameTask(text, taskID, newTitle string) (string, error) {
	title, err := sanitizeTitle(newTitle)
	if err != nil {
		return "", err
	}

	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	t, err := e.task(taskID)
	if err != nil {
		return "", err
	}

	m := strictTaskPattern.FindStringSubmatch(e.lines[t.Line])
	if m == nil {
		return "", fmt.Errorf("%w: line %d", ErrLineShapeChanged, t.Line+1)
	}

	e.lines[t.Line] = m[1] + "- [" + m[2] + "] " + title + m[4]

	return e.finish()
}

// DeleteTask removes the task's block: its own line plus everything nested
// under it, and nothing else.
func DeleteTask(text, taskID string) (string, error) {
	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	t, err := e.task(taskID)
	if err != nil {
		return "", err
	}

	e.lines = slices.Delete(e.lines, t.Line, t.BlockEndLine+1)

	return e.finish()
}

// AddTaskOptions places a new task. Placement priority: Before, then
// Parent, then Section, then end of file.
type AddTaskOptions struct {
	Title  string
	Status Status // empty means todo
	Body   string

	// Before inserts immediately before this sibling anchor task, at the
	// anchor's indent.
	Before string
	// Parent inserts as the last line of this task's block, one level
	// deeper.
	Parent string
	// Section inserts at the end of this heading path's owned range,
	// creating the headings at end of file when the path does not exist.
	Section []string
}

// AddTask inserts a freshly identified strict task line (and optional body
// block) into the document. A document whose only defect is a missing format
// header is healed inline; any other defect refuses the add.
func AddTask(text string, opts AddTaskOptions) (newText, taskID string, err error) {
	status := opts.Status
	if status == "" {
		status = StatusTodo
	}

	sym, err := status.Symbol()
	if err != nil {
		return "", "", err
	}

	title, err := sanitizeTitle(opts.Title)
	if err != nil {
		return "", "", err
	}

	eol := detectEOL(text)

	text, result, err := parseForAdd(text, eol)
	if err != nil {
		return "", "", err
	}

	doc := result.Doc

	taskID = NewTaskID()
	if _, exists := doc.TasksByID[taskID]; exists {
		return "", "", fmt.Errorf("%w: %q", ErrIDCollision, taskID)
	}

	lines, _ := splitLines(text)

	lines, insertAt, indent, err := addInsertionPoint(lines, doc, opts)
	if err != nil {
		return "", "", err
	}

	block := []string{taskLine(indent, sym, title, taskID)}
	if opts.Body != "" {
		block = append(block, encodeBody(opts.Body, indent+childIndentStep)...)
	}

	lines = slices.Insert(lines, insertAt, block...)

	// An add always normalizes the result to end with a newline.
	newText = joinLines(lines, eol, true)

	if check := Parse(newText); !check.OK {
		return "", "", fmt.Errorf("%w: %s", ErrEditRegression, summarizeErrors(check.Errors))
	}

	return newText, taskID, nil
}

// parseForAdd parses text for AddTask, healing a missing format header (the
// one defect an add may fix inline) and refusing on anything else.
func parseForAdd(text, eol string) (string, ParseResult, error) {
	result := Parse(text)
	if result.OK {
		return text, result, nil
	}

	if !onlyMissingHeader(result.Errors) {
		return "", ParseResult{}, fmt.Errorf("%w: %s", ErrInvalidDocument, summarizeErrors(result.Errors))
	}

	lines, _ := splitLines(text)
	text = joinLines(insertFormatHeader(lines), eol, true)

	result = Parse(text)
	if !result.OK {
		return "", ParseResult{}, fmt.Errorf("%w: %s", ErrInvalidDocument, summarizeErrors(result.Errors))
	}

	return text, result, nil
}

func onlyMissingHeader(errs []Diagnostic) bool {
	return len(errs) == 1 && errs[0].Code == CodeMissingFormatHeader
}

// addInsertionPoint resolves where the new task line goes and at what
// indent, appending synthesized headings for a missing section.
func addInsertionPoint(lines []string, doc *Document, opts AddTaskOptions) ([]string, int, int, error) {
	switch {
	case opts.Before != "":
		anchor, ok := doc.TasksByID[opts.Before]
		if !ok {
			return nil, 0, 0, fmt.Errorf("%w: %q", ErrTaskNotFound, opts.Before)
		}

		return lines, anchor.Line, anchor.Indent, nil

	case opts.Parent != "":
		parent, ok := doc.TasksByID[opts.Parent]
		if !ok {
			return nil, 0, 0, fmt.Errorf("%w: %q", ErrTaskNotFound, opts.Parent)
		}

		return lines, parent.BlockEndLine + 1, parent.Indent + childIndentStep, nil

	case len(opts.Section) > 0:
		if h, found := findSection(doc, opts.Section); found {
			return lines, h.End + 1, 0, nil
		}

		// Synthesize the heading path at end of file: ##, ###, ... by
		// depth.
		if len(lines) > 0 && !isBlank(lines[len(lines)-1]) {
			lines = append(lines, "")
		}

		for depth, section := range opts.Section {
			lines = append(lines, strings.Repeat("#", depth+2)+" "+section)
		}

		return lines, len(lines), 0, nil

	default:
		return lines, len(lines), 0, nil
	}
}

// findSection locates the first heading (document order) whose full path
// equals the requested chain.
func findSection(doc *Document, section []string) (Heading, bool) {
	for _, h := range doc.Headings {
		if h.Level < 2 {
			continue
		}

		full := append(slices.Clone(h.Path), h.Text)
		if slices.Equal(full, section) {
			return h, true
		}
	}

	return Heading{}, false
}

// taskLine renders a strict task line.
func taskLine(indent int, sym byte, title, id string) string {
	return strings.Repeat(" ", indent) + "- [" + string(sym) + "] " + title +
		" " + commentOpen + " " + idKey + "=" + id + " " + commentClose
}

// insertFormatHeader puts the v1 marker on the first line, separated from
// existing content by one blank line.
func insertFormatHeader(lines []string) []string {
	if len(lines) == 0 {
		return []string{FormatHeader}
	}

	head := []string{FormatHeader}
	if !isBlank(lines[0]) {
		head = append(head, "")
	}

	return append(head, lines...)
}

// SetTaskBody replaces (or attaches) the task's body block with body encoded
// at the task's indent plus one level.
func SetTaskBody(text, taskID, body string) (string, error) {
	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	t, err := e.task(taskID)
	if err != nil {
		return "", err
	}

	encoded := encodeBody(body, t.Indent+childIndentStep)

	if t.HasBody {
		e.lines = replaceRange(e.lines, t.BodyRange, encoded)
	} else {
		e.lines = slices.Insert(e.lines, t.Line+1, encoded...)
	}

	return e.finish()
}

// ClearTaskBody removes exactly the body's source line range. Clearing a
// task without a body is a no-op.
func ClearTaskBody(text, taskID string) (string, error) {
	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	t, err := e.task(taskID)
	if err != nil {
		return "", err
	}

	if !t.HasBody {
		return text, nil
	}

	e.lines = slices.Delete(e.lines, t.BodyRange.Start, t.BodyRange.End+1)

	return e.finish()
}

// SetDocumentBody replaces (or attaches) the document body under the title.
func SetDocumentBody(text, body string) (string, error) {
	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	if e.doc.TitleLine == NoLine {
		return "", ErrNoTitleHeading
	}

	encoded := encodeBody(body, 0)

	if e.doc.HasBody {
		e.lines = replaceRange(e.lines, e.doc.BodyRange, encoded)
	} else {
		at := e.doc.TitleLine + 1
		for at < len(e.lines) && isBlank(e.lines[at]) {
			at++
		}

		e.lines = slices.Insert(e.lines, at, encoded...)
	}

	return e.finish()
}

// ClearDocumentBody removes the document body block, if present.
func ClearDocumentBody(text string) (string, error) {
	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	if !e.doc.HasBody {
		return text, nil
	}

	e.lines = slices.Delete(e.lines, e.doc.BodyRange.Start, e.doc.BodyRange.End+1)

	return e.finish()
}

// SetTitle rewrites only the line holding the first level-1 heading.
func SetTitle(text, newTitle string) (string, error) {
	title, err := sanitizeTitle(newTitle)
	if err != nil {
		return "", err
	}

	e, err := beginEdit(text)
	if err != nil {
		return "", err
	}

	if e.doc.TitleLine == NoLine {
		return "", ErrNoTitleHeading
	}

	e.lines[e.doc.TitleLine] = "# " + title

	return e.finish()
}

// replaceRange swaps an inclusive line range for replacement lines.
func replaceRange(lines []string, r LineRange, replacement []string) []string {
	out := make([]string, 0, len(lines)-(r.End-r.Start+1)+len(replacement))
	out = append(out, lines[:r.Start]...)
	out = append(out, replacement...)
	out = append(out, lines[r.End+1:]...)

	return out
}

// sanitizeTitle flattens a title to a single line and strips the comment
// delimiters the task grammar reserves for id trailers.
func sanitizeTitle(title string) (string, error) {
	s := strings.ReplaceAll(title, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	for strings.Contains(s, commentOpen) || strings.Contains(s, commentClose) {
		s = strings.ReplaceAll(s, commentOpen, "")
		s = strings.ReplaceAll(s, commentClose, "")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyTitle
	}

	return s, nil
}
