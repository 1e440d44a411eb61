package plan

// Format constants for plan markdown v1.
const (
	// FormatHeader must appear, on a line of its own, within the first
	// HeaderSearchLines lines of every document.
	FormatHeader      = "<!-- plan-md v1 -->"
	HeaderSearchLines = 30

	// DefaultTitle is used when a document has no level-1 heading.
	DefaultTitle = "Untitled Plan"

	// idKey is the key of the trailing id comment on a task line.
	idKey = "id"

	commentOpen  = "<!--"
	commentClose = "-->"

	// childIndentStep is the indent added per nesting level.
	childIndentStep = 2
)

// Document is the parsed form of one plan file. It is rebuilt from text on
// every read and edit and never cached across calls.
type Document struct {
	// Title is the text of the first level-1 heading, or DefaultTitle.
	Title string

	// TitleLine is the 0-based line of the first level-1 heading, or
	// NoLine when the document has none.
	TitleLine int

	// HasBody reports whether a document body block follows the title.
	HasBody bool
	// BodyMarkdown is the decoded document body.
	BodyMarkdown string
	// BodyRange is the source line range of the encoded body block.
	BodyRange LineRange

	// Headings lists every heading in document order.
	Headings []Heading

	// RootTasks are the top-level tasks in document order.
	RootTasks []*Task

	// TasksByID maps each task id to its node for O(1) lookup. The map
	// does not own the tasks; ownership is with RootTasks/Children.
	TasksByID map[string]*Task
}

// LineRange is an inclusive 0-based range of source lines.
type LineRange struct {
	Start int
	End   int
}

// Heading is one Markdown heading and the line range it owns.
type Heading struct {
	Level int
	Text  string
	// Line is the heading's own 0-based line.
	Line int
	// End is the inclusive last line owned by this heading: everything up
	// to the next heading of equal-or-shallower level, or end of file.
	End int
	// Path holds the ancestor heading texts, levels >= 2 only. The
	// document title (level 1) is not a section.
	Path []string
}

// Task is one checklist item.
type Task struct {
	ID     string
	Title  string
	Status Status

	// Indent is the leading-space count of the task line.
	Indent int
	// Line is the 0-based line holding the strict task syntax.
	Line int
	// BlockEndLine is the inclusive end of the task's block: its own
	// line, its body, and every descendant task block.
	BlockEndLine int

	// SectionPath is the chain of open heading texts (levels >= 2) at the
	// point the task was encountered.
	SectionPath []string

	// ParentID is empty for root tasks.
	ParentID string
	// Children holds nested tasks in document order.
	Children []*Task

	HasBody      bool
	BodyMarkdown string
	BodyRange    LineRange
}

// Walk visits t and every descendant in document order.
func (t *Task) Walk(visit func(*Task)) {
	visit(t)

	for _, child := range t.Children {
		child.Walk(visit)
	}
}

// AllTasks returns every task in document order (depth-first).
func (d *Document) AllTasks() []*Task {
	var all []*Task

	for _, root := range d.RootTasks {
		root.Walk(func(t *Task) {
			all = append(all, t)
		})
	}

	return all
}
