package service

import "github.com/calvinalkan/planmd/internal/plan"

// PlanSummary is one row of a plan listing.
type PlanSummary struct {
	ID    string
	Title string
	Etag  string
	// Invalid marks plans whose file currently fails strict parsing.
	Invalid bool
	// TaskCounts holds per-status task totals for valid plans.
	TaskCounts map[plan.Status]int
}

// PlanView is a full document view.
type PlanView struct {
	ID    string
	Title string
	Etag  string

	HasBody bool
	Body    string

	// Tasks is nested for ViewTree, flat (document order, with ParentID
	// set) for ViewFlat.
	Tasks []TaskView
}

// TaskView is one task as returned to callers.
type TaskView struct {
	ID          string
	Title       string
	Status      plan.Status
	SectionPath []string
	ParentID    string

	HasBody bool
	Body    string

	Children []TaskView
}

// taskView converts one node. Children are converted only when nested is
// true; bodies only when withBody is true.
func taskView(t *plan.Task, nested, withBody bool) TaskView {
	v := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		SectionPath: t.SectionPath,
		ParentID:    t.ParentID,
		HasBody:     t.HasBody,
	}

	if withBody && t.HasBody {
		v.Body = t.BodyMarkdown
	}

	if nested {
		for _, child := range t.Children {
			v.Children = append(v.Children, taskView(child, true, withBody))
		}
	}

	return v
}

// treeViews converts root tasks preserving nesting.
func treeViews(doc *plan.Document, withBody bool) []TaskView {
	var views []TaskView

	for _, root := range doc.RootTasks {
		views = append(views, taskView(root, true, withBody))
	}

	return views
}

// flatViews converts all tasks in document order without nesting.
func flatViews(doc *plan.Document, withBody bool) []TaskView {
	var views []TaskView

	for _, t := range doc.AllTasks() {
		views = append(views, taskView(t, false, withBody))
	}

	return views
}
