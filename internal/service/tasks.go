package service

import (
	"strings"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/store"
)

// Search limits. A requested limit of zero uses the default; anything else
// is clamped into [1, 500].
const (
	defaultSearchLimit = 50
	minSearchLimit     = 1
	maxSearchLimit     = 500
)

// GetTask returns one task with its body. An empty taskID selects the
// default target: the unique doing task, else the first unfinished one.
func (s *Service) GetTask(planID, taskID string) (TaskView, string, error) {
	_, text, etag, err := s.store.Read(planID)
	if err != nil {
		return TaskView{}, "", err
	}

	doc, err := parseValid(text)
	if err != nil {
		return TaskView{}, "", err
	}

	t, err := lookupTask(doc, taskID, false)
	if err != nil {
		return TaskView{}, "", err
	}

	return taskView(t, true, true), etag, nil
}

// lookupTask resolves an explicit task id, or the default target when the
// id is empty.
func lookupTask(doc *plan.Document, taskID string, forWrite bool) (*plan.Task, error) {
	if taskID == "" {
		return defaultTarget(doc, forWrite)
	}

	t, ok := doc.TasksByID[taskID]
	if !ok {
		return nil, plan.ErrTaskNotFound
	}

	return t, nil
}

// AddTaskOptions carries AddTask parameters through to the editor plus the
// expected etag.
type AddTaskOptions struct {
	Title   string
	Status  plan.Status
	Body    string
	Before  string
	Parent  string
	Section []string
	IfMatch string
}

// AddTask inserts a new task and returns its generated id and the new etag.
func (s *Service) AddTask(planID string, opts AddTaskOptions) (taskID, etag string, err error) {
	path, text, current, err := s.store.Read(planID)
	if err != nil {
		return "", "", err
	}

	if err := checkEtag(opts.IfMatch, current); err != nil {
		return "", "", err
	}

	newText, taskID, err := plan.AddTask(text, plan.AddTaskOptions{
		Title:   opts.Title,
		Status:  opts.Status,
		Body:    opts.Body,
		Before:  opts.Before,
		Parent:  opts.Parent,
		Section: opts.Section,
	})
	if err != nil {
		return "", "", err
	}

	if err := s.store.Write(path, newText); err != nil {
		return "", "", err
	}

	s.log.Debug("added task", "plan", planID, "task", taskID)

	return taskID, store.Etag(newText), nil
}

// UpdateTaskOptions selects which task fields to mutate. Zero values leave a
// field untouched; SetBody/ClearBody disambiguate body writes from "no body
// change".
type UpdateTaskOptions struct {
	Status plan.Status
	Title  string

	Body      string
	SetBody   bool
	ClearBody bool

	IfMatch string
}

// UpdateTask applies status/title/body mutations to one task. An empty
// taskID default-targets, which for writes requires IfMatch and refuses to
// choose among multiple doing tasks.
func (s *Service) UpdateTask(planID, taskID string, opts UpdateTaskOptions) (etag string, err error) {
	if opts.Status == "" && opts.Title == "" && !opts.SetBody && !opts.ClearBody {
		return "", ErrNothingToUpdate
	}

	if taskID == "" && opts.IfMatch == "" {
		return "", ErrEtagRequired
	}

	path, text, current, err := s.store.Read(planID)
	if err != nil {
		return "", err
	}

	if err := checkEtag(opts.IfMatch, current); err != nil {
		return "", err
	}

	if taskID == "" {
		doc, err := parseValid(text)
		if err != nil {
			return "", err
		}

		target, err := lookupTask(doc, "", true)
		if err != nil {
			return "", err
		}

		taskID = target.ID
	}

	if opts.Status != "" {
		text, err = plan.SetStatus(text, taskID, opts.Status)
		if err != nil {
			return "", err
		}
	}

	if opts.Title != "" {
		text, err = plan.RenameTask(text, taskID, opts.Title)
		if err != nil {
			return "", err
		}
	}

	switch {
	case opts.ClearBody:
		text, err = plan.ClearTaskBody(text, taskID)
	case opts.SetBody:
		text, err = plan.SetTaskBody(text, taskID, opts.Body)
	}

	if err != nil {
		return "", err
	}

	if err := s.store.Write(path, text); err != nil {
		return "", err
	}

	s.log.Debug("updated task", "plan", planID, "task", taskID)

	return store.Etag(text), nil
}

// DeleteTask removes a task's whole block. The task id is always explicit;
// deletion never default-targets.
func (s *Service) DeleteTask(planID, taskID, ifMatch string) (etag string, err error) {
	path, text, current, err := s.store.Read(planID)
	if err != nil {
		return "", err
	}

	if err := checkEtag(ifMatch, current); err != nil {
		return "", err
	}

	newText, err := plan.DeleteTask(text, taskID)
	if err != nil {
		return "", err
	}

	if err := s.store.Write(path, newText); err != nil {
		return "", err
	}

	s.log.Debug("deleted task", "plan", planID, "task", taskID)

	return store.Etag(newText), nil
}

// SearchTasks returns tasks whose title contains query (case-insensitive),
// optionally filtered by status.
func (s *Service) SearchTasks(planID, query string, status plan.Status, limit int) ([]TaskView, error) {
	switch {
	case limit == 0:
		limit = defaultSearchLimit
	case limit < minSearchLimit:
		limit = minSearchLimit
	case limit > maxSearchLimit:
		limit = maxSearchLimit
	}

	_, text, _, err := s.store.Read(planID)
	if err != nil {
		return nil, err
	}

	doc, err := parseValid(text)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)

	var matches []TaskView

	for _, t := range doc.AllTasks() {
		if status != "" && t.Status != status {
			continue
		}

		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}

		matches = append(matches, taskView(t, false, false))

		if len(matches) >= limit {
			break
		}
	}

	return matches, nil
}
