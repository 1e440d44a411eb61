package service

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/store"
)

// CreatePlan creates a new plan document with the format header, a title
// heading, and an optional document body. Exactly one of two concurrent
// creators wins; the loser gets store.ErrPlanExists.
func (s *Service) CreatePlan(planID, title, body string) (etag string, err error) {
	path, err := s.store.PlanPath(planID)
	if err != nil {
		return "", err
	}

	text := plan.NewDocumentText(title, body)

	if err := s.store.Create(path, text); err != nil {
		return "", err
	}

	s.log.Debug("created plan", "plan", planID, "path", path)

	return store.Etag(text), nil
}

// ListPlans returns summaries of every plan, optionally filtered by a
// case-insensitive substring over id and title.
func (s *Service) ListPlans(filter string) ([]PlanSummary, error) {
	ids, err := s.store.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(filter)

	var summaries []PlanSummary

	for _, id := range ids {
		_, text, etag, err := s.store.Read(id)
		if err != nil {
			return nil, err
		}

		summary := PlanSummary{ID: id, Etag: etag}

		if result := plan.Parse(text); result.OK {
			summary.Title = result.Doc.Title
			summary.TaskCounts = countTasks(result.Doc)
		} else {
			summary.Invalid = true
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(summary.ID), needle) &&
			!strings.Contains(strings.ToLower(summary.Title), needle) {
			continue
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func countTasks(doc *plan.Document) map[plan.Status]int {
	counts := make(map[plan.Status]int)

	for _, t := range doc.AllTasks() {
		counts[t.Status]++
	}

	return counts
}

// GetPlanOptions configures GetPlan.
type GetPlanOptions struct {
	// View is ViewTree (default) or ViewFlat.
	View string
	// IncludeBodies attaches decoded task bodies to the views.
	IncludeBodies bool
}

// GetPlan returns a full document view.
func (s *Service) GetPlan(planID string, opts GetPlanOptions) (PlanView, error) {
	view := opts.View
	if view == "" {
		view = ViewTree
	}

	if view != ViewTree && view != ViewFlat {
		return PlanView{}, fmt.Errorf("unknown task view %q", opts.View)
	}

	_, text, etag, err := s.store.Read(planID)
	if err != nil {
		return PlanView{}, err
	}

	doc, err := parseValid(text)
	if err != nil {
		return PlanView{}, err
	}

	pv := PlanView{
		ID:      planID,
		Title:   doc.Title,
		Etag:    etag,
		HasBody: doc.HasBody,
	}

	if opts.IncludeBodies && doc.HasBody {
		pv.Body = doc.BodyMarkdown
	}

	if view == ViewTree {
		pv.Tasks = treeViews(doc, opts.IncludeBodies)
	} else {
		pv.Tasks = flatViews(doc, opts.IncludeBodies)
	}

	return pv, nil
}
