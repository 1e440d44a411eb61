package service

import (
	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/store"
)

// ValidatePlan diagnoses a plan without modifying it.
func (s *Service) ValidatePlan(planID string) ([]plan.Diagnostic, string, error) {
	_, text, etag, err := s.store.Read(planID)
	if err != nil {
		return nil, "", err
	}

	return plan.Validate(text), etag, nil
}

// RepairOutcome reports what a repair did (or, dry-run, would do).
type RepairOutcome struct {
	Applied []plan.RepairChange
	// Etag is the etag of the repaired text. For a dry run it is the
	// would-be etag; nothing was written.
	Etag   string
	DryRun bool
	// NewText carries the would-be text for dry runs.
	NewText string
}

// RepairPlan applies the named repair actions. With dryRun the result and
// its etag are computed without writing.
func (s *Service) RepairPlan(planID string, actions []string, dryRun bool, ifMatch string) (RepairOutcome, error) {
	path, text, current, err := s.store.Read(planID)
	if err != nil {
		return RepairOutcome{}, err
	}

	if err := checkEtag(ifMatch, current); err != nil {
		return RepairOutcome{}, err
	}

	result, err := plan.Repair(text, actions)
	if err != nil {
		return RepairOutcome{}, err
	}

	outcome := RepairOutcome{
		Applied: result.Applied,
		Etag:    store.Etag(result.NewText),
		DryRun:  dryRun,
	}

	if dryRun {
		outcome.NewText = result.NewText

		return outcome, nil
	}

	if len(result.Applied) > 0 {
		if err := s.store.Write(path, result.NewText); err != nil {
			return RepairOutcome{}, err
		}

		s.log.Debug("repaired plan", "plan", planID, "changes", len(result.Applied))
	}

	return outcome, nil
}
