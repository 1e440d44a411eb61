// Package service composes the document engine and the store into the named
// operations the CLI/tool-transport layer calls. Every operation re-reads,
// re-parses, mutates, and re-writes in one pass; the etag is the sole
// coordination token between concurrent callers.
package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/store"
)

// Conflict and targeting failure modes.
var (
	// ErrConflict signals an expected-etag mismatch. The caller must
	// re-read and retry; the core never retries on its own.
	ErrConflict = errors.New("etag conflict")

	// ErrAmbiguousTarget signals more than one doing task when a write
	// omitted the task id. The system refuses to guess.
	ErrAmbiguousTarget = errors.New("more than one task is doing, pass an explicit task id")

	// ErrEtagRequired signals a default-targeted write without an
	// expected etag. Guessing against uninspected state is refused.
	ErrEtagRequired = errors.New("an expected etag is required when the task id is omitted")

	// ErrNoUnfinishedTask signals default targeting on a document whose
	// tasks are all done (or absent).
	ErrNoUnfinishedTask = errors.New("no unfinished task")

	// ErrNothingToUpdate signals an update request with no mutation.
	ErrNothingToUpdate = errors.New("nothing to update")
)

// Task view modes for GetPlan.
const (
	ViewTree = "tree"
	ViewFlat = "flat"
)

// Service is the orchestration API. It is stateless between calls.
type Service struct {
	store *store.Store
	log   *log.Logger
}

// New creates a Service. A nil logger disables operation tracing.
func New(st *store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Service{store: st, log: logger}
}

// checkEtag aborts a mutating operation before any parsing or editing work
// when the caller's expected etag does not match the just-read state.
func checkEtag(ifMatch, current string) error {
	if ifMatch != "" && ifMatch != current {
		return fmt.Errorf("%w: expected %s, document is at %s", ErrConflict, ifMatch, current)
	}

	return nil
}

// parseValid parses text and converts structural errors into a single error.
func parseValid(text string) (*plan.Document, error) {
	result := plan.Parse(text)
	if !result.OK {
		return nil, fmt.Errorf("%w: %s", plan.ErrInvalidDocument, diagSummary(result.Errors))
	}

	return result.Doc, nil
}

func diagSummary(diags []plan.Diagnostic) string {
	parts := ""
	for i, d := range diags {
		if i > 0 {
			parts += "; "
		}

		parts += d.String()
	}

	return parts
}

// defaultTarget implements the two-state default-target rule: the unique
// doing task, else the first unfinished task in document order. For writes,
// multiple doing tasks are an ambiguity, not a tiebreak.
func defaultTarget(doc *plan.Document, forWrite bool) (*plan.Task, error) {
	all := doc.AllTasks()

	var doing []*plan.Task

	for _, t := range all {
		if t.Status == plan.StatusDoing {
			doing = append(doing, t)
		}
	}

	if len(doing) == 1 {
		return doing[0], nil
	}

	if forWrite && len(doing) > 1 {
		return nil, ErrAmbiguousTarget
	}

	for _, t := range all {
		if t.Status != plan.StatusDone {
			return t, nil
		}
	}

	return nil, ErrNoUnfinishedTask
}
