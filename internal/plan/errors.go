package plan

import "errors"

// Editor and repair failure modes. The parser and validator never return
// these; they report diagnostics instead.
var (
	// ErrInvalidDocument signals an edit was requested on a document with
	// structural errors. The caller must repair explicitly first.
	ErrInvalidDocument = errors.New("document has structural errors")

	// ErrEditRegression signals the defensive post-edit validation found
	// the edited text invalid. A successful edit never regresses the
	// document.
	ErrEditRegression = errors.New("edit produced an invalid document")

	// ErrTaskNotFound signals an unknown task id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrLineShapeChanged signals a task line no longer matches the shape
	// the model expects: the in-memory model and the text have diverged.
	ErrLineShapeChanged = errors.New("task line does not match expected shape")

	// ErrEmptyTitle signals a title that is empty after sanitization.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrIDCollision signals a freshly generated id that already exists
	// in the document. Practically impossible; failing loudly beats a
	// silent retry.
	ErrIDCollision = errors.New("generated task id already exists")

	// ErrNoTitleHeading signals a document-level operation that needs a
	// level-1 heading on a document that has none.
	ErrNoTitleHeading = errors.New("document has no level-1 title heading")

	// ErrUnknownRepairAction signals an unrecognized repair action name.
	ErrUnknownRepairAction = errors.New("unknown repair action")

	// ErrRepairIncomplete signals the repaired text still has errors.
	// Repair never returns a partially-fixed document.
	ErrRepairIncomplete = errors.New("document still invalid after repair")
)
