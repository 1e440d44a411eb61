package plan

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Identifier grammar shared by plan ids, task ids, and plan filenames:
// one alphanumeric, then up to 127 of [A-Za-z0-9_-].
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// IsValidID reports whether id satisfies the shared identifier grammar.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// NewTaskID returns a fresh task identifier.
//
// IDs are "t-" plus a random UUID, so independent writers never need shared
// state to stay collision-free. Callers still re-check the generated id
// against the document's known ids and fail loudly on a collision.
func NewTaskID() string {
	return "t-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
