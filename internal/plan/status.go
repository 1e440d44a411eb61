package plan

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a task.
type Status string

// Task statuses.
const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Status symbols as written inside the task-line brackets.
const (
	symbolTodo  = ' '
	symbolDoing = '*'
	symbolDone  = 'x'
)

var errUnknownStatus = errors.New("unknown status")

// IsValidStatus reports whether s is one of the three task statuses.
func IsValidStatus(s Status) bool {
	return s == StatusTodo || s == StatusDoing || s == StatusDone
}

// Symbol returns the one-character bracket symbol for a status.
func (s Status) Symbol() (byte, error) {
	switch s {
	case StatusTodo:
		return symbolTodo, nil
	case StatusDoing:
		return symbolDoing, nil
	case StatusDone:
		return symbolDone, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownStatus, string(s))
	}
}

// StatusForSymbol returns the status encoded by a bracket symbol.
// The boolean is false for symbols outside the dialect.
func StatusForSymbol(sym byte) (Status, bool) {
	switch sym {
	case symbolTodo:
		return StatusTodo, true
	case symbolDoing:
		return StatusDoing, true
	case symbolDone:
		return StatusDone, true
	default:
		return "", false
	}
}
