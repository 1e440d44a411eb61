package plan

import (
	"fmt"
	"strings"
)

// Repair action names. Actions are independently toggleable and applied in
// the order given; repair performs no other normalization, so its diffs stay
// small.
const (
	ActionAddFormatHeader = "addFormatHeader"
	ActionAddMissingIDs   = "addMissingIds"
)

// RepairChange records one line touched by a repair action.
type RepairChange struct {
	Action string
	// Line is the 0-based line in the repaired text.
	Line int
}

// RepairResult is the outcome of a successful repair.
type RepairResult struct {
	NewText string
	Applied []RepairChange
}

// Repair applies exactly the named actions to text. It never infers intent
// beyond them. The result is re-validated; if errors remain, repair fails
// instead of returning a partially-fixed document.
func Repair(text string, actions []string) (RepairResult, error) {
	lines, trailing := splitLines(text)
	eol := detectEOL(text)

	var applied []RepairChange

	for _, action := range actions {
		switch action {
		case ActionAddFormatHeader:
			if !hasFormatHeader(lines) {
				lines = insertFormatHeader(lines)
				applied = append(applied, RepairChange{Action: action, Line: 0})
			}

		case ActionAddMissingIDs:
			var changes []RepairChange

			lines, changes = addMissingIDs(lines)
			applied = append(applied, changes...)

		default:
			return RepairResult{}, fmt.Errorf("%w: %q", ErrUnknownRepairAction, action)
		}
	}

	newText := joinLines(lines, eol, trailing)

	diags := Validate(newText)
	if errs, _ := splitBySeverity(diags); len(errs) > 0 {
		return RepairResult{}, fmt.Errorf("%w: %s", ErrRepairIncomplete, summarizeErrors(diags))
	}

	return RepairResult{NewText: newText, Applied: applied}, nil
}

// addMissingIDs appends a fresh id comment to every candidate task line that
// lacks one. Lines inside fenced code blocks are skipped; fences are tracked
// with a simple in/out toggle.
func addMissingIDs(lines []string) ([]string, []RepairChange) {
	var changes []RepairChange

	inFence := false

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence

			continue
		}

		if inFence {
			continue
		}

		if !looseTaskPattern.MatchString(line) {
			continue
		}

		if _, hasID := extractLooseID(line); hasID {
			continue
		}

		lines[i] = strings.TrimRight(line, " ") +
			" " + commentOpen + " " + idKey + "=" + NewTaskID() + " " + commentClose
		changes = append(changes, RepairChange{Action: ActionAddMissingIDs, Line: i})
	}

	return lines, changes
}
