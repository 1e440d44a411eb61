package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(diags []Diagnostic) []string {
	codes := make([]string, 0, len(diags))
	for _, d := range diags {
		codes = append(codes, d.Code)
	}

	return codes
}

func TestValidateCleanDocument(t *testing.T) {
	t.Parallel()

	diags := Validate(doc(
		FormatHeader,
		"",
		"# T",
		"",
		"- [ ] A <!-- id=t1 -->",
		"  - [x] B <!-- id=t2 -->",
	))

	assert.Empty(t, diags)
}

func TestValidateCandidateClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		codes []string
	}{
		{
			name:  "missing id",
			line:  "- [ ] A",
			codes: []string{CodeMissingTaskID},
		},
		{
			name:  "invalid status with valid id",
			line:  "- [y] A <!-- id=t9 -->",
			codes: []string{CodeInvalidStatus},
		},
		{
			name:  "invalid status and missing id",
			line:  "- [?] A",
			codes: []string{CodeInvalidStatus, CodeMissingTaskID},
		},
		{
			name:  "capital X is not done",
			line:  "- [X] A <!-- id=t9 -->",
			codes: []string{CodeInvalidStatus},
		},
		{
			name:  "empty brackets",
			line:  "- [] A <!-- id=t9 -->",
			codes: []string{CodeInvalidStatus},
		},
		{
			name:  "invalid id grammar",
			line:  "- [ ] A <!-- id=_bad -->",
			codes: []string{CodeInvalidTaskID},
		},
		{
			name:  "invalid id wins over malformed",
			line:  "- [ ]A <!-- id=-x -->",
			codes: []string{CodeInvalidTaskID},
		},
		{
			name:  "odd indent is malformed",
			line:  " - [ ] A <!-- id=t9 -->",
			codes: []string{CodeMalformedTaskLine},
		},
		{
			name:  "comment delimiter in title is malformed",
			line:  "- [ ] A --> B <!-- id=t9 -->",
			codes: []string{CodeMalformedTaskLine},
		},
		{
			name:  "out of charset trailer reads as missing id",
			line:  `- [ ] A <!-- id=t$9 -->`,
			codes: []string{CodeMissingTaskID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := Validate(doc(FormatHeader, "# T", tt.line, "- [ ] ok <!-- id=ok -->"))

			require.Len(t, diags, len(tt.codes), "diags: %v", diags)
			assert.Equal(t, tt.codes, codesOf(diags))

			for _, d := range diags {
				assert.Equal(t, SeverityError, d.Severity)
				assert.Equal(t, 2, d.Line)
			}
		})
	}
}

func TestValidateMissingHeaderStillExplainsLines(t *testing.T) {
	t.Parallel()

	// The parser stops at the missing header; the candidate scan does not.
	diags := Validate(doc(
		"# T",
		"- [ ] A",
	))

	codes := codesOf(diags)
	assert.Contains(t, codes, CodeMissingFormatHeader)
	assert.Contains(t, codes, CodeMissingTaskID)
}

func TestValidateDuplicateIDDedupedAcrossScans(t *testing.T) {
	t.Parallel()

	// Both the parser and the candidate scan see this duplicate; the merged
	// report must contain it once.
	diags := Validate(doc(
		FormatHeader,
		"# T",
		"- [ ] A <!-- id=t1 -->",
		"- [ ] B <!-- id=t1 -->",
	))

	require.Len(t, diags, 1)
	assert.Equal(t, CodeDuplicateTaskID, diags[0].Code)
	assert.Equal(t, 3, diags[0].Line)
}

func TestValidateDuplicateIDOnNonStrictLines(t *testing.T) {
	t.Parallel()

	// Near-miss lines carrying a duplicate id are still reported; the
	// strict parser never saw them.
	diags := Validate(doc(
		FormatHeader,
		"# T",
		"- [ ] A <!-- id=t1 -->",
		"- [y] B <!-- id=t1 -->",
	))

	codes := codesOf(diags)
	assert.Contains(t, codes, CodeDuplicateTaskID)
	assert.Contains(t, codes, CodeInvalidStatus)
}

func TestValidateOrderedByLine(t *testing.T) {
	t.Parallel()

	diags := Validate(doc(
		FormatHeader, // 0
		"# T",        // 1
		"- [y] A <!-- id=a -->", // 2
		"- [ ] B",               // 3
		"- [ ] C <!-- id=c -->", // 4
	))

	require.Len(t, diags, 2)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 3, diags[1].Line)
}

func TestValidateSkipsFencedCandidates(t *testing.T) {
	t.Parallel()

	diags := Validate(doc(
		FormatHeader,
		"# T",
		"- [ ] real <!-- id=a -->",
		"```",
		"- [ ] just an example",
		"- [?] not a status",
		"```",
	))

	assert.Empty(t, diags)
}

func TestValidateNoTasksWarning(t *testing.T) {
	t.Parallel()

	diags := Validate(doc(FormatHeader, "# T"))

	require.Len(t, diags, 1)
	assert.Equal(t, CodeNoTasks, diags[0].Code)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
}

func TestValidateNoTasksSuppressedByErrors(t *testing.T) {
	t.Parallel()

	// No strict task exists, but the candidate line explains why; the
	// zero-tasks warning would only be noise next to the error.
	diags := Validate(doc(FormatHeader, "# T", "- [ ] no id"))

	require.Len(t, diags, 1)
	assert.Equal(t, CodeMissingTaskID, diags[0].Code)
	assert.Equal(t, SeverityError, diags[0].Severity)
}
