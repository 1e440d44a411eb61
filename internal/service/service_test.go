package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/planmd/internal/plan"
	"github.com/calvinalkan/planmd/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	st, err := store.New(t.TempDir(), "plans")
	require.NoError(t, err)

	return New(st, nil), st
}

// writePlan puts raw text in place, bypassing the service.
func writePlan(t *testing.T, st *store.Store, planID, text string) string {
	t.Helper()

	path, err := st.PlanPath(planID)
	require.NoError(t, err)
	require.NoError(t, st.Write(path, text))

	return store.Etag(text)
}

func planText(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

const header = "<!-- plan-md v1 -->"

func TestCreatePlanAndGet(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	etag, err := svc.CreatePlan("sprint", "Sprint 12", "goal: ship")
	require.NoError(t, err)
	require.NotEmpty(t, etag)

	view, err := svc.GetPlan("sprint", GetPlanOptions{IncludeBodies: true})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 12", view.Title)
	assert.Equal(t, etag, view.Etag)
	require.True(t, view.HasBody)
	assert.Equal(t, "goal: ship", view.Body)
	assert.Empty(t, view.Tasks)

	_, err = svc.CreatePlan("sprint", "Again", "")
	require.ErrorIs(t, err, store.ErrPlanExists)
}

func TestListPlans(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "alpha", planText(header, "# Alpha Work",
		"- [ ] a <!-- id=a -->", "- [x] b <!-- id=b -->"))
	writePlan(t, st, "beta", planText(header, "# Beta"))
	writePlan(t, st, "broken", "no header here\n")

	all, err := svc.ListPlans("")
	require.NoError(t, err)
	require.Len(t, all, 3)

	byID := make(map[string]PlanSummary, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}

	assert.Equal(t, "Alpha Work", byID["alpha"].Title)
	assert.Equal(t, 1, byID["alpha"].TaskCounts[plan.StatusTodo])
	assert.Equal(t, 1, byID["alpha"].TaskCounts[plan.StatusDone])
	assert.True(t, byID["broken"].Invalid)
	assert.Empty(t, byID["broken"].Title)

	// Filter matches id or title, case-insensitively.
	got, err := svc.ListPlans("ALPHA")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].ID)

	got, err = svc.ListPlans("beta")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGetPlanViews(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T",
		"- [ ] Root <!-- id=r -->",
		"  > root notes",
		"  - [*] Child <!-- id=c -->"))

	tree, err := svc.GetPlan("p", GetPlanOptions{View: ViewTree})
	require.NoError(t, err)
	require.Len(t, tree.Tasks, 1)
	require.Len(t, tree.Tasks[0].Children, 1)
	assert.Equal(t, "c", tree.Tasks[0].Children[0].ID)
	assert.Empty(t, tree.Tasks[0].Body, "bodies only on request")
	assert.True(t, tree.Tasks[0].HasBody)

	flat, err := svc.GetPlan("p", GetPlanOptions{View: ViewFlat, IncludeBodies: true})
	require.NoError(t, err)
	require.Len(t, flat.Tasks, 2)
	assert.Empty(t, flat.Tasks[0].Children)
	assert.Equal(t, "r", flat.Tasks[1].ParentID)
	assert.Equal(t, "root notes", flat.Tasks[0].Body)

	_, err = svc.GetPlan("p", GetPlanOptions{View: "graph"})
	require.Error(t, err)
}

func TestGetTaskDefaultTarget(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T",
		"- [ ] A <!-- id=t_a -->",
		"- [*] B <!-- id=t_b -->",
		"- [ ] C <!-- id=t_c -->"))

	// The unique doing task wins.
	view, _, err := svc.GetTask("p", "")
	require.NoError(t, err)
	assert.Equal(t, "t_b", view.ID)

	// Once it is gone, the first unfinished task in document order wins.
	_, err = svc.DeleteTask("p", "t_b", "")
	require.NoError(t, err)

	view, _, err = svc.GetTask("p", "")
	require.NoError(t, err)
	assert.Equal(t, "t_a", view.ID)
}

func TestGetTaskDefaultTargetExhausted(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T", "- [x] A <!-- id=a -->"))

	_, _, err := svc.GetTask("p", "")
	require.ErrorIs(t, err, ErrNoUnfinishedTask)
}

func TestGetTaskExplicit(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T",
		"- [ ] A <!-- id=a -->",
		"  > details here"))

	view, etag, err := svc.GetTask("p", "a")
	require.NoError(t, err)
	assert.Equal(t, "details here", view.Body)
	assert.NotEmpty(t, etag)

	_, _, err = svc.GetTask("p", "missing")
	require.ErrorIs(t, err, plan.ErrTaskNotFound)
}

func TestAddTaskThroughService(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	etag := writePlan(t, st, "p", planText(header, "# T", "- [ ] A <!-- id=a -->"))

	taskID, newEtag, err := svc.AddTask("p", AddTaskOptions{
		Title:   "B",
		Parent:  "a",
		IfMatch: etag,
	})
	require.NoError(t, err)
	require.NotEmpty(t, taskID)
	assert.NotEqual(t, etag, newEtag)

	view, _, err := svc.GetTask("p", taskID)
	require.NoError(t, err)
	assert.Equal(t, "a", view.ParentID)
}

func TestEtagConflictAbortsWrites(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	stale := writePlan(t, st, "p", planText(header, "# T", "- [ ] A <!-- id=a -->"))

	// External mutation between read and write.
	writePlan(t, st, "p", planText(header, "# T", "- [x] A <!-- id=a -->"))

	_, _, err := svc.AddTask("p", AddTaskOptions{Title: "B", IfMatch: stale})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateTask("p", "a", UpdateTaskOptions{Status: plan.StatusDoing, IfMatch: stale})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.DeleteTask("p", "a", stale)
	require.ErrorIs(t, err, ErrConflict)

	// The document is untouched after every refused write.
	_, text, _, err := st.Read("p")
	require.NoError(t, err)
	assert.Contains(t, text, "- [x] A <!-- id=a -->")
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T", "- [ ] A <!-- id=a -->"))

	_, err := svc.UpdateTask("p", "a", UpdateTaskOptions{})
	require.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = svc.UpdateTask("p", "a", UpdateTaskOptions{
		Status: plan.StatusDoing,
		Title:  "A renamed",
	})
	require.NoError(t, err)

	view, _, err := svc.GetTask("p", "a")
	require.NoError(t, err)
	assert.Equal(t, plan.StatusDoing, view.Status)
	assert.Equal(t, "A renamed", view.Title)

	_, err = svc.UpdateTask("p", "a", UpdateTaskOptions{SetBody: true, Body: "note"})
	require.NoError(t, err)

	view, _, err = svc.GetTask("p", "a")
	require.NoError(t, err)
	assert.Equal(t, "note", view.Body)

	_, err = svc.UpdateTask("p", "a", UpdateTaskOptions{ClearBody: true})
	require.NoError(t, err)

	view, _, err = svc.GetTask("p", "a")
	require.NoError(t, err)
	assert.False(t, view.HasBody)
}

func TestUpdateTaskDefaultTargetRules(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	etag := writePlan(t, st, "p", planText(header, "# T",
		"- [ ] A <!-- id=a -->",
		"- [*] B <!-- id=b -->"))

	// Default-targeted writes must carry an expected etag.
	_, err := svc.UpdateTask("p", "", UpdateTaskOptions{Status: plan.StatusDone})
	require.ErrorIs(t, err, ErrEtagRequired)

	_, err = svc.UpdateTask("p", "", UpdateTaskOptions{Status: plan.StatusDone, IfMatch: etag})
	require.NoError(t, err)

	view, _, err := svc.GetTask("p", "b")
	require.NoError(t, err)
	assert.Equal(t, plan.StatusDone, view.Status)
}

func TestUpdateTaskAmbiguousDoing(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	etag := writePlan(t, st, "p", planText(header, "# T",
		"- [*] A <!-- id=a -->",
		"- [*] B <!-- id=b -->"))

	_, err := svc.UpdateTask("p", "", UpdateTaskOptions{Status: plan.StatusDone, IfMatch: etag})
	require.ErrorIs(t, err, ErrAmbiguousTarget)

	// A read in the same state falls back to document order.
	view, _, err := svc.GetTask("p", "")
	require.NoError(t, err)
	assert.Equal(t, "a", view.ID)
}

func TestSearchTasks(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "p", planText(header, "# T",
		"- [ ] Fix login bug <!-- id=a -->",
		"- [*] Login page styles <!-- id=b -->",
		"- [x] Unrelated chore <!-- id=c -->"))

	got, err := svc.SearchTasks("p", "LOGIN", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	got, err = svc.SearchTasks("p", "login", plan.StatusDoing, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = svc.SearchTasks("p", "", "", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.SearchTasks("p", "no such task", "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidatePlan(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	writePlan(t, st, "good", planText(header, "# T", "- [ ] A <!-- id=a -->"))
	writePlan(t, st, "bad", planText(header, "# T", "- [ ] no id"))

	diags, etag, err := svc.ValidatePlan("good")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.NotEmpty(t, etag)

	diags, _, err = svc.ValidatePlan("bad")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, plan.CodeMissingTaskID, diags[0].Code)
}

func TestRepairPlan(t *testing.T) {
	t.Parallel()

	svc, st := newTestService(t)

	original := planText("# T", "- [ ] no id yet")
	etag := writePlan(t, st, "p", original)

	actions := []string{plan.ActionAddFormatHeader, plan.ActionAddMissingIDs}

	// Dry run computes the outcome without writing.
	outcome, err := svc.RepairPlan("p", actions, true, etag)
	require.NoError(t, err)
	assert.True(t, outcome.DryRun)
	assert.Len(t, outcome.Applied, 2)
	assert.NotEmpty(t, outcome.NewText)

	_, text, _, err := st.Read("p")
	require.NoError(t, err)
	assert.Equal(t, original, text, "dry run must not write")

	// The real run writes and its etag matches the stored state.
	outcome, err = svc.RepairPlan("p", actions, false, etag)
	require.NoError(t, err)
	require.Len(t, outcome.Applied, 2)

	_, _, gotEtag, err := st.Read("p")
	require.NoError(t, err)
	assert.Equal(t, outcome.Etag, gotEtag)

	// A second run is a no-op and writes nothing.
	outcome, err = svc.RepairPlan("p", actions, false, gotEtag)
	require.NoError(t, err)
	assert.Empty(t, outcome.Applied)
	assert.Equal(t, gotEtag, outcome.Etag)
}
