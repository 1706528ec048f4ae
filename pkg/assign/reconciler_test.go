package assign

import (
	"testing"

	"github.com/hallgrim/parapet/pkg/model"
)

func baseline() []model.Assignment {
	return []model.Assignment{
		{ID: "a1", MemberID: "role-1", MemberName: "Web"},
		{ID: "a2", MemberID: "role-2", MemberName: "DB"},
	}
}

func TestOpenCopiesBaseline(t *testing.T) {
	r := Open(baseline())

	working := r.Working()
	if len(working) != 2 {
		t.Fatalf("expected working set of 2, got %d", len(working))
	}
	if working[0].ID != "a1" || working[1].ID != "a2" {
		t.Errorf("working set should mirror baseline, got %v", working)
	}

	diff := r.Diff()
	if !diff.Empty() {
		t.Errorf("fresh session must diff to empty, got %+v", diff)
	}
}

func TestStageAddDuplicateIsNoop(t *testing.T) {
	r := Open(baseline())

	r.StageAdd(model.Member{ID: "role-1", Name: "Web"})

	if len(r.Working()) != 2 {
		t.Errorf("duplicate add must not grow working set, got %v", r.Working())
	}
	if !r.Diff().Empty() {
		t.Errorf("duplicate add must not stage operations, got %+v", r.Diff())
	}
}

func TestStageAddNewMemberIsPending(t *testing.T) {
	r := Open(baseline())

	r.StageAdd(model.Member{ID: "role-3", Name: "Cache"})

	working := r.Working()
	if len(working) != 3 {
		t.Fatalf("expected working set of 3, got %d", len(working))
	}
	if !r.IsPending("role-3") {
		t.Error("newly added member should carry a pending identity")
	}
	if working[2].ID == "" {
		t.Error("pending entry should carry a client-generated ID")
	}

	diff := r.Diff()
	if len(diff.ToCreate) != 1 || diff.ToCreate[0] != "role-3" {
		t.Errorf("expected toCreate [role-3], got %v", diff.ToCreate)
	}
	if len(diff.ToDelete) != 0 {
		t.Errorf("expected no deletes, got %v", diff.ToDelete)
	}
}

func TestAddThenRemoveIsNetNoop(t *testing.T) {
	r := Open(baseline())

	r.StageAdd(model.Member{ID: "role-3", Name: "Cache"})
	r.StageRemove("role-3")

	working := r.Working()
	if len(working) != 2 {
		t.Errorf("expected working set back to baseline, got %v", working)
	}
	diff := r.Diff()
	if !diff.Empty() {
		t.Errorf("add then remove must be a net no-op, got %+v", diff)
	}
}

func TestRemoveBaselineMemberThenReAddRestoresEntry(t *testing.T) {
	r := Open(baseline())

	r.StageRemove("role-1")

	diff := r.Diff()
	if len(diff.ToDelete) != 1 || diff.ToDelete[0] != "a1" {
		t.Fatalf("expected toDelete [a1], got %v", diff.ToDelete)
	}

	r.StageAdd(model.Member{ID: "role-1", Name: "Web"})

	working := r.Working()
	if len(working) != 2 {
		t.Fatalf("expected working set of 2, got %d", len(working))
	}
	// The exact baseline entry comes back, confirmed identity included
	var restored *model.Assignment
	for i := range working {
		if working[i].MemberID == "role-1" {
			restored = &working[i]
		}
	}
	if restored == nil {
		t.Fatal("role-1 missing from working set after re-add")
	}
	if restored.ID != "a1" {
		t.Errorf("expected restored assignment ID a1, got %s", restored.ID)
	}
	if r.IsPending("role-1") {
		t.Error("restored baseline entry must not be pending")
	}
	if !r.Diff().Empty() {
		t.Errorf("remove then re-add must diff to empty, got %+v", r.Diff())
	}
}

func TestNoDuplicateMemberIDs(t *testing.T) {
	r := Open(baseline())

	r.StageRemove("role-1")
	r.StageAdd(model.Member{ID: "role-1", Name: "Web"})
	r.StageAdd(model.Member{ID: "role-1", Name: "Web"})

	count := 0
	for _, a := range r.Working() {
		if a.MemberID == "role-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one role-1 entry, got %d", count)
	}
}

func TestRemoveThenAddDifferentMember(t *testing.T) {
	r := Open([]model.Assignment{{ID: "a1", MemberID: "role-1", MemberName: "Web"}})

	r.StageRemove("role-1")
	r.StageAdd(model.Member{ID: "role-2", Name: "DB"})

	diff := r.Diff()
	if len(diff.ToCreate) != 1 || diff.ToCreate[0] != "role-2" {
		t.Errorf("expected toCreate [role-2], got %v", diff.ToCreate)
	}
	if len(diff.ToDelete) != 1 || diff.ToDelete[0] != "a1" {
		t.Errorf("expected toDelete [a1], got %v", diff.ToDelete)
	}
}

func TestRemoveUnknownMemberIsNoop(t *testing.T) {
	r := Open(baseline())

	r.StageRemove("role-99")

	if len(r.Working()) != 2 {
		t.Errorf("unknown remove must not change working set, got %v", r.Working())
	}
	if !r.Diff().Empty() {
		t.Errorf("unknown remove must not stage operations, got %+v", r.Diff())
	}
}

func TestAvailableCandidates(t *testing.T) {
	r := Open(baseline())
	all := []model.Member{
		{ID: "role-1", Name: "Web"},
		{ID: "role-2", Name: "DB"},
		{ID: "role-3", Name: "Cache"},
	}

	candidates := r.AvailableCandidates(all)
	if len(candidates) != 1 || candidates[0].ID != "role-3" {
		t.Errorf("expected only role-3 addable, got %v", candidates)
	}

	// Removing a baseline member makes it addable again
	r.StageRemove("role-1")
	candidates = r.AvailableCandidates(all)
	if len(candidates) != 2 {
		t.Errorf("expected role-1 and role-3 addable, got %v", candidates)
	}

	// Adding a candidate makes it unavailable
	r.StageAdd(model.Member{ID: "role-3", Name: "Cache"})
	candidates = r.AvailableCandidates(all)
	if len(candidates) != 1 || candidates[0].ID != "role-1" {
		t.Errorf("expected only role-1 addable, got %v", candidates)
	}
}

func TestDeletesReportedInBaselineOrder(t *testing.T) {
	r := Open(baseline())

	r.StageRemove("role-2")
	r.StageRemove("role-1")

	diff := r.Diff()
	if len(diff.ToDelete) != 2 || diff.ToDelete[0] != "a1" || diff.ToDelete[1] != "a2" {
		t.Errorf("expected deletes in baseline order [a1 a2], got %v", diff.ToDelete)
	}
}

func TestConfirmAddPromotesPendingEntry(t *testing.T) {
	r := Open(baseline())
	r.StageAdd(model.Member{ID: "role-3", Name: "Cache"})

	r.ConfirmAdd("role-3", "a3")

	if r.IsPending("role-3") {
		t.Error("confirmed member must no longer be pending")
	}
	if !r.Diff().Empty() {
		t.Errorf("confirmed create must leave the diff, got %+v", r.Diff())
	}

	// A later removal deletes by the server-issued ID
	r.StageRemove("role-3")
	diff := r.Diff()
	if len(diff.ToDelete) != 1 || diff.ToDelete[0] != "a3" {
		t.Errorf("expected toDelete [a3], got %v", diff.ToDelete)
	}
}

func TestConfirmAddUnknownOrConfirmedIsNoop(t *testing.T) {
	r := Open(baseline())

	r.ConfirmAdd("role-1", "a9")
	r.ConfirmAdd("role-99", "a9")

	working := r.Working()
	if working[0].ID != "a1" {
		t.Errorf("confirmed baseline entry must keep its ID, got %v", working[0])
	}
	if !r.Diff().Empty() {
		t.Errorf("expected empty diff, got %+v", r.Diff())
	}
}

func TestConfirmRemoveDropsBaselineEntry(t *testing.T) {
	r := Open(baseline())
	r.StageRemove("role-1")

	r.ConfirmRemove("a1")

	if !r.Diff().Empty() {
		t.Errorf("confirmed delete must leave the diff, got %+v", r.Diff())
	}

	// The member is gone from the baseline, so re-adding creates anew
	r.StageAdd(model.Member{ID: "role-1", Name: "Web"})
	if !r.IsPending("role-1") {
		t.Error("re-add after confirmed removal must be pending")
	}
	diff := r.Diff()
	if len(diff.ToCreate) != 1 || diff.ToCreate[0] != "role-1" {
		t.Errorf("expected toCreate [role-1], got %v", diff.ToCreate)
	}
}

func TestPartialConfirmLeavesOnlyFailedOperations(t *testing.T) {
	r := Open(baseline())
	r.StageRemove("role-1")
	r.StageAdd(model.Member{ID: "role-3", Name: "Cache"})

	// The create applied, the delete did not
	r.ConfirmAdd("role-3", "a3")

	diff := r.Diff()
	if len(diff.ToCreate) != 0 {
		t.Errorf("expected no creates left, got %v", diff.ToCreate)
	}
	if len(diff.ToDelete) != 1 || diff.ToDelete[0] != "a1" {
		t.Errorf("expected toDelete [a1], got %v", diff.ToDelete)
	}
}
