// Package assign reconciles a user's in-progress edits to a
// many-to-many assignment against a server-confirmed baseline, so that
// add, remove and undo compose correctly before a single atomic save.
package assign

import (
	"github.com/google/uuid"

	"github.com/hallgrim/parapet/pkg/model"
)

// entry is one working-set row. Pending entries carry a client-generated
// identity and are "to create" on save; confirmed entries carry the
// server's assignment ID.
type entry struct {
	assignment model.Assignment
	pending    bool
}

// Changeset is the minimal set of operations to flush an edit session.
type Changeset struct {
	ToCreate []string // member IDs of pending working entries
	ToDelete []string // assignment IDs of removed baseline members
}

// Empty reports whether the changeset carries no operations.
func (c Changeset) Empty() bool {
	return len(c.ToCreate) == 0 && len(c.ToDelete) == 0
}

// Reconciler maintains the working set for one edit session. It is the
// single source of truth for what is legal to offer as addable next.
type Reconciler struct {
	baseline []model.Assignment
	working  []entry
	toRemove map[string]bool // member IDs removed from the baseline
}

// Open starts an edit session seeded from the last server-confirmed
// baseline. The working set starts as a copy of the baseline.
func Open(baseline []model.Assignment) *Reconciler {
	r := &Reconciler{
		baseline: append([]model.Assignment(nil), baseline...),
		toRemove: make(map[string]bool),
	}
	for _, a := range baseline {
		r.working = append(r.working, entry{assignment: a})
	}
	return r
}

// StageAdd adds a member to the working set. Re-adding a member that was
// marked for removal restores the original baseline entry instead of
// creating a duplicate; adding a member already present is a no-op.
func (r *Reconciler) StageAdd(member model.Member) {
	for _, e := range r.working {
		if e.assignment.MemberID == member.ID {
			return
		}
	}

	if r.toRemove[member.ID] {
		// Undo-remove takes priority over re-creating
		delete(r.toRemove, member.ID)
		for _, a := range r.baseline {
			if a.MemberID == member.ID {
				r.working = append(r.working, entry{assignment: a})
				return
			}
		}
		return
	}

	r.working = append(r.working, entry{
		assignment: model.Assignment{
			ID:         uuid.NewString(),
			MemberID:   member.ID,
			MemberName: member.Name,
		},
		pending: true,
	})
}

// StageRemove removes the entry with the given member ID from the
// working set. A pending entry is simply discarded; a confirmed entry is
// additionally marked for deletion on save.
func (r *Reconciler) StageRemove(memberID string) {
	for i, e := range r.working {
		if e.assignment.MemberID != memberID {
			continue
		}
		r.working = append(r.working[:i], r.working[i+1:]...)
		if !e.pending {
			r.toRemove[memberID] = true
		}
		return
	}
}

// ConfirmAdd promotes the pending working entry for a member to a
// confirmed one under the server-issued assignment ID. The entry joins
// the baseline, so a later StageRemove deletes it by that ID and a later
// Diff no longer creates it.
func (r *Reconciler) ConfirmAdd(memberID, assignmentID string) {
	for i, e := range r.working {
		if e.assignment.MemberID != memberID || !e.pending {
			continue
		}
		r.working[i].pending = false
		r.working[i].assignment.ID = assignmentID
		r.baseline = append(r.baseline, r.working[i].assignment)
		return
	}
}

// ConfirmRemove drops a removed baseline entry once its delete has been
// applied, clearing the removal mark so a later Diff no longer deletes
// it.
func (r *Reconciler) ConfirmRemove(assignmentID string) {
	for i, a := range r.baseline {
		if a.ID != assignmentID {
			continue
		}
		delete(r.toRemove, a.MemberID)
		r.baseline = append(r.baseline[:i], r.baseline[i+1:]...)
		return
	}
}

// Diff returns the minimal create/delete operations for the session.
// Deletes are looked up by the member's original assignment ID and
// reported in baseline order.
func (r *Reconciler) Diff() Changeset {
	var cs Changeset
	for _, e := range r.working {
		if e.pending {
			cs.ToCreate = append(cs.ToCreate, e.assignment.MemberID)
		}
	}
	for _, a := range r.baseline {
		if r.toRemove[a.MemberID] {
			cs.ToDelete = append(cs.ToDelete, a.ID)
		}
	}
	return cs
}

// Working returns a copy of the current working set.
func (r *Reconciler) Working() []model.Assignment {
	out := make([]model.Assignment, 0, len(r.working))
	for _, e := range r.working {
		out = append(out, e.assignment)
	}
	return out
}

// IsPending reports whether a working entry with the given member ID
// carries a client-generated, never-confirmed identity.
func (r *Reconciler) IsPending(memberID string) bool {
	for _, e := range r.working {
		if e.assignment.MemberID == memberID {
			return e.pending
		}
	}
	return false
}

// AvailableCandidates returns allMembers minus every member currently in
// the working set.
func (r *Reconciler) AvailableCandidates(allMembers []model.Member) []model.Member {
	present := make(map[string]bool, len(r.working))
	for _, e := range r.working {
		present[e.assignment.MemberID] = true
	}

	var out []model.Member
	for _, m := range allMembers {
		if !present[m.ID] {
			out = append(out, m)
		}
	}
	return out
}
