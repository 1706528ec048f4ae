package assignflush

import (
	"context"

	"github.com/hallgrim/parapet/pkg/assign"
)

// Operation identifies the kind of API call behind one flush item
type Operation string

const (
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
)

// ItemResult reports the outcome of one create or delete within a flush.
// ID is the member ID for creates and the assignment ID for deletes.
// AssignmentID carries the server-issued ID of a succeeded create, so
// the caller can fold it back into its edit session.
type ItemResult struct {
	Op           Operation
	ID           string
	AssignmentID string
	Error        error
}

// FlushResult aggregates the per-item outcomes of one flush attempt
type FlushResult struct {
	Items []ItemResult
}

// Clean reports whether every item in the flush succeeded
func (r *FlushResult) Clean() bool {
	for _, item := range r.Items {
		if item.Error != nil {
			return false
		}
	}
	return true
}

// Failed returns the items that did not apply
func (r *FlushResult) Failed() []ItemResult {
	var failed []ItemResult
	for _, item := range r.Items {
		if item.Error != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// AssignmentAPI interface for dependency injection
type AssignmentAPI interface {
	CreateAssignment(ctx context.Context, parentID, memberID string) (string, error)
	DeleteAssignment(ctx context.Context, parentID, assignmentID string) error
}

// Service flushes a reconciler changeset against the management server
type Service interface {
	Flush(ctx context.Context, parentID string, cs assign.Changeset) *FlushResult
}
