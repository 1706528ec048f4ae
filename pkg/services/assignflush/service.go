// Package assignflush converts a staged assignment changeset into the
// create and delete API calls that apply it, reporting per-item results
// so a partial failure never silently marks the whole edit as applied.
package assignflush

import (
	"context"

	"github.com/hallgrim/parapet/pkg/apctx"
	"github.com/hallgrim/parapet/pkg/assign"
	"github.com/hallgrim/parapet/pkg/logging"
)

type serviceImpl struct {
	api    AssignmentAPI
	logger logging.Logger
}

// NewService creates a flush service backed by the given assignment API
func NewService(api AssignmentAPI) Service {
	return &serviceImpl{
		api:    api,
		logger: logging.GetDefaultLogger().WithComponent("assignflush"),
	}
}

// Flush applies every operation in the changeset, attempting each item
// even after an earlier one fails. The caller keeps its reconciler
// session open unless the result is clean, so failed items can be
// retried or reported per member.
func (s *serviceImpl) Flush(ctx context.Context, parentID string, cs assign.Changeset) *FlushResult {
	ctx, cancel := apctx.WithFlushTimeout(ctx)
	defer cancel()

	result := &FlushResult{}

	for _, memberID := range cs.ToCreate {
		assignmentID, err := s.api.CreateAssignment(ctx, parentID, memberID)
		if err != nil {
			s.logger.Warn("assignment create failed: parent=%s member=%s err=%v", parentID, memberID, err)
		}
		result.Items = append(result.Items, ItemResult{Op: OpCreate, ID: memberID, AssignmentID: assignmentID, Error: err})
	}

	for _, assignmentID := range cs.ToDelete {
		err := s.api.DeleteAssignment(ctx, parentID, assignmentID)
		if err != nil {
			s.logger.Warn("assignment delete failed: parent=%s assignment=%s err=%v", parentID, assignmentID, err)
		}
		result.Items = append(result.Items, ItemResult{Op: OpDelete, ID: assignmentID, Error: err})
	}

	return result
}
