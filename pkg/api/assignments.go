package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	apperrors "github.com/hallgrim/parapet/pkg/errors"
)

func errMissingAssignmentID(parentID, memberID string) error {
	return apperrors.New(apperrors.ErrorAPI, "MISSING_ASSIGNMENT_ID",
		"Server did not return an assignment ID").
		WithContext("parentId", parentID).
		WithContext("memberId", memberID)
}

// CreateAssignment attaches a member to a parent resource and returns the
// server-issued assignment ID.
func (c *Client) CreateAssignment(ctx context.Context, parentID, memberID string) (string, error) {
	path := fmt.Sprintf("/api/v1/%s/assignments", url.PathEscape(parentID))

	body, err := c.Post(ctx, path, map[string]string{"member_id": memberID})
	if err != nil {
		return "", err
	}

	assignmentID := gjson.GetBytes(body, "assignment_id").String()
	if assignmentID == "" {
		return "", errMissingAssignmentID(parentID, memberID)
	}
	return assignmentID, nil
}

// DeleteAssignment detaches a member from a parent resource by assignment ID
func (c *Client) DeleteAssignment(ctx context.Context, parentID, assignmentID string) error {
	path := fmt.Sprintf("/api/v1/%s/assignments/%s",
		url.PathEscape(parentID), url.PathEscape(assignmentID))

	_, err := c.Delete(ctx, path)
	return err
}
