package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hallgrim/parapet/pkg/model"
)

// Page describes a pagination window for list requests
type Page struct {
	Number int
	Size   int
}

func (p Page) query() string {
	v := url.Values{}
	v.Set("page", fmt.Sprintf("%d", p.Number))
	v.Set("page_size", fmt.Sprintf("%d", p.Size))
	return v.Encode()
}

// ListResponse is the envelope every list endpoint returns
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func list[T any](ctx context.Context, c *Client, resource string, page Page) (*ListResponse[T], error) {
	path := fmt.Sprintf("/api/v1/%s?%s", resource, page.query())

	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp ListResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListHosts returns a page of managed hosts
func (c *Client) ListHosts(ctx context.Context, page Page) (*ListResponse[model.Host], error) {
	return list[model.Host](ctx, c, "hosts", page)
}

// ListTags returns a page of tags
func (c *Client) ListTags(ctx context.Context, page Page) (*ListResponse[model.Tag], error) {
	return list[model.Tag](ctx, c, "tags", page)
}

// ListSecrets returns a page of secret metadata
func (c *Client) ListSecrets(ctx context.Context, page Page) (*ListResponse[model.Secret], error) {
	return list[model.Secret](ctx, c, "secrets", page)
}

// ListFirewallRoles returns a page of firewall roles
func (c *Client) ListFirewallRoles(ctx context.Context, page Page) (*ListResponse[model.FirewallRole], error) {
	return list[model.FirewallRole](ctx, c, "firewall-roles", page)
}

// ListDistributions returns a page of distributions
func (c *Client) ListDistributions(ctx context.Context, page Page) (*ListResponse[model.Distribution], error) {
	return list[model.Distribution](ctx, c, "distributions", page)
}

// GetComplianceSummary returns the compliance dashboard aggregate
func (c *Client) GetComplianceSummary(ctx context.Context) (*model.ComplianceSummary, error) {
	body, err := c.Get(ctx, "/api/v1/compliance/summary")
	if err != nil {
		return nil, err
	}

	var summary model.ComplianceSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListHostAssignments returns the firewall roles currently attached to a host
func (c *Client) ListHostAssignments(ctx context.Context, hostID string) ([]model.Assignment, error) {
	path := fmt.Sprintf("/api/v1/%s/assignments", url.PathEscape(hostID))

	body, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Items []model.Assignment `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
