package api

import (
	"context"
	"fmt"
	"net/url"

	cblog "github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// GetColumnPreference fetches the hidden-column set persisted for a grid.
// A missing preference is not an error: it returns (nil, false, nil).
func (c *Client) GetColumnPreference(ctx context.Context, gridID string) ([]string, bool, error) {
	path := fmt.Sprintf("/api/v1/preferences/grids/%s/columns", url.PathEscape(gridID))

	body, err := c.Get(ctx, path)
	if err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	// Tolerate extra fields and shape drift in the stored payload
	result := gjson.GetBytes(body, "hidden_columns")
	if !result.Exists() {
		cblog.With("component", "api").Debug("preference payload missing hidden_columns",
			"gridId", gridID)
		return nil, true, nil
	}

	var hidden []string
	for _, v := range result.Array() {
		hidden = append(hidden, v.String())
	}
	return hidden, true, nil
}

// PutColumnPreference persists the hidden-column set for a grid
func (c *Client) PutColumnPreference(ctx context.Context, gridID string, hidden []string) error {
	path := fmt.Sprintf("/api/v1/preferences/grids/%s/columns", url.PathEscape(gridID))

	if hidden == nil {
		hidden = []string{}
	}
	payload, err := sjson.SetBytes([]byte(`{}`), "hidden_columns", hidden)
	if err != nil {
		return err
	}

	_, err = c.PutRaw(ctx, path, payload)
	return err
}

// DeleteColumnPreference removes the persisted preference for a grid.
// A preference that is already gone counts as deleted.
func (c *Client) DeleteColumnPreference(ctx context.Context, gridID string) error {
	path := fmt.Sprintf("/api/v1/preferences/grids/%s/columns", url.PathEscape(gridID))

	_, err := c.Delete(ctx, path)
	if err != nil && IsNotFound(err) {
		return nil
	}
	return err
}
