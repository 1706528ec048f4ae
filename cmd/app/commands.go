package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/hallgrim/parapet/pkg/api"
	"github.com/hallgrim/parapet/pkg/model"
)

func (m *Model) pageFor(v model.View) api.Page {
	ts := m.state.Table(v)
	return api.Page{Number: ts.Page + 1, Size: ts.PageSize}
}

// loadViewCmd returns the load command for the given view
func (m *Model) loadViewCmd(v model.View) tea.Cmd {
	switch v {
	case model.ViewHosts:
		page := m.pageFor(v)
		return func() tea.Msg {
			resp, err := m.client.ListHosts(context.Background(), page)
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return hostsLoadedMsg{items: resp.Items, total: resp.Total}
		}
	case model.ViewTags:
		page := m.pageFor(v)
		return func() tea.Msg {
			resp, err := m.client.ListTags(context.Background(), page)
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return tagsLoadedMsg{items: resp.Items, total: resp.Total}
		}
	case model.ViewSecrets:
		page := m.pageFor(v)
		return func() tea.Msg {
			resp, err := m.client.ListSecrets(context.Background(), page)
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return secretsLoadedMsg{items: resp.Items, total: resp.Total}
		}
	case model.ViewFirewallRoles:
		page := m.pageFor(v)
		return func() tea.Msg {
			resp, err := m.client.ListFirewallRoles(context.Background(), page)
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return firewallRolesLoadedMsg{items: resp.Items, total: resp.Total}
		}
	case model.ViewDistributions:
		page := m.pageFor(v)
		return func() tea.Msg {
			resp, err := m.client.ListDistributions(context.Background(), page)
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return distributionsLoadedMsg{items: resp.Items, total: resp.Total}
		}
	case model.ViewCompliance:
		return func() tea.Msg {
			summary, err := m.client.GetComplianceSummary(context.Background())
			if err != nil {
				return apiErrorMsg{err: err}
			}
			return complianceLoadedMsg{summary: summary}
		}
	}
	return nil
}

// loadColumnsCmd loads the persisted column preference for a view. The
// store swallows load failures, so this command never errors.
func (m *Model) loadColumnsCmd(v model.View) tea.Cmd {
	store := m.stores[v]
	return func() tea.Msg {
		store.Load(context.Background())
		return columnsLoadedMsg{view: v}
	}
}

// openEditorCmd fetches the confirmed assignments for a host plus the
// full firewall-role vocabulary the editor offers as candidates.
func (m *Model) openEditorCmd(host model.Host) tea.Cmd {
	return func() tea.Msg {
		baseline, err := m.client.ListHostAssignments(context.Background(), host.ID)
		if err != nil {
			return apiErrorMsg{err: err}
		}

		roles, err := m.client.ListFirewallRoles(context.Background(), api.Page{Number: 1, Size: 100})
		if err != nil {
			return apiErrorMsg{err: err}
		}
		members := make([]model.Member, 0, len(roles.Items))
		for _, r := range roles.Items {
			members = append(members, model.Member{ID: r.ID, Name: r.Name})
		}

		return editorDataMsg{
			hostID:   host.ID,
			hostName: host.Hostname,
			baseline: baseline,
			members:  members,
		}
	}
}

// flushEditorCmd applies the editor's staged changeset
func (m *Model) flushEditorCmd() tea.Cmd {
	ed := m.editor
	cs := ed.rec.Diff()
	return func() tea.Msg {
		result := m.flusher.Flush(context.Background(), ed.hostID, cs)
		return flushResultMsg{result: result}
	}
}
