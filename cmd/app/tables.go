package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/hallgrim/parapet/pkg/model"
)

// columnDef ties a display column to the stable field key used for
// column visibility preferences.
type columnDef struct {
	field string
	title string
	width int
}

var hostColumns = []columnDef{
	{field: "hostname", title: "HOSTNAME", width: 24},
	{field: "address", title: "ADDRESS", width: 16},
	{field: "distribution", title: "DISTRIBUTION", width: 18},
	{field: "status", title: "STATUS", width: 10},
	{field: "tags", title: "TAGS", width: 24},
	{field: "last_seen", title: "LAST SEEN", width: 18},
}

var tagColumns = []columnDef{
	{field: "name", title: "NAME", width: 28},
	{field: "host_count", title: "HOSTS", width: 8},
}

var secretColumns = []columnDef{
	{field: "name", title: "NAME", width: 32},
	{field: "scope", title: "SCOPE", width: 14},
	{field: "updated_at", title: "UPDATED", width: 18},
}

var firewallRoleColumns = []columnDef{
	{field: "name", title: "NAME", width: 28},
	{field: "rule_count", title: "RULES", width: 8},
}

var distributionColumns = []columnDef{
	{field: "name", title: "NAME", width: 20},
	{field: "version", title: "VERSION", width: 12},
	{field: "arch", title: "ARCH", width: 10},
}

func columnsForView(v model.View) []columnDef {
	switch v {
	case model.ViewHosts:
		return hostColumns
	case model.ViewTags:
		return tagColumns
	case model.ViewSecrets:
		return secretColumns
	case model.ViewFirewallRoles:
		return firewallRoleColumns
	case model.ViewDistributions:
		return distributionColumns
	default:
		return nil
	}
}

// visibleColumns filters defs through the visibility model. Unknown
// fields default to visible so new columns show up before a preference
// mentions them.
func visibleColumns(defs []columnDef, vis map[string]bool) []table.Column {
	cols := make([]table.Column, 0, len(defs))
	for _, d := range defs {
		if shown, ok := vis[d.field]; ok && !shown {
			continue
		}
		cols = append(cols, table.Column{Title: d.title, Width: d.width})
	}
	return cols
}

func newResourceTable(cols []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func hostRow(h model.Host, vis map[string]bool) table.Row {
	cells := map[string]string{
		"hostname":     h.Hostname,
		"address":      h.Address,
		"distribution": h.Distribution,
		"status":       h.Status,
		"tags":         strings.Join(h.Tags, ","),
		"last_seen":    formatTime(h.LastSeen),
	}
	return projectRow(hostColumns, cells, vis)
}

func tagRow(t model.Tag, vis map[string]bool) table.Row {
	cells := map[string]string{
		"name":       t.Name,
		"host_count": fmt.Sprintf("%d", t.HostCount),
	}
	return projectRow(tagColumns, cells, vis)
}

func secretRow(s model.Secret, vis map[string]bool) table.Row {
	cells := map[string]string{
		"name":       s.Name,
		"scope":      s.Scope,
		"updated_at": formatTime(s.UpdatedAt),
	}
	return projectRow(secretColumns, cells, vis)
}

func firewallRoleRow(r model.FirewallRole, vis map[string]bool) table.Row {
	cells := map[string]string{
		"name":       r.Name,
		"rule_count": fmt.Sprintf("%d", r.RuleCount),
	}
	return projectRow(firewallRoleColumns, cells, vis)
}

func distributionRow(d model.Distribution, vis map[string]bool) table.Row {
	cells := map[string]string{
		"name":    d.Name,
		"version": d.Version,
		"arch":    d.Arch,
	}
	return projectRow(distributionColumns, cells, vis)
}

// projectRow emits cells in column order, skipping hidden fields so the
// row shape always matches visibleColumns for the same view.
func projectRow(defs []columnDef, cells map[string]string, vis map[string]bool) table.Row {
	row := make(table.Row, 0, len(defs))
	for _, d := range defs {
		if shown, ok := vis[d.field]; ok && !shown {
			continue
		}
		row = append(row, cells[d.field])
	}
	return row
}
