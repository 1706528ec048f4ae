package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/hallgrim/parapet/pkg/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	activeTab     = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

var viewTitles = map[model.View]string{
	model.ViewHosts:         "Hosts",
	model.ViewTags:          "Tags",
	model.ViewSecrets:       "Secrets",
	model.ViewFirewallRoles: "Firewall Roles",
	model.ViewDistributions: "Distributions",
	model.ViewCompliance:    "Compliance",
}

// View implements tea.Model.View
func (m *Model) View() tea.View {
	var content string
	switch {
	case !m.ready:
		content = statusStyle.Render("Starting…")
	case m.editor != nil:
		content = m.renderHeader() + "\n" + m.renderEditor() + "\n" + m.renderFooter()
	case m.pickerOpen:
		content = m.renderHeader() + "\n" + m.renderColumnPicker() + "\n" + m.renderFooter()
	default:
		content = m.renderHeader() + "\n" + m.renderBody() + "\n" + m.renderFooter()
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m *Model) renderHeader() string {
	var tabs []string
	for i, view := range resourceViews {
		label := fmt.Sprintf("%d %s", i+1, viewTitles[view])
		if view == m.state.Navigation.View {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return titleStyle.Render("parapet") + "  " + strings.Join(tabs, " ")
}

func (m *Model) renderBody() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n" +
			dimStyle.Render("Press r to retry")
	}
	if m.loading {
		return m.spinner.View() + " Loading…"
	}
	if m.state.Navigation.View == model.ViewCompliance {
		return m.renderCompliance()
	}

	t := m.tables[m.state.Navigation.View]
	return t.View() + "\n" + m.renderPagination()
}

func (m *Model) renderPagination() string {
	v := m.state.Navigation.View
	ts := m.state.Table(v)

	total := m.totals[v]
	pages := 1
	if ts.PageSize > 0 && total > 0 {
		pages = (total + ts.PageSize - 1) / ts.PageSize
	}

	var opts []string
	for _, opt := range m.options[v] {
		s := fmt.Sprintf("%d", opt)
		if opt == ts.PageSize {
			s = selectedStyle.Render(s)
		} else {
			s = dimStyle.Render(s)
		}
		opts = append(opts, s)
	}

	return fmt.Sprintf("page %d/%d (%d items)  rows: %s",
		ts.Page+1, pages, total, strings.Join(opts, " "))
}

func (m *Model) renderCompliance() string {
	if m.compliance == nil {
		return dimStyle.Render("No compliance data")
	}
	c := m.compliance

	lines := []string{
		fmt.Sprintf("Total hosts     %d", c.TotalHosts),
		fmt.Sprintf("Compliant       %s", statusStyle.Render(fmt.Sprintf("%d", c.Compliant))),
		fmt.Sprintf("Non-compliant   %s", errorStyle.Render(fmt.Sprintf("%d", c.NonCompliant))),
		fmt.Sprintf("Critical CVEs   %d", c.CriticalCVEs),
		fmt.Sprintf("High CVEs       %d", c.HighCVEs),
	}
	if !c.LastEvaluated.IsZero() {
		lines = append(lines, dimStyle.Render("Evaluated "+formatTime(c.LastEvaluated)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderColumnPicker() string {
	v := m.state.Navigation.View
	defs := columnsForView(v)
	vis := m.stores[v].VisibilityModel()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Columns: "+viewTitles[v]) + "\n\n")
	for i, d := range defs {
		mark := "[x]"
		if shown, ok := vis[d.field]; ok && !shown {
			mark = "[ ]"
		}
		line := fmt.Sprintf("%s %s", mark, d.title)
		if i == m.pickerCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("space toggle · R reset to defaults · esc close"))
	return panelStyle.Render(b.String())
}

func (m *Model) renderEditor() string {
	e := m.editor

	var left strings.Builder
	left.WriteString(titleStyle.Render("Assigned") + "\n")
	working := e.rec.Working()
	if len(working) == 0 {
		left.WriteString(dimStyle.Render("(none)") + "\n")
	}
	for i, a := range working {
		line := a.MemberName
		if e.rec.IsPending(a.MemberID) {
			line = pendingStyle.Render(line + " *")
		}
		if e.focus == focusAssigned && i == e.assignedIdx {
			line = selectedStyle.Render(line)
		}
		left.WriteString(line + "\n")
	}

	var right strings.Builder
	right.WriteString(titleStyle.Render("Available") + "\n")
	cands := e.candidates()
	if len(cands) == 0 {
		right.WriteString(dimStyle.Render("(none)") + "\n")
	}
	for i, c := range cands {
		line := c.Name
		if e.focus == focusCandidates && i == e.candidateIdx {
			line = selectedStyle.Render(line)
		}
		right.WriteString(line + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(34).Render(left.String()),
		panelStyle.Width(34).Render(right.String()),
	)

	header := titleStyle.Render("Firewall roles: " + e.hostName)
	footer := dimStyle.Render("tab switch · space add/remove · s save · esc cancel")
	if e.saving {
		footer = m.spinner.View() + " Saving…"
	}

	out := header + "\n" + body + "\n" + footer
	if len(e.failures) > 0 {
		var fails []string
		for _, f := range e.failures {
			fails = append(fails, fmt.Sprintf("%s %s: %v", f.Op, f.ID, f.Error))
		}
		out += "\n" + errorStyle.Render("Some changes failed:") + "\n" +
			strings.Join(fails, "\n") + "\n" +
			dimStyle.Render("Fix and press s to retry, or esc to discard")
	}
	return out
}

func (m *Model) renderFooter() string {
	if m.statusMsg != "" {
		return statusStyle.Render(m.statusMsg)
	}
	return dimStyle.Render("1-6 views · tab next · +/- page size · n/p page · c columns · e edit roles · r refresh · q quit")
}
