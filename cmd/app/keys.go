package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"
	cblog "github.com/charmbracelet/log"

	"github.com/hallgrim/parapet/pkg/model"
)

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.editor != nil {
		return m.handleEditorKey(msg)
	}
	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		return m.switchView(resourceViews[idx])

	case "tab":
		for i, v := range resourceViews {
			if v == m.state.Navigation.View {
				return m.switchView(resourceViews[(i+1)%len(resourceViews)])
			}
		}
		return m.switchView(resourceViews[0])

	case "r":
		m.loading = true
		m.err = nil
		return m, m.loadViewCmd(m.state.Navigation.View)

	case "+", "=":
		return m.cyclePageSize(1)

	case "-":
		return m.cyclePageSize(-1)

	case "n":
		return m.turnPage(1)

	case "p":
		return m.turnPage(-1)

	case "c":
		if m.state.Navigation.View != model.ViewCompliance {
			m.pickerOpen = true
			m.pickerCursor = 0
		}
		return m, nil

	case "e":
		if m.state.Navigation.View == model.ViewHosts {
			return m.openEditorForSelection()
		}
		return m, nil
	}

	// Remaining keys drive the focused table (j/k, arrows, g/G)
	if m.state.Navigation.View != model.ViewCompliance {
		t := m.tables[m.state.Navigation.View]
		var cmd tea.Cmd
		t, cmd = t.Update(msg)
		m.tables[m.state.Navigation.View] = t
		m.state.Navigation.SelectedIdx = t.Cursor()
		return m, cmd
	}
	return m, nil
}

func (m *Model) switchView(v model.View) (tea.Model, tea.Cmd) {
	if v == m.state.Navigation.View {
		return m, nil
	}
	m.state.Navigation.View = v
	m.state.Navigation.SelectedIdx = 0
	m.statusMsg = ""
	m.err = nil
	m.loading = true
	return m, m.loadViewCmd(v)
}

// cyclePageSize moves to the neighboring option and pins the choice so a
// later resize keeps it selectable.
func (m *Model) cyclePageSize(dir int) (tea.Model, tea.Cmd) {
	v := m.state.Navigation.View
	if v == model.ViewCompliance {
		return m, nil
	}
	opts := m.options[v]
	if len(opts) == 0 {
		return m, nil
	}

	ts := m.state.Table(v)
	idx := 0
	for i, opt := range opts {
		if opt == ts.PageSize {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 || idx >= len(opts) {
		return m, nil
	}

	ts.PageSize = opts[idx]
	ts.PageSizePinned = true
	ts.Page = 0
	m.loading = true
	m.refreshTable(v)
	return m, m.loadViewCmd(v)
}

func (m *Model) turnPage(dir int) (tea.Model, tea.Cmd) {
	v := m.state.Navigation.View
	if v == model.ViewCompliance {
		return m, nil
	}
	ts := m.state.Table(v)

	next := ts.Page + dir
	if next < 0 {
		return m, nil
	}
	if ts.PageSize > 0 && next*ts.PageSize >= m.totals[v] && dir > 0 {
		return m, nil
	}

	ts.Page = next
	m.loading = true
	return m, m.loadViewCmd(v)
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.state.Navigation.View
	defs := columnsForView(v)
	store := m.stores[v]

	switch msg.String() {
	case "esc", "c", "q":
		m.pickerOpen = false
		return m, nil

	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil

	case "down", "j":
		if m.pickerCursor < len(defs)-1 {
			m.pickerCursor++
		}
		return m, nil

	case "space", "enter":
		if m.pickerCursor >= len(defs) {
			return m, nil
		}
		field := defs[m.pickerCursor].field
		hidden := store.Hidden()
		found := false
		next := hidden[:0:0]
		for _, f := range hidden {
			if f == field {
				found = true
				continue
			}
			next = append(next, f)
		}
		if !found {
			next = append(next, field)
		}
		store.SetHidden(next)
		m.refreshTable(v)
		return m, nil

	case "R":
		return m, func() tea.Msg {
			if err := store.Reset(context.Background()); err != nil {
				return apiErrorMsg{err: err}
			}
			return columnsLoadedMsg{view: v}
		}
	}
	return m, nil
}

func (m *Model) openEditorForSelection() (tea.Model, tea.Cmd) {
	t := m.tables[model.ViewHosts]
	idx := t.Cursor()
	if idx < 0 || idx >= len(m.hosts) {
		return m, nil
	}
	host := m.hosts[idx]

	cblog.With("component", "ui").Info("opening assignment editor", "host", host.Hostname)
	m.loading = true
	return m, m.openEditorCmd(host)
}
