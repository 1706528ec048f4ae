package main

import (
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	cblog "github.com/charmbracelet/log"

	"github.com/hallgrim/parapet/pkg/api"
	"github.com/hallgrim/parapet/pkg/config"
	"github.com/hallgrim/parapet/pkg/model"
	"github.com/hallgrim/parapet/pkg/services/assignflush"
	"github.com/hallgrim/parapet/pkg/tui/columns"
	"github.com/hallgrim/parapet/pkg/tui/pagesize"
)

// Model is the complete Bubbletea application model
type Model struct {
	state  *model.AppState
	client *api.Client

	// Page-size layout inputs, fixed for the life of the program
	layout pagesize.Config

	// One preference store and one rendered table per resource view
	stores  map[model.View]*columns.Store
	tables  map[model.View]table.Model
	options map[model.View][]int

	// Last loaded page per view
	hosts         []model.Host
	tags          []model.Tag
	secrets       []model.Secret
	firewallRoles []model.FirewallRole
	distributions []model.Distribution
	totals        map[model.View]int
	compliance    *model.ComplianceSummary

	flusher assignflush.Service
	editor  *assignmentEditor

	// Column visibility picker overlay
	pickerOpen   bool
	pickerCursor int

	spinner   spinner.Model
	ready     bool
	loading   bool
	statusMsg string
	err       error
}

var resourceViews = []model.View{
	model.ViewHosts,
	model.ViewTags,
	model.ViewSecrets,
	model.ViewFirewallRoles,
	model.ViewDistributions,
	model.ViewCompliance,
}

// NewModel creates the initial application model
func NewModel(cfg *config.AppConfig, client *api.Client) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	layout := pagesize.Config{
		RowHeight:        cfg.Table.RowHeight,
		HeaderHeight:     cfg.Table.HeaderHeight,
		PaginationHeight: cfg.Table.PaginationHeight,
		ReservedHeight:   cfg.Table.ReservedHeight,
		MinRows:          cfg.Table.MinRows,
		MaxRows:          cfg.Table.MaxRows,
	}

	state := model.NewAppState()
	stores := make(map[model.View]*columns.Store)
	tables := make(map[model.View]table.Model)
	for v := range state.Tables {
		stores[v] = columns.NewStore(state.Tables[v].GridID, client)
		tables[v] = newResourceTable(visibleColumns(columnsForView(v), nil), state.Tables[v].PageSize)
	}

	return &Model{
		state:   state,
		client:  client,
		layout:  layout,
		stores:  stores,
		tables:  tables,
		options: make(map[model.View][]int),
		totals:  make(map[model.View]int),
		flusher: assignflush.NewService(client),
		spinner: s,
		loading: true,
	}
}

// Init implements tea.Model.Init
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	for _, v := range resourceViews {
		if v == model.ViewCompliance {
			continue
		}
		cmds = append(cmds, m.loadColumnsCmd(v))
	}
	cmds = append(cmds, m.loadViewCmd(m.state.Navigation.View))
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Terminal.Rows = msg.Height
		m.state.Terminal.Cols = msg.Width
		m.applyViewport()
		if !m.ready {
			m.ready = true
		}
		return m, m.loadViewCmd(m.state.Navigation.View)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hostsLoadedMsg:
		m.hosts = msg.items
		m.totals[model.ViewHosts] = msg.total
		m.loading = false
		m.refreshTable(model.ViewHosts)
		return m, nil

	case tagsLoadedMsg:
		m.tags = msg.items
		m.totals[model.ViewTags] = msg.total
		m.loading = false
		m.refreshTable(model.ViewTags)
		return m, nil

	case secretsLoadedMsg:
		m.secrets = msg.items
		m.totals[model.ViewSecrets] = msg.total
		m.loading = false
		m.refreshTable(model.ViewSecrets)
		return m, nil

	case firewallRolesLoadedMsg:
		m.firewallRoles = msg.items
		m.totals[model.ViewFirewallRoles] = msg.total
		m.loading = false
		m.refreshTable(model.ViewFirewallRoles)
		return m, nil

	case distributionsLoadedMsg:
		m.distributions = msg.items
		m.totals[model.ViewDistributions] = msg.total
		m.loading = false
		m.refreshTable(model.ViewDistributions)
		return m, nil

	case complianceLoadedMsg:
		m.compliance = msg.summary
		m.loading = false
		return m, nil

	case columnsLoadedMsg:
		m.refreshTable(msg.view)
		return m, nil

	case editorDataMsg:
		m.editor = newAssignmentEditor(msg.hostID, msg.hostName, msg.baseline, msg.members)
		m.loading = false
		return m, nil

	case flushResultMsg:
		return m.handleFlushResult(msg.result)

	case apiErrorMsg:
		m.loading = false
		if m.editor != nil {
			m.editor.saving = false
		}
		m.err = msg.err
		cblog.With("component", "ui").Error("operation failed", "err", msg.err)
		return m, nil
	}

	return m, nil
}

// applyViewport recomputes page sizing for every table from the current
// terminal height, keeping an explicitly pinned size selectable.
func (m *Model) applyViewport() {
	res := pagesize.Compute(m.layout, m.state.Terminal.Rows)
	for v, ts := range m.state.Tables {
		opts := res.Options
		if ts.PageSizePinned {
			opts = pagesize.MergeSelected(opts, ts.PageSize)
		} else {
			ts.PageSize = res.OptimalRows
		}
		m.options[v] = opts
		m.refreshTable(v)
	}
}

// refreshTable rebuilds a view's table widget from the loaded items, the
// column visibility projection and the current page size.
func (m *Model) refreshTable(v model.View) {
	store, ok := m.stores[v]
	if !ok {
		return
	}
	vis := store.VisibilityModel()
	cols := visibleColumns(columnsForView(v), vis)

	var rows []table.Row
	switch v {
	case model.ViewHosts:
		for _, h := range m.hosts {
			rows = append(rows, hostRow(h, vis))
		}
	case model.ViewTags:
		for _, t := range m.tags {
			rows = append(rows, tagRow(t, vis))
		}
	case model.ViewSecrets:
		for _, s := range m.secrets {
			rows = append(rows, secretRow(s, vis))
		}
	case model.ViewFirewallRoles:
		for _, r := range m.firewallRoles {
			rows = append(rows, firewallRoleRow(r, vis))
		}
	case model.ViewDistributions:
		for _, d := range m.distributions {
			rows = append(rows, distributionRow(d, vis))
		}
	}

	prev := m.tables[v]
	cursor := prev.Cursor()

	t := newResourceTable(cols, m.state.Table(v).PageSize)
	t.SetRows(rows)
	if cursor >= 0 && cursor < len(rows) {
		t.SetCursor(cursor)
	}
	m.tables[v] = t
}

func (m *Model) handleFlushResult(result *assignflush.FlushResult) (tea.Model, tea.Cmd) {
	m.loading = false
	if m.editor == nil {
		return m, nil
	}
	m.editor.saving = false

	// Fold applied operations into the session so a retry resubmits
	// only what actually failed
	for _, item := range result.Items {
		if item.Error != nil {
			continue
		}
		switch item.Op {
		case assignflush.OpCreate:
			m.editor.rec.ConfirmAdd(item.ID, item.AssignmentID)
		case assignflush.OpDelete:
			m.editor.rec.ConfirmRemove(item.ID)
		}
	}

	if result.Clean() {
		// All applied: close the session and reload confirmed state
		m.editor = nil
		m.statusMsg = "Assignments saved"
		return m, m.loadViewCmd(model.ViewHosts)
	}

	// Keep the session open so failed items stay visible and retryable
	m.editor.failures = result.Failed()
	cblog.With("component", "ui").Warn("assignment save partially failed",
		"failed", len(m.editor.failures), "total", len(result.Items))
	return m, nil
}

// Shutdown drains and stops the background preference writers. Called
// after the program loop exits.
func (m *Model) Shutdown() {
	for _, store := range m.stores {
		store.Wait()
		store.Close()
	}
}
