package model

// TerminalState holds the current terminal dimensions
type TerminalState struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// NavigationState holds navigation-related state
type NavigationState struct {
	View        View `json:"view"`
	SelectedIdx int  `json:"selectedIdx"`
}

// TableState holds per-screen table presentation state.
// The grid identifier is the persistence key for column preferences.
type TableState struct {
	GridID         string `json:"gridId"`
	PageSize       int    `json:"pageSize"`
	PageSizePinned bool   `json:"pageSizePinned"` // user picked a size explicitly
	Page           int    `json:"page"`
}

// AppState represents the complete application state for Bubbletea
type AppState struct {
	Terminal   TerminalState        `json:"terminal"`
	Navigation NavigationState      `json:"navigation"`
	Tables     map[View]*TableState `json:"tables"`
	Server     *Server              `json:"server,omitempty"`
}

// NewAppState creates a new AppState with default values
func NewAppState() *AppState {
	tables := make(map[View]*TableState)
	for _, v := range []View{ViewHosts, ViewTags, ViewSecrets, ViewFirewallRoles, ViewDistributions} {
		tables[v] = &TableState{
			GridID:   "parapet." + string(v),
			PageSize: 10,
			Page:     0,
		}
	}

	return &AppState{
		Terminal: TerminalState{
			Rows: 24,
			Cols: 80,
		},
		Navigation: NavigationState{
			View:        ViewHosts,
			SelectedIdx: 0,
		},
		Tables: tables,
	}
}

// Table returns the table state for a view, creating it on first use
func (s *AppState) Table(v View) *TableState {
	if s.Tables == nil {
		s.Tables = make(map[View]*TableState)
	}
	if ts, ok := s.Tables[v]; ok {
		return ts
	}
	ts := &TableState{GridID: "parapet." + string(v), PageSize: 10}
	s.Tables[v] = ts
	return ts
}
