package main

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/hallgrim/parapet/pkg/assign"
	"github.com/hallgrim/parapet/pkg/model"
	"github.com/hallgrim/parapet/pkg/services/assignflush"
)

type editorFocus int

const (
	focusAssigned editorFocus = iota
	focusCandidates
)

// assignmentEditor drives one firewall-role edit session for a host.
// It stays open until the staged changes flush cleanly or the user
// cancels, so partial save failures remain visible and retryable.
type assignmentEditor struct {
	hostID   string
	hostName string

	rec     *assign.Reconciler
	members []model.Member

	focus        editorFocus
	assignedIdx  int
	candidateIdx int

	saving   bool
	failures []assignflush.ItemResult
}

func newAssignmentEditor(hostID, hostName string, baseline []model.Assignment, members []model.Member) *assignmentEditor {
	return &assignmentEditor{
		hostID:   hostID,
		hostName: hostName,
		rec:      assign.Open(baseline),
		members:  members,
	}
}

func (e *assignmentEditor) candidates() []model.Member {
	return e.rec.AvailableCandidates(e.members)
}

func (e *assignmentEditor) clampCursors() {
	if n := len(e.rec.Working()); e.assignedIdx >= n {
		e.assignedIdx = n - 1
	}
	if e.assignedIdx < 0 {
		e.assignedIdx = 0
	}
	if n := len(e.candidates()); e.candidateIdx >= n {
		e.candidateIdx = n - 1
	}
	if e.candidateIdx < 0 {
		e.candidateIdx = 0
	}
}

func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e.saving {
		// Only cancel is honored while a flush is in flight
		if msg.String() == "esc" {
			m.editor = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.editor = nil
		return m, nil

	case "tab":
		if e.focus == focusAssigned {
			e.focus = focusCandidates
		} else {
			e.focus = focusAssigned
		}
		return m, nil

	case "up", "k":
		if e.focus == focusAssigned && e.assignedIdx > 0 {
			e.assignedIdx--
		} else if e.focus == focusCandidates && e.candidateIdx > 0 {
			e.candidateIdx--
		}
		return m, nil

	case "down", "j":
		if e.focus == focusAssigned && e.assignedIdx < len(e.rec.Working())-1 {
			e.assignedIdx++
		} else if e.focus == focusCandidates && e.candidateIdx < len(e.candidates())-1 {
			e.candidateIdx++
		}
		return m, nil

	case "space", "enter":
		if e.focus == focusAssigned {
			working := e.rec.Working()
			if e.assignedIdx < len(working) {
				e.rec.StageRemove(working[e.assignedIdx].MemberID)
			}
		} else {
			cands := e.candidates()
			if e.candidateIdx < len(cands) {
				e.rec.StageAdd(cands[e.candidateIdx])
			}
		}
		e.failures = nil
		e.clampCursors()
		return m, nil

	case "s":
		if e.rec.Diff().Empty() {
			m.editor = nil
			return m, nil
		}
		e.saving = true
		e.failures = nil
		return m, m.flushEditorCmd()
	}
	return m, nil
}
