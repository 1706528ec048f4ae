package main

import (
	"github.com/hallgrim/parapet/pkg/model"
	"github.com/hallgrim/parapet/pkg/services/assignflush"
)

// hostsLoadedMsg carries a page of hosts from the API
type hostsLoadedMsg struct {
	items []model.Host
	total int
}

type tagsLoadedMsg struct {
	items []model.Tag
	total int
}

type secretsLoadedMsg struct {
	items []model.Secret
	total int
}

type firewallRolesLoadedMsg struct {
	items []model.FirewallRole
	total int
}

type distributionsLoadedMsg struct {
	items []model.Distribution
	total int
}

type complianceLoadedMsg struct {
	summary *model.ComplianceSummary
}

// columnsLoadedMsg signals that the column preference for a view is Ready
type columnsLoadedMsg struct {
	view model.View
}

// editorDataMsg carries the baseline and candidate vocabulary for the
// assignment editor
type editorDataMsg struct {
	hostID   string
	hostName string
	baseline []model.Assignment
	members  []model.Member
}

// flushResultMsg carries the per-item results of an assignment save
type flushResultMsg struct {
	result *assignflush.FlushResult
}

// apiErrorMsg carries a failed API operation into the update loop
type apiErrorMsg struct {
	err error
}
