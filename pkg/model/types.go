package model

import "time"

// Server holds the connection details for a management server
type Server struct {
	BaseURL     string `json:"baseUrl"`
	Token       string `json:"token"`
	Insecure    bool   `json:"insecure"`
	APIRootPath string `json:"apiRootPath,omitempty"`
}

// View represents the different screens of the console
type View string

const (
	ViewHosts         View = "hosts"
	ViewTags          View = "tags"
	ViewSecrets       View = "secrets"
	ViewFirewallRoles View = "firewall-roles"
	ViewDistributions View = "distributions"
	ViewCompliance    View = "compliance"
)

// Host represents a managed host
type Host struct {
	ID           string    `json:"id"`
	Hostname     string    `json:"hostname"`
	Address      string    `json:"address"`
	Distribution string    `json:"distribution,omitempty"`
	Status       string    `json:"status,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	LastSeen     time.Time `json:"last_seen,omitempty"`
}

// Tag represents a host grouping label
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HostCount int    `json:"host_count,omitempty"`
}

// Secret represents secret metadata. Values never leave the server.
type Secret struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Scope     string    `json:"scope,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FirewallRole represents a named firewall rule set
type FirewallRole struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RuleCount int    `json:"rule_count,omitempty"`
}

// Distribution represents an OS distribution known to the server
type Distribution struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// ComplianceSummary aggregates vulnerability counts for the dashboard
type ComplianceSummary struct {
	TotalHosts    int       `json:"total_hosts"`
	Compliant     int       `json:"compliant"`
	NonCompliant  int       `json:"non_compliant"`
	CriticalCVEs  int       `json:"critical_cves"`
	HighCVEs      int       `json:"high_cves"`
	LastEvaluated time.Time `json:"last_evaluated,omitempty"`
}

// Member is something that can be attached to a parent resource,
// e.g. a firewall role offered for attachment to a host.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment is a server-confirmed attachment of a member to a parent
type Assignment struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
}
