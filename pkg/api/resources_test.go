package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hallgrim/parapet/pkg/model"
)

func TestListHostsPagination(t *testing.T) {
	var receivedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"items": [{"id": "h1", "hostname": "web-01", "address": "10.0.0.1"}], "total": 41}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	resp, err := client.ListHosts(context.Background(), Page{Number: 2, Size: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Total != 41 {
		t.Errorf("expected total 41, got %d", resp.Total)
	}
	if len(resp.Items) != 1 || resp.Items[0].Hostname != "web-01" {
		t.Errorf("unexpected items %v", resp.Items)
	}
	if receivedQuery != "page=2&page_size=8" {
		t.Errorf("unexpected query %s", receivedQuery)
	}
}

func TestGetComplianceSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/compliance/summary" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"total_hosts": 40, "compliant": 31, "non_compliant": 9, "critical_cves": 3, "high_cves": 12}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	summary, err := client.GetComplianceSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalHosts != 40 || summary.NonCompliant != 9 || summary.CriticalCVEs != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestListHostAssignments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/host-1/assignments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"items": [{"id": "a1", "member_id": "role-1", "member_name": "Web"}]}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	assignments, err := client.ListHostAssignments(context.Background(), "host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignments) != 1 || assignments[0].ID != "a1" || assignments[0].MemberID != "role-1" {
		t.Errorf("unexpected assignments %v", assignments)
	}
}
