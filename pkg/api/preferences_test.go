package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/hallgrim/parapet/pkg/model"
)

func TestGetColumnPreference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/preferences/grids/parapet.hosts/columns" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"hidden_columns": ["address", "tags"], "updated_at": "2026-01-05T10:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	hidden, found, err := client.GetColumnPreference(context.Background(), "parapet.hosts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected preference found")
	}
	if len(hidden) != 2 || hidden[0] != "address" || hidden[1] != "tags" {
		t.Errorf("expected [address tags], got %v", hidden)
	}
}

func TestGetColumnPreferenceNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	hidden, found, err := client.GetColumnPreference(context.Background(), "parapet.hosts")
	if err != nil {
		t.Fatalf("not-found must not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false for missing preference")
	}
	if hidden != nil {
		t.Errorf("expected nil hidden set, got %v", hidden)
	}
}

func TestGetColumnPreferenceToleratesShapeDrift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"something_else": true}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	hidden, found, err := client.GetColumnPreference(context.Background(), "parapet.hosts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Error("expected found=true for existing preference")
	}
	if len(hidden) != 0 {
		t.Errorf("expected empty hidden set, got %v", hidden)
	}
}

func TestPutColumnPreference(t *testing.T) {
	var receivedBody []byte
	var receivedMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	err := client.PutColumnPreference(context.Background(), "parapet.hosts", []string{"status"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receivedMethod != "PUT" {
		t.Errorf("expected PUT, got %s", receivedMethod)
	}

	cols := gjson.GetBytes(receivedBody, "hidden_columns")
	if !cols.Exists() || len(cols.Array()) != 1 || cols.Array()[0].String() != "status" {
		t.Errorf("unexpected payload %s", receivedBody)
	}
}

func TestPutColumnPreferenceNilSet(t *testing.T) {
	var receivedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	if err := client.PutColumnPreference(context.Background(), "parapet.hosts", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cols := gjson.GetBytes(receivedBody, "hidden_columns")
	if !cols.Exists() || !cols.IsArray() {
		t.Errorf("nil set should persist as an empty array, payload %s", receivedBody)
	}
}

func TestDeleteColumnPreference(t *testing.T) {
	var receivedMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	if err := client.DeleteColumnPreference(context.Background(), "parapet.hosts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receivedMethod != "DELETE" {
		t.Errorf("expected DELETE, got %s", receivedMethod)
	}
}

func TestDeleteColumnPreferenceAlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	if err := client.DeleteColumnPreference(context.Background(), "parapet.hosts"); err != nil {
		t.Errorf("deleting an absent preference must succeed, got %v", err)
	}
}
