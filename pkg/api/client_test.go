package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/hallgrim/parapet/pkg/errors"
	"github.com/hallgrim/parapet/pkg/model"
)

func TestClient_APIRootPath_URLConstruction(t *testing.T) {
	tests := []struct {
		name             string
		apiRootPath      string
		requestPath      string
		expectedFullPath string
	}{
		{
			name:             "Without api root path",
			apiRootPath:      "",
			requestPath:      "/api/v1/hosts",
			expectedFullPath: "/api/v1/hosts",
		},
		{
			name:             "With api root path",
			apiRootPath:      "mgmt",
			requestPath:      "/api/v1/hosts",
			expectedFullPath: "/mgmt/api/v1/hosts",
		},
		{
			name:             "With leading slash",
			apiRootPath:      "/mgmt",
			requestPath:      "/api/v1/hosts",
			expectedFullPath: "/mgmt/api/v1/hosts",
		},
		{
			name:             "With trailing slash",
			apiRootPath:      "mgmt/",
			requestPath:      "/api/v1/hosts",
			expectedFullPath: "/mgmt/api/v1/hosts",
		},
		{
			name:             "With nested root path",
			apiRootPath:      "infra/mgmt",
			requestPath:      "/api/v1/tags",
			expectedFullPath: "/infra/mgmt/api/v1/tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var receivedPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedPath = r.URL.Path
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("{}"))
			}))
			defer server.Close()

			client := NewClient(&model.Server{
				BaseURL:     server.URL,
				Token:       "test-token",
				APIRootPath: tt.apiRootPath,
			})

			_, err := client.Get(context.Background(), tt.requestPath)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if receivedPath != tt.expectedFullPath {
				t.Errorf("Expected path %s, got %s", tt.expectedFullPath, receivedPath)
			}
		})
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "tok-42"})

	if _, err := client.Get(context.Background(), "/api/v1/hosts"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if receivedAuth != "Bearer tok-42" {
		t.Errorf("Expected bearer token header, got %q", receivedAuth)
	}
}

func TestClient_StatusCodeErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		category apperrors.ErrorCategory
		code     string
	}{
		{401, apperrors.ErrorAuth, "UNAUTHORIZED"},
		{403, apperrors.ErrorPermission, "FORBIDDEN"},
		{404, apperrors.ErrorAPI, "NOT_FOUND"},
		{409, apperrors.ErrorValidation, "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

			_, err := client.Get(context.Background(), "/api/v1/hosts")
			if err == nil {
				t.Fatal("expected error")
			}
			perr, ok := err.(*apperrors.ParapetError)
			if !ok {
				t.Fatalf("expected ParapetError, got %T", err)
			}
			if perr.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, perr.Category)
			}
			if perr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, perr.Code)
			}
		})
	}
}

func TestClient_ServerErrorMessagePreferred(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code": 409, "message": "tag already attached"}`))
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	_, err := client.Get(context.Background(), "/api/v1/tags")
	if err == nil {
		t.Fatal("expected error")
	}
	perr := err.(*apperrors.ParapetError)
	if perr.Message != "tag already attached" {
		t.Errorf("expected server message preferred, got %q", perr.Message)
	}
}

func TestIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(&model.Server{BaseURL: server.URL, Token: "t"})

	_, err := client.Get(context.Background(), "/api/v1/hosts/missing")
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound true, got error %v", err)
	}
}
