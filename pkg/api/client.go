package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	cblog "github.com/charmbracelet/log"
	"github.com/hallgrim/parapet/pkg/apctx"
	apperrors "github.com/hallgrim/parapet/pkg/errors"
	"github.com/hallgrim/parapet/pkg/model"
	"github.com/hallgrim/parapet/pkg/retry"
)

// Client represents an HTTP client for the management server API
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	insecure    bool
	apiRootPath string
}

var customHTTPClient *http.Client

// SetHTTPClient sets a custom HTTP client to be used by all new Client instances
func SetHTTPClient(client *http.Client) {
	customHTTPClient = client
}

// NewClient creates a new management server API client
func NewClient(server *model.Server) *Client {
	var httpClient *http.Client

	if customHTTPClient != nil {
		// Clone the custom client to avoid modifying the shared instance
		httpClient = &http.Client{
			Transport:     customHTTPClient.Transport,
			CheckRedirect: customHTTPClient.CheckRedirect,
			Jar:           customHTTPClient.Jar,
			Timeout:       customHTTPClient.Timeout,
		}

		if server.Insecure {
			if transport, ok := httpClient.Transport.(*http.Transport); ok {
				clonedTransport := transport.Clone()
				if clonedTransport.TLSClientConfig == nil {
					clonedTransport.TLSClientConfig = &tls.Config{}
				} else {
					clonedTransport.TLSClientConfig = clonedTransport.TLSClientConfig.Clone()
				}
				clonedTransport.TLSClientConfig.InsecureSkipVerify = true
				httpClient.Transport = clonedTransport
			}
		}
	} else {
		// Fast connection timeouts; request timing comes from context
		transport := &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   3 * time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			IdleConnTimeout:       30 * time.Second,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
		}

		if server.Insecure {
			transport.TLSClientConfig = &tls.Config{
				InsecureSkipVerify: true,
			}
		}

		httpClient = &http.Client{
			Transport: transport,
		}
	}

	return &Client{
		baseURL:     server.BaseURL,
		token:       server.Token,
		httpClient:  httpClient,
		insecure:    server.Insecure,
		apiRootPath: server.APIRootPath,
	}
}

// buildURL constructs the full URL including the API root path if configured
func (c *Client) buildURL(path string) string {
	if c.apiRootPath != "" {
		rootPath := strings.TrimRight(strings.TrimLeft(c.apiRootPath, "/"), "/")
		return fmt.Sprintf("%s/%s%s", c.baseURL, rootPath, path)
	}
	return c.baseURL + path
}

// Get performs a GET request with retry logic
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := apctx.WithAPITimeout(ctx)
	defer cancel()

	var result []byte
	err := retry.NetworkOperation(ctx, fmt.Sprintf("GET %s", path), func(attempt int) error {
		var opErr error
		result, opErr = c.request(ctx, "GET", path, nil)
		return opErr
	})

	return result, err
}

// Post performs a POST request with retry logic
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	ctx, cancel := apctx.WithAPITimeout(ctx)
	defer cancel()

	var result []byte
	err := retry.NetworkOperation(ctx, fmt.Sprintf("POST %s", path), func(attempt int) error {
		var opErr error
		result, opErr = c.request(ctx, "POST", path, body)
		return opErr
	})

	return result, err
}

// Put performs a PUT request with retry logic
func (c *Client) Put(ctx context.Context, path string, body interface{}) ([]byte, error) {
	ctx, cancel := apctx.WithAPITimeout(ctx)
	defer cancel()

	var result []byte
	err := retry.NetworkOperation(ctx, fmt.Sprintf("PUT %s", path), func(attempt int) error {
		var opErr error
		result, opErr = c.request(ctx, "PUT", path, body)
		return opErr
	})

	return result, err
}

// PutRaw performs a PUT request with a pre-encoded JSON body
func (c *Client) PutRaw(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := apctx.WithAPITimeout(ctx)
	defer cancel()

	var result []byte
	err := retry.NetworkOperation(ctx, fmt.Sprintf("PUT %s", path), func(attempt int) error {
		var opErr error
		result, opErr = c.requestRaw(ctx, "PUT", path, body)
		return opErr
	})

	return result, err
}

// Delete performs a DELETE request with retry logic
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := apctx.WithAPITimeout(ctx)
	defer cancel()

	var result []byte
	err := retry.NetworkOperation(ctx, fmt.Sprintf("DELETE %s", path), func(attempt int) error {
		var opErr error
		result, opErr = c.request(ctx, "DELETE", path, nil)
		return opErr
	})

	return result, err
}

// request performs the actual HTTP request
func (c *Client) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var raw []byte
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorValidation, "JSON_MARSHAL_FAILED",
				"Failed to marshal request body").
				WithContext("method", method).
				WithContext("path", path).
				WithUserAction("Check the request data format")
		}
		raw = jsonData
	}
	return c.requestRaw(ctx, method, path, raw)
}

func (c *Client) requestRaw(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.buildURL(path)

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorNetwork, "REQUEST_CREATE_FAILED",
			"Failed to create HTTP request").
			WithContext("method", method).
			WithContext("url", url).
			WithUserAction("Check the server URL and try again")
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context errors have priority
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.TimeoutError("REQUEST_TIMEOUT",
				"Request timed out - server may be unreachable").
				WithContext("method", method).
				WithContext("url", url).
				WithUserAction("Check your connection to the management server and try again")
		}

		if ctx.Err() == context.Canceled {
			return nil, apperrors.New(apperrors.ErrorInternal, "REQUEST_CANCELLED",
				"Request was cancelled").
				WithContext("method", method).
				WithContext("url", url)
		}

		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, apperrors.TimeoutError("NETWORK_TIMEOUT",
				"Network connection timed out").
				WithContext("method", method).
				WithContext("url", url).
				WithUserAction("Server may be unreachable - check your connection")
		}

		return nil, apperrors.Wrap(err, apperrors.ErrorNetwork, "HTTP_REQUEST_FAILED",
			"HTTP request failed").
			WithContext("method", method).
			WithContext("url", url).
			AsRecoverable().
			WithUserAction("Check your network connection and management server status")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorNetwork, "RESPONSE_READ_FAILED",
			"Failed to read response body").
			WithContext("method", method).
			WithContext("url", url).
			WithUserAction("Try the request again")
	}

	if resp.StatusCode >= 400 {
		cblog.With("component", "api", "op", "http").Error("http error",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"len", len(respBody),
		)
		// Body may contain details; truncate to avoid huge logs
		logBody := string(respBody)
		const maxLen = 2048
		if len(logBody) > maxLen {
			logBody = logBody[:maxLen] + "..."
		}
		cblog.With("component", "api").Debug("response body", "body", logBody)

		return nil, c.createAPIError(resp.StatusCode, string(respBody), url).
			WithContext("method", method).
			WithContext("path", path)
	}

	return respBody, nil
}

// serverError represents the management server's standard error response format
type serverError struct {
	Code    int    `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseServerError attempts to parse a serverError from a JSON response body
func parseServerError(responseBody string) *serverError {
	if responseBody == "" {
		return nil
	}
	var srvErr serverError
	if err := json.Unmarshal([]byte(responseBody), &srvErr); err != nil {
		return nil
	}
	if srvErr.Message != "" || srvErr.Error != "" {
		return &srvErr
	}
	return nil
}

// createAPIError creates a structured API error based on status code and response
func (c *Client) createAPIError(statusCode int, responseBody, url string) *apperrors.ParapetError {
	var category apperrors.ErrorCategory
	var code string
	var message string
	var userAction string
	var recoverable bool

	srvErr := parseServerError(responseBody)

	switch statusCode {
	case 401:
		category = apperrors.ErrorAuth
		code = "UNAUTHORIZED"
		message = "Authentication required or token expired"
		userAction = "Refresh your API token and try again"
		recoverable = false

	case 403:
		category = apperrors.ErrorPermission
		code = "FORBIDDEN"
		message = "Insufficient permissions for this operation"
		userAction = "Check your user permissions on the management server"
		recoverable = false

	case 404:
		category = apperrors.ErrorAPI
		code = "NOT_FOUND"
		message = "Requested resource not found"
		userAction = "Verify the resource exists and the path is correct"
		recoverable = false

	case 409:
		category = apperrors.ErrorValidation
		code = "CONFLICT"
		message = "Request conflicts with current state"
		userAction = "Check the current state and adjust your request"
		recoverable = true

	case 429:
		category = apperrors.ErrorAPI
		code = "RATE_LIMITED"
		message = "Too many requests - rate limited"
		userAction = "Wait a moment and try again"
		recoverable = true

	case 500, 502, 503, 504:
		category = apperrors.ErrorAPI
		code = "SERVER_ERROR"
		message = "Management server error"
		userAction = "Check the management server status and try again"
		recoverable = true

	default:
		category = apperrors.ErrorAPI
		code = "API_ERROR"
		message = fmt.Sprintf("API request failed with status %d", statusCode)
		userAction = "Check the request and try again"
		recoverable = true
	}

	if srvErr != nil {
		// Prefer the server's human-readable message
		srvMessage := srvErr.Message
		if srvMessage == "" {
			srvMessage = srvErr.Error
		}
		if srvMessage != "" {
			message = srvMessage
			cblog.With("component", "api").Debug("Parsed server error",
				"code", srvErr.Code, "message", srvMessage, "statusCode", statusCode)
		}
	}

	err := apperrors.New(category, code, message).
		WithSeverity(apperrors.SeverityMedium).
		WithDetails(responseBody).
		WithContext("statusCode", statusCode).
		WithContext("url", url).
		WithUserAction(userAction)

	if recoverable {
		err.AsRecoverable()
	}

	return err
}

// IsNotFound reports whether an error is the API's not-found error
func IsNotFound(err error) bool {
	if perr, ok := err.(*apperrors.ParapetError); ok {
		return perr.IsCode("NOT_FOUND")
	}
	return false
}
