// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Configuration constants for the backend client.
const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the timeout for non-streaming API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultHistoryLimit caps chat-history listings when the caller
	// passes no limit.
	DefaultHistoryLimit = 50

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

var (
	// Shared HTTP client with connection pooling for all API requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for the contextual-query request.
	// No client timeout: the read is bounded by the request context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// ErrBadResponse indicates the backend replied with success=false or a
// shape this client does not understand.
var ErrBadResponse = errors.New("unexpected backend response")

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// Client talks to the DONNA backend. All operations take a context and
// return explicit errors; callers translate them into user-visible
// strings.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	streamer   *http.Client
}

// NewClient creates a backend client for the given base URL.
// An empty base URL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  "donna-tui/0.1.0",
		httpClient: sharedHTTPClient,
		streamer:   sharedStreamingClient,
	}
}

// WithHTTPClient overrides both HTTP clients. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	c.streamer = hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetBaseURL swaps the backend base URL (config live reload).
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// =============================================================================
// COMPANIES / CASES
// =============================================================================

// ListCompanies returns all cases known to the backend.
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	var out companiesResponse
	if err := c.getJSON(ctx, "/api/companies", nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: companies listing reported failure", ErrBadResponse)
	}
	return out.Companies, nil
}

// CreateCompany registers a new case.
func (c *Client) CreateCompany(ctx context.Context, companyID, name, userID string) error {
	body := map[string]string{
		"company_id": companyID,
		"name":       name,
		"user_id":    userID,
	}
	var out successResponse
	if err := c.postJSON(ctx, "/api/companies/create", body, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrBadResponse, out.Error)
	}
	return nil
}

// Ingest uploads raw conversation data for a case.
func (c *Client) Ingest(ctx context.Context, companyID string, req *IngestRequest) error {
	var out successResponse
	path := "/api/companies/" + url.PathEscape(companyID) + "/ingest"
	if err := c.postJSON(ctx, path, req, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrBadResponse, out.Error)
	}
	return nil
}

// GetCompanyMetadata fetches the summary and suggested questions for a
// case.
func (c *Client) GetCompanyMetadata(ctx context.Context, companyID string) (*CompanyMetadata, error) {
	var out metadataResponse
	path := "/api/companies/" + url.PathEscape(companyID) + "/metadata"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: metadata fetch reported failure", ErrBadResponse)
	}
	return &out.Metadata, nil
}

// =============================================================================
// USERS
// =============================================================================

// RegisterUser registers a name/email pair and returns the assigned
// user id.
func (c *Client) RegisterUser(ctx context.Context, name, email string) (string, error) {
	body := map[string]string{"name": name, "email": email}
	var out registerResponse
	if err := c.postJSON(ctx, "/api/users/register", body, &out); err != nil {
		return "", err
	}
	if !out.Success || out.UserID == "" {
		return "", fmt.Errorf("%w: registration reported failure", ErrBadResponse)
	}
	return out.UserID, nil
}

// =============================================================================
// CHAT HISTORY
// =============================================================================

// GetChatHistory returns a user's recent sessions, optionally filtered
// by case, capped at limit (DefaultHistoryLimit when limit <= 0).
func (c *Client) GetChatHistory(ctx context.Context, userID, companyID string, limit int) ([]ChatSession, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	params := url.Values{}
	if companyID != "" {
		params.Set("company_id", companyID)
	}
	params.Set("limit", strconv.Itoa(limit))

	var out chatHistoryResponse
	path := "/api/users/" + url.PathEscape(userID) + "/chat-history"
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: chat history fetch reported failure", ErrBadResponse)
	}
	return out.Sessions, nil
}

// GetSession fetches one session record by id.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*ChatSession, error) {
	var out sessionResponse
	path := "/api/sessions/" + url.PathEscape(sessionID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: session fetch reported failure", ErrBadResponse)
	}
	return &out.Session, nil
}

// GetSessionMessages fetches the ordered message list of one session.
func (c *Client) GetSessionMessages(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var out messagesResponse
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: session messages fetch reported failure", ErrBadResponse)
	}
	return out.Messages, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// newAPIError builds an *APIError, pulling a message out of the body
// when the backend sent a JSON error envelope.
func newAPIError(status int, body []byte) error {
	var envelope struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error != "":
			msg = envelope.Error
		case envelope.Detail != "":
			msg = envelope.Detail
		case envelope.Message != "":
			msg = envelope.Message
		}
	}
	if msg == "" && len(body) > 0 && len(body) < 200 {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{Status: status, Message: msg}
}
