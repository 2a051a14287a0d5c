// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// =============================================================================
// CONTEXTUAL QUERY
// =============================================================================

// QueryRequest is the body of POST /api/contextual-query.
// SessionID is empty for the first turn of a conversation; the backend
// then assigns one and returns it.
type QueryRequest struct {
	CompanyID string  `json:"company_id"`
	Task      string  `json:"task"`
	UserID    string  `json:"user_id"`
	SessionID *string `json:"session_id"`
}

// QueryResult is the outcome of a contextual query after the streamed
// body has been fully read and parsed.
//
// When the body was not the expected JSON document (or carried
// success=false), Parsed is false and Answer holds the raw buffer text.
// That is a degraded answer, not an error.
type QueryResult struct {
	Answer    string
	SessionID string
	Parsed    bool
	Raw       string
}

// queryEnvelope is the JSON document the backend streams back.
type queryEnvelope struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ContextualQuery answers one chat turn.
//
// The transport streams the response, but there is no incremental
// token protocol: the body is one logical JSON document possibly split
// across chunks. Phase one reads the body to completion into a single
// buffer; phase two parses it once. Any typing animation on top of the
// result is the caller's concern.
func (c *Client) ContextualQuery(ctx context.Context, req *QueryRequest) (*QueryResult, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/contextual-query", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	// Streaming client: no client timeout, the context bounds the read.
	resp, err := c.streamer.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		return nil, newAPIError(resp.StatusCode, body)
	}

	// Phase one: concatenate every chunk into one buffer.
	buf, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	// Phase two: parse the complete document once.
	return parseQueryBuffer(buf), nil
}

// parseQueryBuffer interprets a fully received contextual-query body.
// Malformed or unsuccessful documents fall back to the raw text.
func parseQueryBuffer(buf []byte) *QueryResult {
	raw := string(buf)

	var envelope queryEnvelope
	if err := json.Unmarshal(buf, &envelope); err != nil || !envelope.Success || envelope.Response == "" {
		return &QueryResult{
			Answer: raw,
			Parsed: false,
			Raw:    raw,
		}
	}

	return &QueryResult{
		Answer:    envelope.Response,
		SessionID: envelope.SessionID,
		Parsed:    true,
		Raw:       raw,
	}
}
