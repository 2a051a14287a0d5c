// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CONTEXTUAL QUERY TESTS
// =============================================================================

func TestContextualQueryParsed(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contextual-query", r.URL.Path)

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acme", req.CompanyID)
		assert.Equal(t, "who owns billing?", req.Task)
		assert.Nil(t, req.SessionID, "first turn should carry a null session_id")

		w.Write([]byte(`{"success":true,"response":"Bob owns billing.","session_id":"session_9"}`))
	}))
	defer server.Close()

	result, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme",
		Task:      "who owns billing?",
		UserID:    "u1",
	})
	require.NoError(t, err)
	assert.True(t, result.Parsed)
	assert.Equal(t, "Bob owns billing.", result.Answer)
	assert.Equal(t, "session_9", result.SessionID)
}

func TestContextualQueryCarriesSessionID(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SessionID)
		assert.Equal(t, "s1", *req.SessionID)
		w.Write([]byte(`{"success":true,"response":"ok"}`))
	}))
	defer server.Close()

	sid := "s1"
	_, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme", Task: "t", UserID: "u1", SessionID: &sid,
	})
	require.NoError(t, err)
}

func TestContextualQueryChunkedBody(t *testing.T) {
	// The document arrives split across writes; the client must
	// assemble it before parsing.
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte(`{"success":true,"resp`))
		flusher.Flush()
		w.Write([]byte(`onse":"chunked answer","session_id":"s2"}`))
	}))
	defer server.Close()

	result, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme", Task: "t", UserID: "u1",
	})
	require.NoError(t, err)
	assert.True(t, result.Parsed)
	assert.Equal(t, "chunked answer", result.Answer)
}

func TestContextualQueryNonJSONFallsBackToRaw(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("I could not find anything about that."))
	}))
	defer server.Close()

	result, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme", Task: "t", UserID: "u1",
	})
	require.NoError(t, err, "a non-JSON body is a degraded answer, not an error")
	assert.False(t, result.Parsed)
	assert.Equal(t, "I could not find anything about that.", result.Answer)
	assert.Empty(t, result.SessionID)
}

func TestContextualQuerySuccessFalseFallsBackToRaw(t *testing.T) {
	body := `{"success":false,"error":"no context"}`
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	result, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme", Task: "t", UserID: "u1",
	})
	require.NoError(t, err)
	assert.False(t, result.Parsed)
	assert.Equal(t, body, result.Answer)
}

func TestContextualQueryHTTPError(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream down"}`))
	}))
	defer server.Close()

	_, err := client.ContextualQuery(context.Background(), &QueryRequest{
		CompanyID: "acme", Task: "t", UserID: "u1",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestParseQueryBufferEmptyResponseField(t *testing.T) {
	// success=true but an empty response string still falls back.
	result := parseQueryBuffer([]byte(`{"success":true,"response":""}`))
	assert.False(t, result.Parsed)
}
