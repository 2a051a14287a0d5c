// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL).WithHTTPClient(server.Client())
	return client, server
}

// =============================================================================
// CASE ENDPOINT TESTS
// =============================================================================

func TestListCompanies(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/companies" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"companies":[{"company_id":"acme","name":"Acme","short_summary":"A case"}]}`))
	}))
	defer server.Close()

	companies, err := client.ListCompanies(context.Background())
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if len(companies) != 1 || companies[0].CompanyID != "acme" {
		t.Errorf("companies = %+v", companies)
	}
}

func TestListCompaniesReportedFailure(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	_, err := client.ListCompanies(context.Background())
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("err = %v, want ErrBadResponse", err)
	}
}

func TestGetCompanyMetadata(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/companies/acme/metadata" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"metadata":{"company_id":"acme","name":"Acme","suggested_questions":["q1","q2"]}}`))
	}))
	defer server.Close()

	meta, err := client.GetCompanyMetadata(context.Background(), "acme")
	if err != nil {
		t.Fatalf("GetCompanyMetadata failed: %v", err)
	}
	if meta.Name != "Acme" || len(meta.SuggestedQuestions) != 2 {
		t.Errorf("metadata = %+v", meta)
	}
}

// =============================================================================
// USER AND HISTORY TESTS
// =============================================================================

func TestRegisterUser(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/register" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"user_id":"user_42"}`))
	}))
	defer server.Close()

	userID, err := client.RegisterUser(context.Background(), "Alice", "a@b.c")
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	if userID != "user_42" {
		t.Errorf("userID = %q", userID)
	}
}

func TestGetChatHistoryParams(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/u1/chat-history" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("company_id") != "acme" || q.Get("limit") != "5" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"success":true,"sessions":[{"session_id":"s1"}]}`))
	}))
	defer server.Close()

	sessions, err := client.GetChatHistory(context.Background(), "u1", "acme", 5)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "s1" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestGetSessionMessages(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/s1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"session_id":"s1","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`))
	}))
	defer server.Close()

	msgs, err := client.GetSessionMessages(context.Background(), "s1")
	if err != nil {
		t.Fatalf("GetSessionMessages failed: %v", err)
	}
	if len(msgs) != 2 || msgs[1].Content != "hello" {
		t.Errorf("messages = %+v", msgs)
	}
}

// =============================================================================
// ERROR HANDLING TESTS
// =============================================================================

func TestAPIErrorFromEnvelope(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"session not found"}`))
	}))
	defer server.Close()

	_, err := client.GetSessionMessages(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "session not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIErrorPlainBody(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := client.ListCompanies(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestContextCancellation(t *testing.T) {
	client, server := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.ListCompanies(ctx); err == nil {
		t.Error("cancelled context should fail the request")
	}
}
