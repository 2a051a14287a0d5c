// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// =============================================================================
// WIRE TYPES
// =============================================================================

// Company is one entry from GET /api/companies.
type Company struct {
	CompanyID    string `json:"company_id"`
	Name         string `json:"name"`
	ShortSummary string `json:"short_summary"`
}

// CompanyMetadata is the full case record from
// GET /api/companies/{id}/metadata.
type CompanyMetadata struct {
	CompanyID          string   `json:"company_id"`
	Name               string   `json:"name"`
	ShortSummary       string   `json:"short_summary"`
	LongSummary        string   `json:"long_summary"`
	SuggestedQuestions []string `json:"suggested_questions"`
	CreatedAt          string   `json:"created_at"`
}

// ChatMessage is a message as the backend stores it.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatSession is a server-owned conversation record. This client never
// mutates one directly; turns are appended indirectly through the
// contextual-query endpoint.
type ChatSession struct {
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id"`
	CompanyID string        `json:"company_id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// IngestMessage is one raw message in an ingest payload.
type IngestMessage struct {
	Author    string   `json:"author"`
	Timestamp string   `json:"timestamp"`
	Text      string   `json:"text"`
	Reactions []string `json:"reactions"`
}

// IngestThread is one conversation thread in an ingest payload.
type IngestThread struct {
	Source       string          `json:"source"`
	Channel      string          `json:"channel"`
	ThreadTitle  string          `json:"thread_title"`
	KeyDecisions string          `json:"key_decisions"`
	Warnings     string          `json:"warnings"`
	Severity     string          `json:"severity"`
	Messages     []IngestMessage `json:"messages"`
}

// IngestRequest is the body of POST /api/companies/{id}/ingest.
type IngestRequest struct {
	Data []IngestThread `json:"data"`
}

// =============================================================================
// RESPONSE ENVELOPES
// =============================================================================

type companiesResponse struct {
	Success   bool      `json:"success"`
	Companies []Company `json:"companies"`
}

type metadataResponse struct {
	Success  bool            `json:"success"`
	Metadata CompanyMetadata `json:"metadata"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
}

type chatHistoryResponse struct {
	Success  bool          `json:"success"`
	UserID   string        `json:"user_id"`
	Sessions []ChatSession `json:"sessions"`
	Count    int           `json:"count"`
}

type sessionResponse struct {
	Success bool        `json:"success"`
	Session ChatSession `json:"session"`
}

type messagesResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
