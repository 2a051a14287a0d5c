// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sessiondir is the local session directory: a durable mapping
// from (case, user) to the active conversation session, plus a flat
// index of session metadata.
//
// The directory is a client-side cache, not authoritative state. A
// pointer may refer to a session the server has since forgotten;
// callers must treat a failed load as "no session", not as a fault.
package sessiondir

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/donnalabs/donna-tui/internal/util"
)

// indexFile is the single serialized record holding all SessionInfo
// entries.
const indexFile = "index.json"

// SessionInfo is one entry in the local session index.
type SessionInfo struct {
	SessionID   string    `json:"session_id"`
	CaseID      string    `json:"case_id"`
	UserID      string    `json:"user_id"`
	LastUpdated time.Time `json:"last_updated"`
}

// Directory persists session pointers under a base directory, one
// pointer file per (case, user) pair plus the shared index record.
type Directory struct {
	BaseDir string
}

// New creates a directory rooted at the default DONNA data dir
// (~/.donna/sessions).
func New() (*Directory, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewWithDir(filepath.Join(homeDir, ".donna", "sessions"))
}

// NewWithDir creates a directory rooted at a custom path.
func NewWithDir(baseDir string) (*Directory, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Directory{BaseDir: baseDir}, nil
}

// =============================================================================
// POINTER OPERATIONS
// =============================================================================

// Get returns the active session id for a (case, user) pair.
// Pure local lookup; the second return is false when nothing is stored.
func (d *Directory) Get(caseID, userID string) (string, bool) {
	data, err := os.ReadFile(d.pointerPath(caseID, userID))
	if err != nil {
		return "", false
	}
	sessionID := strings.TrimSpace(string(data))
	if sessionID == "" {
		return "", false
	}
	return sessionID, true
}

// Set stores the active session id for a (case, user) pair and upserts
// the matching index entry. Idempotent: an existing index entry for the
// same session id is replaced, with LastUpdated refreshed.
func (d *Directory) Set(caseID, userID, sessionID string) error {
	if err := util.AtomicWriteFile(d.pointerPath(caseID, userID), []byte(sessionID), 0644); err != nil {
		return err
	}

	entries := d.readIndex()

	// Remove-then-reinsert keeps at most one entry per session id.
	kept := entries[:0]
	for _, e := range entries {
		if e.SessionID != sessionID {
			kept = append(kept, e)
		}
	}
	kept = append(kept, SessionInfo{
		SessionID:   sessionID,
		CaseID:      caseID,
		UserID:      userID,
		LastUpdated: time.Now(),
	})

	return d.writeIndex(kept)
}

// Clear removes the pointer for a (case, user) pair and, when one was
// stored, its index entry. No-op when nothing was stored.
func (d *Directory) Clear(caseID, userID string) error {
	sessionID, ok := d.Get(caseID, userID)
	if !ok {
		return nil
	}

	if err := os.Remove(d.pointerPath(caseID, userID)); err != nil && !os.IsNotExist(err) {
		return err
	}

	entries := d.readIndex()
	kept := entries[:0]
	for _, e := range entries {
		if e.SessionID != sessionID {
			kept = append(kept, e)
		}
	}
	return d.writeIndex(kept)
}

// =============================================================================
// INDEX OPERATIONS
// =============================================================================

// All returns every indexed session belonging to the given user.
// Ordering is left to the caller. Never fails: a corrupt index reads
// as empty.
func (d *Directory) All(userID string) []SessionInfo {
	entries := d.readIndex()
	out := make([]SessionInfo, 0, len(entries))
	for _, e := range entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// readIndex loads the index record. Decode failures are logged and
// treated as an empty index; this must never propagate to a caller.
func (d *Directory) readIndex() []SessionInfo {
	data, err := os.ReadFile(filepath.Join(d.BaseDir, indexFile))
	if err != nil {
		return nil
	}

	var entries []SessionInfo
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("session index corrupt, treating as empty: %v", err)
		return nil
	}
	return entries
}

func (d *Directory) writeIndex(entries []SessionInfo) error {
	if entries == nil {
		entries = []SessionInfo{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(filepath.Join(d.BaseDir, indexFile), data, 0644)
}

// =============================================================================
// HELPERS
// =============================================================================

// pointerPath maps a (case, user) pair to its pointer file.
func (d *Directory) pointerPath(caseID, userID string) string {
	return filepath.Join(d.BaseDir, sanitizeKey(caseID)+"--"+sanitizeKey(userID)+".session")
}

// sanitizeKey keeps pointer filenames portable. Case and user ids are
// backend-generated slugs, so this is belt-and-braces rather than an
// escape scheme.
func sanitizeKey(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
