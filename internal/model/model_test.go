// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Donna"},
		{Role("system"), "system"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "hello")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID %q missing msg_ prefix", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestNewAssistantPlaceholder(t *testing.T) {
	msg := NewAssistantPlaceholder()

	if msg.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", msg.Role, RoleAssistant)
	}
	if !msg.IsEmpty() {
		t.Errorf("placeholder should start empty, got %q", msg.Content)
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("x")
		if seen[msg.ID] {
			t.Fatalf("duplicate ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestMessagePreview(t *testing.T) {
	msg := Message{Content: "line one\nline two with more text"}
	got := msg.Preview(15)
	if strings.Contains(got, "\n") {
		t.Errorf("preview contains newline: %q", got)
	}
	if len([]rune(got)) > 15 {
		t.Errorf("preview too long: %q", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscriptAppendAndLast(t *testing.T) {
	tr := NewTranscript()

	if _, ok := tr.Last(); ok {
		t.Error("Last on empty transcript should report false")
	}

	tr.Append(NewUserMessage("first"))
	tr.Append(NewUserMessage("second"))

	last, ok := tr.Last()
	if !ok || last.Content != "second" {
		t.Errorf("Last = %q, want %q", last.Content, "second")
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
}

func TestTranscriptReplaceLast(t *testing.T) {
	tr := NewTranscript()

	// No-op on empty.
	tr.ReplaceLast(NewUserMessage("ghost"))
	if tr.Len() != 0 {
		t.Fatalf("ReplaceLast on empty transcript appended a message")
	}

	tr.Append(NewUserMessage("question"))
	placeholder := NewAssistantPlaceholder()
	tr.Append(placeholder)

	placeholder.Content = "answer"
	tr.ReplaceLast(placeholder)

	last, _ := tr.Last()
	if last.Content != "answer" {
		t.Errorf("Content = %q, want %q", last.Content, "answer")
	}
	if last.ID != placeholder.ID {
		t.Error("ReplaceLast changed the message identity")
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
}

func TestTranscriptSnapshotIsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("original"))

	snap := tr.Snapshot()
	snap[0].Content = "mutated"

	if tr.Messages[0].Content != "original" {
		t.Error("mutating a snapshot leaked into the transcript")
	}
}

func TestTranscriptClearAndReplace(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("a"))
	tr.Clear()
	if tr.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", tr.Len())
	}

	tr.Replace([]Message{NewUserMessage("x"), NewUserMessage("y")})
	if tr.Len() != 2 {
		t.Errorf("Len after Replace = %d, want 2", tr.Len())
	}
}

func TestTranscriptLastUserMessage(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("question"))
	assistant := NewAssistantPlaceholder()
	assistant.Content = "answer"
	tr.Append(assistant)

	msg, ok := tr.LastUserMessage()
	if !ok || msg.Content != "question" {
		t.Errorf("LastUserMessage = %q, want %q", msg.Content, "question")
	}
}
