// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// Transcript holds the ordered message list for one chat view.
// The list is replaced wholesale when a session is loaded or cleared;
// individual messages are never deleted.
type Transcript struct {
	Messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{Messages: make([]Message, 0)}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.Messages = append(t.Messages, msg)
}

// ReplaceLast replaces the last message. No-op on an empty transcript.
func (t *Transcript) ReplaceLast(msg Message) {
	if len(t.Messages) == 0 {
		return
	}
	t.Messages[len(t.Messages)-1] = msg
}

// Last returns the most recent message and true, or a zero Message and
// false when the transcript is empty.
func (t *Transcript) Last() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// Replace swaps the whole message list.
func (t *Transcript) Replace(msgs []Message) {
	t.Messages = msgs
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.Messages = make([]Message, 0)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// Snapshot returns a copy of the message list safe to hand to another
// goroutine or a view layer.
func (t *Transcript) Snapshot() []Message {
	out := make([]Message, len(t.Messages))
	copy(out, t.Messages)
	return out
}

// LastUserMessage returns the most recent user message, if any.
func (t *Transcript) LastUserMessage() (Message, bool) {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RoleUser {
			return t.Messages[i], true
		}
	}
	return Message{}, false
}

// UpdatedAt returns the timestamp of the newest message, or the zero
// time for an empty transcript.
func (t *Transcript) UpdatedAt() time.Time {
	if last, ok := t.Last(); ok {
		return last.Timestamp
	}
	return time.Time{}
}
