// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/identity"
)

// ControllerUpdatedMsg is sent whenever the controller's state changes.
// The model re-reads the controller on receipt; the message itself
// carries nothing.
type ControllerUpdatedMsg struct{}

// metadataLoadedMsg delivers the case metadata fetch result.
type metadataLoadedMsg struct {
	meta *api.CompanyMetadata
	err  error
}

// historyLoadedMsg delivers the chat-history listing.
type historyLoadedMsg struct {
	sessions []api.ChatSession
	err      error
}

// sendDoneMsg reports a finished SendMessage call.
type sendDoneMsg struct {
	err error
}

// resumeDoneMsg reports a finished Resume call.
type resumeDoneMsg struct{}

// sessionLoadedMsg reports a finished explicit LoadSession call.
type sessionLoadedMsg struct {
	err error
}

// identitySavedMsg delivers the result of registering a new identity.
type identitySavedMsg struct {
	id  identity.Identity
	err error
}
