// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/donnalabs/donna-tui/internal/identity"
)

// Commands wrap every suspending controller or API call so the Bubble
// Tea runtime owns the goroutines. Transcript updates arrive separately
// through the controller listener as ControllerUpdatedMsg; these
// commands only report completion.

func (m *Model) resumeCmd(explicitSessionID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Resume(explicitSessionID)
		return resumeDoneMsg{}
	}
}

func (m *Model) sendCmd(content string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return sendDoneMsg{err: ctrl.SendMessage(content)}
	}
}

func (m *Model) loadSessionCmd(sessionID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return sessionLoadedMsg{err: ctrl.LoadSession(sessionID)}
	}
}

func (m *Model) loadMetadataCmd() tea.Cmd {
	client, ctx, caseID := m.api, m.ctx, m.ctrl.CaseID()
	return func() tea.Msg {
		meta, err := client.GetCompanyMetadata(ctx, caseID)
		return metadataLoadedMsg{meta: meta, err: err}
	}
}

func (m *Model) loadHistoryCmd() tea.Cmd {
	client, ctx := m.api, m.ctx
	userID, caseID := m.ctrl.UserID(), m.ctrl.CaseID()
	limit := m.historyLimit
	return func() tea.Msg {
		sessions, err := client.GetChatHistory(ctx, userID, caseID, limit)
		return historyLoadedMsg{sessions: sessions, err: err}
	}
}

// registerIdentityCmd creates the backend user and persists the
// identity locally. The store fan-out runs from here, not from Update;
// subscribers outside the TUI hear about it the same way.
func (m *Model) registerIdentityCmd(name, email string) tea.Cmd {
	client, ctx, store := m.api, m.ctx, m.ids
	return func() tea.Msg {
		userID, err := client.RegisterUser(ctx, name, email)
		if err != nil {
			return identitySavedMsg{err: err}
		}
		id := identity.Identity{UserID: userID, Name: name, Email: email}
		if err := store.Save(id); err != nil {
			return identitySavedMsg{err: err}
		}
		return identitySavedMsg{id: id}
	}
}
