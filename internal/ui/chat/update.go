// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ControllerUpdatedMsg:
		m.refresh()
		return m, nil

	case resumeDoneMsg:
		m.refresh()
		return m, nil

	case sendDoneMsg:
		// Controller errors surface through errText; nothing extra here.
		m.refresh()
		return m, nil

	case sessionLoadedMsg:
		m.refresh()
		return m, nil

	case metadataLoadedMsg:
		if msg.err == nil {
			m.meta = msg.meta
			m.panelsReady = true
		}
		return m, nil

	case historyLoadedMsg:
		m.historyLoading = false
		if msg.err != nil {
			m.showHistory = false
			return m, nil
		}
		m.history = msg.sessions
		m.historyCursor = 0
		return m, nil

	case identitySavedMsg:
		if msg.err != nil {
			m.form.SetError("Sign-in failed. Is the backend running?")
			return m, nil
		}
		m.needIdentity = false
		m.input.Focus()
		m.ctrl.SetUser(msg.id.UserID)
		return m, m.resumeCmd("")

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The identity modal swallows everything else until it completes.
	if m.needIdentity {
		var cmd tea.Cmd
		var submit bool
		m.form, cmd, submit = m.form.Update(msg)
		if submit {
			name, email := m.form.Values()
			return m, m.registerIdentityCmd(name, email)
		}
		return m, cmd
	}

	if m.showHistory {
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		content := m.input.Value()
		if content == "" || m.sending || m.loading {
			return m, nil
		}
		m.input.Reset()
		return m, m.sendCmd(content)

	case key.Matches(msg, m.keys.NewSession):
		m.ctrl.StartNewSession()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.showHistory = true
		m.historyLoading = true
		return m, m.loadHistoryCmd()

	case key.Matches(msg, m.keys.Panels):
		m.showPanels = !m.showPanels
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Suggest):
		if qs := m.suggestions(); len(qs) > 0 {
			m.suggestIdx = (m.suggestIdx + 1) % len(qs)
			m.input.SetValue(qs[m.suggestIdx])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.History):
		m.showHistory = false
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.historyCursor > 0 {
			m.historyCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.historyCursor < len(m.history)-1 {
			m.historyCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.historyLoading || len(m.history) == 0 {
			return m, nil
		}
		chosen := m.history[m.historyCursor].SessionID
		m.showHistory = false
		return m, m.loadSessionCmd(chosen)
	}
	return m, nil
}

// layout recomputes viewport dimensions after a resize or panel toggle.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	// Header, error line, input, status bar.
	chrome := 4
	if m.errText != "" {
		chrome++
	}

	vpWidth := m.width
	if m.panelsVisible() {
		vpWidth = m.width - panelWidth - 1
	}
	vpHeight := m.height - chrome
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.width - 6

	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// panelsVisible reports whether the side panels render at this size.
func (m *Model) panelsVisible() bool {
	return m.showPanels && m.panelsReady && m.width >= panelMinTermWidth
}
