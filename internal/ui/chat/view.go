// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/identity"
	"github.com/donnalabs/donna-tui/internal/model"
	"github.com/donnalabs/donna-tui/internal/ui/components"
	"github.com/donnalabs/donna-tui/internal/ui/styles"
	"github.com/donnalabs/donna-tui/internal/util"
)

const (
	// panelWidth is the fixed width of the side panel column.
	panelWidth = 38

	// panelMinTermWidth is the terminal width below which panels hide.
	panelMinTermWidth = 110
)

// View renders the complete chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "\n  " + m.spin.View() + " starting donna..."
	}

	if m.needIdentity {
		return m.centerOverlay(m.form.View())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	main := m.viewport.View()
	if m.showHistory {
		main = m.renderHistoryOverlay()
	}

	if m.panelsVisible() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, " ", m.renderPanels())
	}
	b.WriteString(main)
	b.WriteString("\n")

	if banner := components.ErrorBanner(m.errText, m.width); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")

	b.WriteString(components.StatusBar(components.StatusBarState{
		UserName:  identityName(m.ids.Current()),
		SessionID: m.sessionID,
		Sending:   m.sending,
		Loading:   m.loading,
		Width:     m.width,
	}))
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.Header.Render("donna")
	name := styles.HeaderHint.Render(" / " + m.caseName)
	return title + name
}

func (m *Model) renderInput() string {
	prompt := "> "
	if m.sending {
		prompt = m.spin.View() + " "
	}
	return "  " + prompt + m.input.View()
}

// renderTranscript renders every message as a labeled block.
func (m *Model) renderTranscript() string {
	if len(m.messages) == 0 {
		if m.loading {
			return "\n  " + m.spin.View() + " loading session..."
		}
		return "\n  " + styles.Muted.Render("Ask a question to get started. Tab cycles suggestions.")
	}

	width := m.viewport.Width - 4
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg, width))
	}
	return b.String()
}

func (m *Model) renderMessage(msg model.Message, width int) string {
	label := styles.AssistantName.Render(msg.Role.DisplayName())
	if msg.Role == model.RoleUser {
		label = styles.UserName.Render(msg.Role.DisplayName())
	}

	ts := ""
	if !msg.Timestamp.IsZero() {
		ts = "  " + styles.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	body := msg.Content
	if msg.IsEmpty() && m.sending {
		body = m.spin.View()
	}
	body = styles.MessageBody.Width(width).Render(body)

	return label + ts + "\n" + body
}

func (m *Model) renderPanels() string {
	var parts []string
	if qs := m.suggestions(); len(qs) > 0 {
		parts = append(parts, components.SuggestionsPanel(qs, m.suggestIdx, panelWidth))
	}
	if m.meta != nil {
		if p := components.SummaryPanel(m.meta.Name, m.meta.ShortSummary, panelWidth); p != "" {
			parts = append(parts, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHistoryOverlay() string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Previous conversations"))
	b.WriteString("\n\n")

	switch {
	case m.historyLoading:
		b.WriteString(m.spin.View() + " loading history...")
	case len(m.history) == 0:
		b.WriteString(styles.Muted.Render("No previous conversations for this case."))
	default:
		for i, s := range m.history {
			b.WriteString(components.HistoryRow(
				sessionTitle(s), sessionSubtitle(s),
				i == m.historyCursor, m.viewport.Width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("enter open  esc close"))

	box := styles.PanelBorder.Width(m.viewport.Width - 4).Render(b.String())
	return lipgloss.Place(m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) centerOverlay(content string) string {
	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center, content)
}

// sessionTitle derives a display title from the first user message.
func sessionTitle(s api.ChatSession) string {
	for _, msg := range s.Messages {
		if msg.Role == string(model.RoleUser) && msg.Content != "" {
			return util.Truncate(util.FirstLine(msg.Content), 60)
		}
	}
	return s.SessionID
}

func sessionSubtitle(s api.ChatSession) string {
	when := s.UpdatedAt
	if t, err := time.Parse(time.RFC3339, s.UpdatedAt); err == nil {
		when = t.Format("Jan 2 15:04")
	}
	return when
}

func identityName(id *identity.Identity) string {
	if id == nil {
		return ""
	}
	return id.Name
}
