// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Shared styles used across views.
var (
	// Header is the top bar with the case name.
	Header = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Padding(0, 1)

	// HeaderHint renders secondary header text.
	HeaderHint = lipgloss.NewStyle().
			Foreground(TextMuted)

	// UserName labels user messages.
	UserName = lipgloss.NewStyle().
			Foreground(UserLabel).
			Bold(true)

	// AssistantName labels assistant messages.
	AssistantName = lipgloss.NewStyle().
			Foreground(AssistantLabel).
			Bold(true)

	// MessageBody renders message content.
	MessageBody = lipgloss.NewStyle().
			Foreground(TextPrimary)

	// Timestamp renders message times.
	Timestamp = lipgloss.NewStyle().
			Foreground(TextMuted)

	// ErrorBanner renders a user-visible error line.
	ErrorBanner = lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true)

	// StatusBar is the bottom status line.
	StatusBar = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1)

	// PanelTitle heads the suggestions and summary panels.
	PanelTitle = lipgloss.NewStyle().
			Foreground(Violet).
			Bold(true)

	// PanelBorder frames side panels and modals.
	PanelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).
			Padding(0, 1)

	// Selected highlights the focused list row.
	Selected = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	// Muted renders dim helper text.
	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Success renders confirmation text.
	Success = lipgloss.NewStyle().
			Foreground(Emerald)
)
