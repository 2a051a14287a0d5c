// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides small reusable render helpers for the
// donna TUI. Components are pure functions from state to string; the
// chat model composes them.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/donnalabs/donna-tui/internal/ui/styles"
	"github.com/donnalabs/donna-tui/internal/util"
)

// StatusBarState holds everything the status line displays.
type StatusBarState struct {
	UserName  string
	SessionID string
	Sending   bool
	Loading   bool
	Width     int
}

// StatusBar renders the bottom status line: identity on the left,
// session and activity on the right.
func StatusBar(s StatusBarState) string {
	left := "not signed in"
	if s.UserName != "" {
		left = s.UserName
	}

	right := "new session"
	if s.SessionID != "" {
		right = util.Truncate(s.SessionID, 28)
	}
	switch {
	case s.Loading:
		right = "loading..."
	case s.Sending:
		right = "thinking..."
	}

	bar := left + "  |  " + right + "  |  ctrl+n new  ctrl+h history  ctrl+c quit"
	if s.Width > 0 {
		bar = util.TruncateWidth(bar, s.Width-2)
	}
	return styles.StatusBar.Render(bar)
}

// ErrorBanner renders a one-line error notice, or "" when the text is
// empty.
func ErrorBanner(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width > 0 {
		text = util.TruncateWidth(text, width-2)
	}
	return styles.ErrorBanner.Render("! " + text)
}

// Divider renders a horizontal rule of the given width.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(strings.Repeat("─", width))
}
