// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/donnalabs/donna-tui/internal/ui/styles"
	"github.com/donnalabs/donna-tui/internal/util"
)

// SuggestionsPanel renders the suggested-questions list. The selected
// index highlights one row; pass -1 for none.
func SuggestionsPanel(questions []string, selected, width int) string {
	if len(questions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Suggested questions"))
	b.WriteString("\n")
	for i, q := range questions {
		q = util.TruncateWidth(q, width-6)
		if i == selected {
			b.WriteString(styles.Selected.Render(fmt.Sprintf("> %s", q)))
		} else {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("  %s", q)))
		}
		if i < len(questions)-1 {
			b.WriteString("\n")
		}
	}
	return styles.PanelBorder.Width(width).Render(b.String())
}

// SummaryPanel renders the case summary block, or "" when the summary
// is empty.
func SummaryPanel(caseName, summary string, width int) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}

	var b strings.Builder
	title := "About this case"
	if caseName != "" {
		title = "About " + caseName
	}
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render(wrap(summary, width-4)))
	return styles.PanelBorder.Width(width).Render(b.String())
}

// HistoryRow renders one session row in the history overlay.
func HistoryRow(title, subtitle string, selected bool, width int) string {
	title = util.TruncateWidth(title, width-4)
	subtitle = util.TruncateWidth(subtitle, width-4)
	if selected {
		return styles.Selected.Render("> "+title) + "\n" +
			styles.Muted.Render("  "+subtitle)
	}
	return "  " + styles.MessageBody.Render(title) + "\n" +
		styles.Muted.Render("  "+subtitle)
}

// wrap does simple word wrapping at the given width.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if i > 0 {
			if line+1+len(w) > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}
