// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/donnalabs/donna-tui/internal/ui/styles"
)

// IdentityForm is the sign-in modal: name and email inputs plus a
// submit action. It is a self-contained sub-model the chat view
// overlays when no identity exists.
type IdentityForm struct {
	name  textinput.Model
	email textinput.Model
	focus int
	err   string
}

// NewIdentityForm creates the form with the name field focused.
func NewIdentityForm() IdentityForm {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 80
	name.Width = 36
	name.Focus()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	email.Width = 36

	return IdentityForm{name: name, email: email}
}

// Values returns the trimmed form values.
func (f IdentityForm) Values() (name, email string) {
	return strings.TrimSpace(f.name.Value()), strings.TrimSpace(f.email.Value())
}

// SetError displays a validation or submit error inside the modal.
func (f *IdentityForm) SetError(msg string) {
	f.err = msg
}

// Update handles key events. Submit reports whether enter was pressed
// on a complete form.
func (f IdentityForm) Update(msg tea.Msg) (IdentityForm, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			f.focus = (f.focus + 1) % 2
			if f.focus == 0 {
				f.name.Focus()
				f.email.Blur()
			} else {
				f.name.Blur()
				f.email.Focus()
			}
			return f, nil, false

		case "enter":
			name, email := f.Values()
			if name == "" || email == "" {
				f.err = "Both name and email are required."
				return f, nil, false
			}
			if !strings.Contains(email, "@") {
				f.err = "That doesn't look like an email address."
				return f, nil, false
			}
			f.err = ""
			return f, nil, true
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.email, cmd = f.email.Update(msg)
	}
	return f, cmd, false
}

// View renders the modal box.
func (f IdentityForm) View() string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Who are you?"))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Donna keeps your conversations per person."))
	b.WriteString("\n\n")
	b.WriteString(f.name.View())
	b.WriteString("\n")
	b.WriteString(f.email.View())
	if f.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ErrorBanner.Render(f.err))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Muted.Render("tab switch field  enter continue"))
	return styles.PanelBorder.Render(b.String())
}
