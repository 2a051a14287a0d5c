// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/config"
	"github.com/donnalabs/donna-tui/internal/identity"
	"github.com/donnalabs/donna-tui/internal/sessiondir"
)

// Deps bundles the shared dependencies every command handler needs.
// main constructs one and threads it through dispatch.
type Deps struct {
	Config   *config.Config
	Client   *api.Client
	Identity *identity.Store
	Sessions *sessiondir.Directory
}

// requireCase resolves the case id from flags, erroring out with a
// hint when absent.
func requireCase(args Args) (string, error) {
	if args.Case != "" {
		return args.Case, nil
	}
	return "", fmt.Errorf("no case selected; pass --case ID (see 'donna cases list')")
}

// requireIdentity returns the stored identity or an error telling the
// user to log in.
func requireIdentity(deps Deps) (*identity.Identity, error) {
	id := deps.Identity.Current()
	if id == nil {
		return nil, fmt.Errorf("not signed in; run 'donna login' first")
	}
	return id, nil
}

// renderMarkdown renders markdown for terminal display. Falls back to
// the raw text when rendering fails or output is piped.
func renderMarkdown(text string) string {
	if !IsStdoutTTY() {
		return text
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-2),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// promptLine reads one line from stdin with a label. Used by the login
// flow; the liner REPL handles interactive chat separately.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// errorf prints a styled error to stderr and returns exit code 1.
func errorf(format string, a ...interface{}) int {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render(fmt.Sprintf(format, a...)))
	return 1
}
