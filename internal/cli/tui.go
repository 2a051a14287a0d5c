// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - TUI launch handler.
//
// Command: (default) / tui
// Short:   Start the full-screen chat interface
//
// Examples:
//   donna --case acme
//   donna tui --case acme --session session_123
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/donnalabs/donna-tui/internal/chat"
	"github.com/donnalabs/donna-tui/internal/identity"
	chatui "github.com/donnalabs/donna-tui/internal/ui/chat"
)

// HandleTUI launches the Bubble Tea chat interface. Returns exit code.
func HandleTUI(deps Deps, args Args) int {
	if !IsTTY() {
		return errorf("the TUI needs an interactive terminal; try 'donna ask'")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caseID := args.Case
	if caseID == "" {
		picked, err := pickCase(ctx, deps)
		if err != nil {
			return errorf("%v", err)
		}
		caseID = picked
	}

	userID := ""
	if id := deps.Identity.Current(); id != nil {
		userID = id.UserID
	}

	ctrl := chat.New(ctx, deps.Client, deps.Sessions, caseID, userID)
	defer ctrl.Close()
	ctrl.SetWordDelay(deps.Config.TypingDelay())

	view := chatui.New(chatui.Options{
		Controller:   ctrl,
		Client:       deps.Client,
		Identity:     deps.Identity,
		Context:      ctx,
		CaseName:     ResolveCaseName(ctx, deps.Client, caseID),
		Session:      args.Session,
		HistoryLimit: deps.Config.HistoryLimit,
		ShowPanels:   deps.Config.UI.ShowSuggestions || deps.Config.UI.ShowSummary,
	})

	program := tea.NewProgram(view, tea.WithAltScreen())

	// Controller changes arrive on the program's message loop; Send is
	// safe from any goroutine.
	ctrl.SetListener(func() {
		program.Send(chatui.ControllerUpdatedMsg{})
	})

	// Identity changes from outside the TUI (another terminal running
	// 'donna login') retarget the controller. The controller is safe to
	// drive from any goroutine; its listener pushes the result back
	// into the program loop.
	unsubscribe := deps.Identity.Subscribe(func(id *identity.Identity) {
		userID := ""
		if id != nil {
			userID = id.UserID
		}
		ctrl.SetUser(userID)
		go ctrl.Resume("")
	})
	defer unsubscribe()

	if _, err := program.Run(); err != nil {
		return errorf("TUI error: %v", err)
	}
	return 0
}

// pickCase resolves a case when none was passed: a single case is
// auto-selected, multiple cases print a list to choose from.
func pickCase(ctx context.Context, deps Deps) (string, error) {
	companies, err := deps.Client.ListCompanies(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list cases (is the backend at %s running?): %w",
			deps.Client.BaseURL(), err)
	}
	switch len(companies) {
	case 0:
		return "", fmt.Errorf("no cases exist yet; create one with 'donna cases create ID NAME'")
	case 1:
		return companies[0].CompanyID, nil
	default:
		fmt.Println(TitleStyle.Render("Multiple cases found; pass --case ID:"))
		for _, c := range companies {
			fmt.Printf("  %s  %s\n", ValueStyle.Render(c.CompanyID), MutedStyle.Render(c.Name))
		}
		return "", fmt.Errorf("no case selected")
	}
}
