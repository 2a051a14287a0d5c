// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Chat history and local session listing handlers.
//
// Command: history
// Short:   List previous chat sessions from the backend
//
// Command: sessions
// Short:   List and manage locally remembered sessions
//
// Examples:
//   donna history --case acme
//   donna sessions
//   donna sessions clear --case acme
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/model"
	"github.com/donnalabs/donna-tui/internal/util"
)

// HandleHistory lists backend chat sessions for a case.
func HandleHistory(deps Deps, args Args) int {
	caseID, err := requireCase(args)
	if err != nil {
		return errorf("%v", err)
	}
	id, err := requireIdentity(deps)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	sessions, err := deps.Client.GetChatHistory(ctx, id.UserID, caseID, deps.Config.HistoryLimit)
	if err != nil {
		return errorf("failed to fetch history: %v", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(sessions)
		return 0
	}

	if len(sessions) == 0 {
		fmt.Println(MutedStyle.Render("No previous conversations for this case."))
		return 0
	}

	fmt.Println(TitleStyle.Render("Previous conversations"))
	for _, s := range sessions {
		title := historyTitle(s)
		when := formatWhen(s.UpdatedAt)
		fmt.Printf("  %s  %s\n", ValueStyle.Render(title), MutedStyle.Render(when))
		fmt.Printf("    %s\n", MutedStyle.Render(s.SessionID))
	}
	fmt.Println()
	fmt.Println(MutedStyle.Render("Resume one with 'donna chat --case " + caseID + " --session ID'"))
	return 0
}

// HandleSessions lists or clears the local session directory.
func HandleSessions(deps Deps, args Args) int {
	id, err := requireIdentity(deps)
	if err != nil {
		return errorf("%v", err)
	}

	switch args.Subcommand {
	case "", "list", "ls":
		return sessionsList(deps, args, id.UserID)
	case "clear", "rm":
		return sessionsClear(deps, args, id.UserID)
	default:
		return errorf("unknown sessions subcommand %q (list, clear)", args.Subcommand)
	}
}

func sessionsList(deps Deps, args Args, userID string) int {
	entries := deps.Sessions.All(userID)

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(entries)
		return 0
	}

	if len(entries) == 0 {
		fmt.Println(MutedStyle.Render("No remembered sessions."))
		return 0
	}

	fmt.Println(TitleStyle.Render("Remembered sessions"))
	for _, e := range entries {
		fmt.Printf("  %s  %s  %s\n",
			ValueStyle.Render(util.PadRight(e.CaseID, 20)),
			MutedStyle.Render(util.Truncate(e.SessionID, 32)),
			MutedStyle.Render(e.LastUpdated.Format("Jan 2 15:04")))
	}
	return 0
}

func sessionsClear(deps Deps, args Args, userID string) int {
	caseID, err := requireCase(args)
	if err != nil {
		return errorf("%v", err)
	}
	if err := deps.Sessions.Clear(caseID, userID); err != nil {
		return errorf("failed to clear session pointer: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Cleared the remembered session for " + caseID))
	return 0
}

// historyTitle derives a row title from the first user message.
func historyTitle(s api.ChatSession) string {
	for _, m := range s.Messages {
		if m.Role == string(model.RoleUser) && m.Content != "" {
			return util.Truncate(util.FirstLine(m.Content), 56)
		}
	}
	return s.SessionID
}

func formatWhen(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("Jan 2 15:04")
	}
	return raw
}
