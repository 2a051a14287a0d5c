// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-question command handler.
//
// Command: ask
// Short:   Ask one question about a case and print the answer
//
// Examples:
//   donna ask --case acme "Who owns the billing service?"
//   donna ask --case acme --json "When did we switch to Postgres?"
//
// The answer continues the remembered session for the case, the same
// one the TUI uses, so follow-up questions keep their context.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/chat"
)

// HandleAsk runs the ask command. Returns the process exit code.
func HandleAsk(deps Deps, args Args) int {
	if args.Query == "" {
		return errorf("usage: donna ask --case ID \"question\"")
	}
	caseID, err := requireCase(args)
	if err != nil {
		return errorf("%v", err)
	}
	id, err := requireIdentity(deps)
	if err != nil {
		return errorf("%v", err)
	}

	ctrl := chat.New(context.Background(), deps.Client, deps.Sessions, caseID, id.UserID)
	defer ctrl.Close()
	ctrl.SetWordDelay(0)

	if args.Session != "" {
		if err := ctrl.LoadSession(args.Session); err != nil {
			return errorf("failed to load session %s", args.Session)
		}
	} else {
		ctrl.Resume("")
	}

	if err := ctrl.SendMessage(args.Query); err != nil {
		return errorf("%s", ctrl.Err())
	}

	msgs := ctrl.Messages()
	if len(msgs) == 0 {
		return errorf("no answer received")
	}
	answer := msgs[len(msgs)-1].Content

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]string{
			"case_id":    caseID,
			"session_id": ctrl.SessionID(),
			"question":   args.Query,
			"answer":     answer,
		})
		return 0
	}

	fmt.Print(renderMarkdown(answer))
	if !args.Quiet {
		fmt.Println(MutedStyle.Render("session: " + ctrl.SessionID()))
	}
	return 0
}

// ResolveCaseName fetches a display name for a case id, falling back
// to the id itself. Shared by ask, chat and the TUI launcher.
func ResolveCaseName(ctx context.Context, client *api.Client, caseID string) string {
	meta, err := client.GetCompanyMetadata(ctx, caseID)
	if err != nil || meta.Name == "" {
		return caseID
	}
	return meta.Name
}
