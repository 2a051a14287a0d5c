// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// identity_cmd.go - Identity command handlers (login, whoami, logout).
//
// Examples:
//   donna login
//   donna whoami
//   donna logout
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/donnalabs/donna-tui/internal/identity"
)

// HandleLogin registers a user with the backend and stores the
// identity locally. Re-running switches identities.
func HandleLogin(deps Deps, args Args) int {
	if !IsTTY() {
		return errorf("login needs an interactive terminal")
	}

	if cur := deps.Identity.Current(); cur != nil {
		fmt.Println(MutedStyle.Render("Currently signed in as " + cur.Name + " <" + cur.Email + ">"))
	}

	name, err := promptLine("Name: ")
	if err != nil || name == "" {
		return errorf("a name is required")
	}
	email, err := promptLine("Email: ")
	if err != nil || email == "" || !strings.Contains(email, "@") {
		return errorf("a valid email is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	userID, err := deps.Client.RegisterUser(ctx, name, email)
	if err != nil {
		return errorf("registration failed: %v", err)
	}

	id := identity.Identity{UserID: userID, Name: name, Email: email}
	if err := deps.Identity.Save(id); err != nil {
		return errorf("failed to store identity: %v", err)
	}

	fmt.Println(SuccessStyle.Render("Signed in as " + name))
	if !args.Quiet {
		fmt.Println(MutedStyle.Render("user id: " + userID))
	}
	return 0
}

// HandleWhoami prints the stored identity.
func HandleWhoami(deps Deps, args Args) int {
	id := deps.Identity.Current()
	if id == nil {
		fmt.Println(MutedStyle.Render("Not signed in. Run 'donna login'."))
		return 1
	}
	fmt.Println(LabelStyle.Render("Name") + ValueStyle.Render(id.Name))
	fmt.Println(LabelStyle.Render("Email") + ValueStyle.Render(id.Email))
	fmt.Println(LabelStyle.Render("User ID") + ValueStyle.Render(id.UserID))
	return 0
}

// HandleLogout clears the stored identity. Local session pointers are
// kept; they are keyed by user id and become reachable again on the
// next login with the same identity.
func HandleLogout(deps Deps, args Args) int {
	if deps.Identity.Current() == nil {
		fmt.Println(MutedStyle.Render("Not signed in."))
		return 0
	}
	if err := deps.Identity.Clear(); err != nil {
		return errorf("failed to clear identity: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Signed out."))
	return 0
}
