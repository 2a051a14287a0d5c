// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// cases.go - Case management command handlers.
//
// Command: cases
// Short:   List, create and inspect cases
//
// Examples:
//   donna cases list
//   donna cases create acme "Acme Corp"
//   donna cases show acme
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/donnalabs/donna-tui/internal/util"
)

// HandleCases dispatches the cases subcommands. Returns the exit code.
func HandleCases(deps Deps, args Args) int {
	switch args.Subcommand {
	case "", "list", "ls":
		return casesList(deps, args)
	case "create", "new":
		return casesCreate(deps, args)
	case "show", "info":
		return casesShow(deps, args)
	default:
		return errorf("unknown cases subcommand %q (list, create, show)", args.Subcommand)
	}
}

func casesList(deps Deps, args Args) int {
	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	companies, err := deps.Client.ListCompanies(ctx)
	if err != nil {
		return errorf("failed to list cases: %v", err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(companies)
		return 0
	}

	if len(companies) == 0 {
		fmt.Println(MutedStyle.Render("No cases yet. Create one with 'donna cases create ID NAME'."))
		return 0
	}

	fmt.Println(TitleStyle.Render("Cases"))
	for _, c := range companies {
		summary := util.Truncate(c.ShortSummary, GetTerminalWidth()-30)
		fmt.Printf("  %s  %s\n", ValueStyle.Render(util.PadRight(c.CompanyID, 20)), c.Name)
		if summary != "" {
			fmt.Printf("  %s  %s\n", strings.Repeat(" ", 20), MutedStyle.Render(summary))
		}
	}
	return 0
}

func casesCreate(deps Deps, args Args) int {
	if len(args.Raw) < 2 {
		return errorf("usage: donna cases create ID NAME")
	}
	caseID, name := args.Raw[0], strings.Join(args.Raw[1:], " ")

	id, err := requireIdentity(deps)
	if err != nil {
		return errorf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	if err := deps.Client.CreateCompany(ctx, caseID, name, id.UserID); err != nil {
		return errorf("failed to create case: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Created case " + caseID))
	fmt.Println(MutedStyle.Render("Ingest data with 'donna ingest --case " + caseID + " file.json'"))
	return 0
}

func casesShow(deps Deps, args Args) int {
	caseID := args.Case
	if caseID == "" && len(args.Raw) > 0 {
		caseID = args.Raw[0]
	}
	if caseID == "" {
		return errorf("usage: donna cases show ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	meta, err := deps.Client.GetCompanyMetadata(ctx, caseID)
	if err != nil {
		return errorf("failed to fetch case %s: %v", caseID, err)
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(meta)
		return 0
	}

	fmt.Println(TitleStyle.Render(meta.Name))
	fmt.Println(LabelStyle.Render("Case ID") + ValueStyle.Render(meta.CompanyID))
	if meta.CreatedAt != "" {
		fmt.Println(LabelStyle.Render("Created") + ValueStyle.Render(meta.CreatedAt))
	}
	if meta.LongSummary != "" {
		fmt.Println()
		fmt.Print(renderMarkdown(meta.LongSummary))
	} else if meta.ShortSummary != "" {
		fmt.Println()
		fmt.Println(ValueStyle.Render(meta.ShortSummary))
	}
	if len(meta.SuggestedQuestions) > 0 {
		fmt.Println()
		fmt.Println(TitleStyle.Render("Suggested questions"))
		for _, q := range meta.SuggestedQuestions {
			fmt.Println("  - " + ValueStyle.Render(q))
		}
	}
	return 0
}
