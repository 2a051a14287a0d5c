// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for donna.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdCases
	CmdIngest
	CmdHistory
	CmdSessions
	CmdLogin
	CmdWhoami
	CmdLogout
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Case    string
	Session string

	// Command-specific
	Query      string
	File       string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `donna - organizational memory assistant

Donna answers questions about a case (a company or project) from the
conversations, decisions and documents ingested into its backend.

Usage:
  donna                        Start the chat TUI (default)
  donna ask "question"         Ask a single question, print the answer
  donna chat                   Interactive chat in the terminal
  donna cases [list|create|show]  Case management
  donna ingest <file.json>     Ingest a conversation export into a case
  donna history                List previous chat sessions (backend)
  donna sessions               List locally remembered sessions
  donna login                  Register or switch identity
  donna whoami                 Show the current identity
  donna logout                 Clear the stored identity
  donna config [show|set|path] Configuration
  donna version                Show version

Global Flags:
  --case ID        Case to operate on (most commands need one)
  --session ID     Resume an explicit session (tui, chat)
  --json           Machine-readable output where supported
  -q, --quiet      Minimal output
  -v, --verbose    Debug output

Examples:
  donna --case acme                        Chat about the acme case
  donna ask --case acme "Who owns billing?"
  donna cases list
  donna cases create acme "Acme Corp"
  donna cases show acme
  donna ingest --case acme export.json
  donna history --case acme
  donna login
  donna config set base_url http://donna.internal:8000

Environment:
  DONNA_BASE_URL           Override the backend base URL
  DONNA_TYPING_DELAY_MS    Override the answer reveal delay

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("donna version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		if len(remaining) > 0 {
			parsed.Query = strings.Join(remaining, " ")
		}
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "cases", "case", "companies":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdCases, parsed

	case "ingest":
		if len(remaining) > 0 {
			parsed.File = remaining[0]
		}
		return CmdIngest, parsed

	case "history":
		return CmdHistory, parsed

	case "sessions", "session":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdSessions, parsed

	case "login", "register":
		return CmdLogin, parsed

	case "whoami":
		return CmdWhoami, parsed

	case "logout":
		return CmdLogout, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		if len(remaining) > 1 {
			parsed.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			parsed.ConfigVal = strings.Join(remaining[2:], " ")
		}
		return CmdConfig, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags, returning the remaining
// positional arguments.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--case", "-c":
			if i+1 < len(args) {
				i++
				parsed.Case = args[i]
			}
		case "--session":
			if i+1 < len(args) {
				i++
				parsed.Session = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--case=") {
				parsed.Case = strings.TrimPrefix(arg, "--case=")
				continue
			}
			if strings.HasPrefix(arg, "--session=") {
				parsed.Session = strings.TrimPrefix(arg, "--session=")
				continue
			}
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}
