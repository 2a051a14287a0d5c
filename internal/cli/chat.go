// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the donna CLI.
//
// Command: chat
// Short:   Plain-terminal chat session (no TUI)
//
// Examples:
//   donna chat --case acme            Chat about the acme case
//   donna chat --case acme --session session_123  Resume a session
//
// Interactive commands during chat:
//   /new            Start a new session
//   /session        Show the active session id
//   /history        Show the transcript so far
//   /quit, /q       Exit chat
//   Ctrl+D          Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/donnalabs/donna-tui/internal/chat"
	"github.com/donnalabs/donna-tui/internal/config"
	"github.com/donnalabs/donna-tui/internal/model"
)

// replHistoryFile is the liner history file name inside the config dir.
const replHistoryFile = "chat_history"

// repl wraps liner with persistent input history.
type repl struct {
	line        *liner.State
	historyFile string
}

func newREPL() *repl {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	historyFile := filepath.Join(dir, replHistoryFile)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return &repl{line: line, historyFile: historyFile}
}

func (r *repl) close() {
	if f, err := os.Create(r.historyFile); err == nil {
		_, _ = r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// HandleChat runs the interactive chat REPL. Returns the exit code.
func HandleChat(deps Deps, args Args) int {
	caseID, err := requireCase(args)
	if err != nil {
		return errorf("%v", err)
	}
	id, err := requireIdentity(deps)
	if err != nil {
		return errorf("%v", err)
	}
	if !IsTTY() {
		return errorf("chat needs an interactive terminal; use 'donna ask' instead")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	ctrl := chat.New(ctx, deps.Client, deps.Sessions, caseID, id.UserID)
	defer ctrl.Close()
	ctrl.SetWordDelay(deps.Config.TypingDelay())

	if args.Session != "" {
		if err := ctrl.LoadSession(args.Session); err != nil {
			fmt.Println(ErrorStyle.Render(ctrl.Err()))
		}
	} else {
		ctrl.Resume("")
	}

	// Print each revealed word as it lands. Registered after the resume
	// so a restored transcript is not dumped to stdout. The listener
	// fires on every transcript change; track how much is printed.
	printed := 0
	ctrl.SetListener(func() {
		msgs := ctrl.Messages()
		if len(msgs) == 0 {
			printed = 0
			return
		}
		last := msgs[len(msgs)-1]
		if last.Role != model.RoleAssistant {
			return
		}
		if printed > len(last.Content) {
			printed = 0
		}
		fmt.Print(last.Content[printed:])
		printed = len(last.Content)
	})

	caseName := ResolveCaseName(ctx, deps.Client, caseID)
	if !args.Quiet {
		fmt.Println(TitleStyle.Render("donna") + MutedStyle.Render(" / "+caseName))
		if n := len(ctrl.Messages()); n > 0 {
			fmt.Println(MutedStyle.Render(fmt.Sprintf("resumed session with %d messages", n)))
		}
		fmt.Println(MutedStyle.Render("/quit to exit, /new for a fresh session"))
		fmt.Println()
	}

	r := newREPL()
	defer r.close()

	for {
		input, err := r.line.Prompt(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C aborts the prompt, Ctrl+D ends the session.
			if err == liner.ErrPromptAborted {
				continue
			}
			fmt.Println()
			return 0
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if done := handleReplCommand(ctrl, input); done {
				return 0
			}
			continue
		}

		printed = 0
		fmt.Print(PromptStyle.Render("donna> "))
		if err := ctrl.SendMessage(input); err != nil {
			if ctx.Err() != nil {
				fmt.Println()
				return 0
			}
			fmt.Println(ErrorStyle.Render(ctrl.Err()))
			continue
		}
		fmt.Println()
		fmt.Println()
	}
}

// handleReplCommand executes a /command; returns true to exit.
func handleReplCommand(ctrl *chat.Controller, input string) bool {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/q", "/exit":
		return true

	case "/new":
		ctrl.StartNewSession()
		fmt.Println(MutedStyle.Render("started a new session"))

	case "/session", "/s":
		sid := ctrl.SessionID()
		if sid == "" {
			fmt.Println(MutedStyle.Render("no session yet; it is created on the first message"))
		} else {
			fmt.Println(MutedStyle.Render("session: " + sid))
		}

	case "/history", "/h":
		for _, msg := range ctrl.Messages() {
			label := PromptStyle.Render(msg.Role.DisplayName() + ": ")
			fmt.Println(label + msg.Content)
		}

	default:
		fmt.Println(MutedStyle.Render("commands: /new /session /history /quit"))
	}
	return false
}
