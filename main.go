// donna - terminal client for the DONNA organizational memory assistant.
//
// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/cli"
	"github.com/donnalabs/donna-tui/internal/config"
	"github.com/donnalabs/donna-tui/internal/identity"
	"github.com/donnalabs/donna-tui/internal/sessiondir"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	deps, cleanup, err := buildDeps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	os.Exit(dispatch(cmd, deps, args))
}

func dispatch(cmd cli.Command, deps cli.Deps, args cli.Args) int {
	switch cmd {
	case cli.CmdTUI:
		return cli.HandleTUI(deps, args)
	case cli.CmdAsk:
		return cli.HandleAsk(deps, args)
	case cli.CmdChat:
		return cli.HandleChat(deps, args)
	case cli.CmdCases:
		return cli.HandleCases(deps, args)
	case cli.CmdIngest:
		return cli.HandleIngest(deps, args)
	case cli.CmdHistory:
		return cli.HandleHistory(deps, args)
	case cli.CmdSessions:
		return cli.HandleSessions(deps, args)
	case cli.CmdLogin:
		return cli.HandleLogin(deps, args)
	case cli.CmdWhoami:
		return cli.HandleWhoami(deps, args)
	case cli.CmdLogout:
		return cli.HandleLogout(deps, args)
	case cli.CmdConfig:
		return cli.HandleConfig(deps, args)
	case cli.CmdVersion:
		cli.PrintVersion()
		return 0
	case cli.CmdHelp:
		cli.PrintUsage()
		return 0
	default:
		cli.PrintUsage()
		return 1
	}
}

// buildDeps assembles the shared dependency set: config, API client,
// identity store and session directory. The config watcher retargets
// the client when base_url changes on disk.
func buildDeps() (cli.Deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return cli.Deps{}, nil, err
	}

	client := api.NewClient(cfg.BaseURL)

	ids, err := identity.NewStore()
	if err != nil {
		return cli.Deps{}, nil, fmt.Errorf("failed to open identity store: %w", err)
	}

	sessions, err := sessiondir.New()
	if err != nil {
		return cli.Deps{}, nil, fmt.Errorf("failed to open session directory: %w", err)
	}

	cleanup := func() {}
	if path, err := config.Path(); err == nil {
		watcher, werr := config.NewWatcher(path, func(fresh *config.Config) {
			client.SetBaseURL(fresh.BaseURL)
		})
		if werr == nil {
			if err := watcher.Watch(); err == nil {
				cleanup = func() { watcher.Close() }
			} else {
				watcher.Close()
			}
		}
	}

	// Background noise (session pointer warnings, watcher logs) goes to
	// stderr without timestamps cluttering piped output.
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	return cli.Deps{
		Config:   cfg,
		Client:   client,
		Identity: ids,
		Sessions: sessions,
	}, cleanup, nil
}
