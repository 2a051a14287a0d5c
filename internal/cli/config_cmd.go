// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handlers.
//
// Command: config
// Short:   Show and edit the donna configuration
//
// Examples:
//   donna config show
//   donna config set base_url http://donna.internal:8000
//   donna config set typing_delay_ms 0
//   donna config path
package cli

import (
	"fmt"
	"strconv"

	"github.com/donnalabs/donna-tui/internal/config"
)

// HandleConfig dispatches the config subcommands. Returns exit code.
func HandleConfig(deps Deps, args Args) int {
	switch args.Subcommand {
	case "", "show":
		return configShow(deps)
	case "set":
		return configSet(deps, args)
	case "path":
		path, err := config.Path()
		if err != nil {
			return errorf("%v", err)
		}
		fmt.Println(path)
		return 0
	default:
		return errorf("unknown config subcommand %q (show, set, path)", args.Subcommand)
	}
}

func configShow(deps Deps) int {
	c := deps.Config
	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Println(LabelStyle.Render("base_url") + ValueStyle.Render(c.BaseURL))
	fmt.Println(LabelStyle.Render("request_timeout") + ValueStyle.Render(c.RequestTimeout().String()))
	fmt.Println(LabelStyle.Render("typing_delay") + ValueStyle.Render(c.TypingDelay().String()))
	fmt.Println(LabelStyle.Render("history_limit") + ValueStyle.Render(strconv.Itoa(c.HistoryLimit)))
	fmt.Println(LabelStyle.Render("suggestions") + ValueStyle.Render(strconv.FormatBool(c.UI.ShowSuggestions)))
	fmt.Println(LabelStyle.Render("summary") + ValueStyle.Render(strconv.FormatBool(c.UI.ShowSummary)))
	return 0
}

func configSet(deps Deps, args Args) int {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return errorf("usage: donna config set KEY VALUE")
	}

	c := deps.Config
	key, val := args.ConfigKey, args.ConfigVal

	switch key {
	case "base_url":
		c.BaseURL = val
	case "request_timeout_secs":
		n, err := strconv.Atoi(val)
		if err != nil {
			return errorf("%s needs an integer value", key)
		}
		c.RequestTimeoutSecs = n
	case "typing_delay_ms":
		n, err := strconv.Atoi(val)
		if err != nil {
			return errorf("%s needs an integer value", key)
		}
		c.TypingDelayMs = n
	case "history_limit":
		n, err := strconv.Atoi(val)
		if err != nil {
			return errorf("%s needs an integer value", key)
		}
		c.HistoryLimit = n
	case "show_suggestions":
		c.UI.ShowSuggestions = val == "true"
	case "show_summary":
		c.UI.ShowSummary = val == "true"
	case "compact_mode":
		c.UI.CompactMode = val == "true"
	default:
		return errorf("unknown config key %q", key)
	}

	if err := c.Validate(); err != nil {
		return errorf("invalid value: %v", err)
	}
	if err := c.Save(); err != nil {
		return errorf("failed to save config: %v", err)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Set %s = %s", key, val)))
	return 0
}
