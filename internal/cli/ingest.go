// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// ingest.go - Conversation-export ingest command handler.
//
// Command: ingest
// Short:   Upload a conversation export (JSON) into a case
//
// Examples:
//   donna ingest --case acme export.json
//
// The file holds an array of threads; each thread carries its source,
// channel, key decisions and raw messages. The backend indexes the
// content for contextual queries.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/donnalabs/donna-tui/internal/api"
)

// HandleIngest runs the ingest command. Returns the exit code.
func HandleIngest(deps Deps, args Args) int {
	if args.File == "" {
		return errorf("usage: donna ingest --case ID file.json")
	}
	caseID, err := requireCase(args)
	if err != nil {
		return errorf("%v", err)
	}

	data, err := os.ReadFile(args.File)
	if err != nil {
		return errorf("failed to read %s: %v", args.File, err)
	}

	// Accept either a bare thread array or a wrapped {"data": [...]}.
	var req api.IngestRequest
	if err := json.Unmarshal(data, &req); err != nil || len(req.Data) == 0 {
		var threads []api.IngestThread
		if err := json.Unmarshal(data, &threads); err != nil {
			return errorf("%s is not a valid conversation export: %v", args.File, err)
		}
		req.Data = threads
	}
	if len(req.Data) == 0 {
		return errorf("%s contains no threads", args.File)
	}

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout())
	defer cancel()

	if err := deps.Client.Ingest(ctx, caseID, &req); err != nil {
		return errorf("ingest failed: %v", err)
	}

	msgs := 0
	for _, t := range req.Data {
		msgs += len(t.Messages)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf(
		"Ingested %d threads (%d messages) into %s", len(req.Data), msgs, caseID)))
	return 0
}
