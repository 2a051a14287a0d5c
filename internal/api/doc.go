// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the DONNA backend.
//
// The backend owns all business logic: ingestion, knowledge-graph
// construction, retrieval and inference. This package only calls it.
//
// Two client behaviors matter to callers:
//
//   - Every read/write call fails with a typed *APIError when the
//     response status is not successful. There are no retries and no
//     caching; every call hits the network.
//   - ContextualQuery is an explicit two-phase operation: the streamed
//     response body is read to completion into one buffer, then parsed
//     once as JSON. A body that is not the expected JSON document
//     degrades to the raw text rather than an error.
package api
