// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat session controller: the one
// component in the client with real state-machine behavior.
//
// A controller owns the in-memory transcript and the active session id
// for the lifetime of one chat view. Session continuity comes from the
// local session directory; message history comes from the backend. The
// controller is front-end agnostic: every state change fans out through
// a listener callback, and views read state through accessors that
// return copies.
//
// States: loading-session (boot or resume in progress), idle, sending
// (exactly one send in flight). The error text is orthogonal and is
// cleared at the start of each new send or load.
package chat

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donnalabs/donna-tui/internal/api"
	"github.com/donnalabs/donna-tui/internal/model"
	"github.com/donnalabs/donna-tui/internal/sessiondir"
)

// DefaultWordDelay is the pause between revealed words. The full
// answer is already buffered before the reveal starts; the delay is
// purely cosmetic.
const DefaultWordDelay = 30 * time.Millisecond

var (
	// ErrSendInFlight is returned when SendMessage is called while a
	// previous send has not finished. Sends are serialized per
	// controller; overlapping sends would interleave transcript
	// mutations.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrNoIdentity is returned when an operation needs a user id and
	// none is set. Chat is unavailable without an identity.
	ErrNoIdentity = errors.New("no identity set")
)

// errSendFailed is the user-visible string for any failed send.
const errSendFailed = "Failed to get response. Please try again."

// errLoadFailed is the user-visible string for an explicit session
// load that failed.
const errLoadFailed = "Failed to load session. Please try again."

// Controller drives one chat workspace.
type Controller struct {
	mu sync.Mutex

	caseID string
	userID string

	api *api.Client
	dir *sessiondir.Directory

	transcript *model.Transcript
	sessionID  string

	loadingSession bool
	sending        bool
	errText        string

	wordDelay time.Duration
	listener  func()

	// ctx bounds every suspending operation to the controller's own
	// lifetime; Close cancels it and late results are dropped.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a controller for one (case, user) pair. The parent
// context bounds the controller's lifetime; userID may be empty, which
// leaves the controller idle and unable to send.
func New(parent context.Context, client *api.Client, dir *sessiondir.Directory, caseID, userID string) *Controller {
	ctx, cancel := context.WithCancel(parent)
	return &Controller{
		caseID:         caseID,
		userID:         userID,
		api:            client,
		dir:            dir,
		transcript:     model.NewTranscript(),
		loadingSession: true,
		wordDelay:      DefaultWordDelay,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// SetListener registers the callback invoked after every state change.
// Must be set before the first operation; pass nil to disable.
func (c *Controller) SetListener(fn func()) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// SetWordDelay overrides the reveal delay. Zero disables the pause
// (used by tests and the plain CLI).
func (c *Controller) SetWordDelay(d time.Duration) {
	c.mu.Lock()
	c.wordDelay = d
	c.mu.Unlock()
}

// SetUser switches the controller to a new user id, e.g. after the
// identity store fans out a change. The caller should Resume afterward.
func (c *Controller) SetUser(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// Close cancels any in-flight operation. The controller must not be
// used afterward.
func (c *Controller) Close() {
	c.cancel()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the transcript.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Snapshot()
}

// SessionID returns the active session id, or "" when none.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// LoadingSession reports whether a boot/resume load is in progress.
func (c *Controller) LoadingSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingSession
}

// Err returns the current user-visible error text, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errText
}

// CaseID returns the case this controller is scoped to.
func (c *Controller) CaseID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caseID
}

// UserID returns the current user id, or "".
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// =============================================================================
// RESUME
// =============================================================================

// Resume restores the chat state at mount or after an identity change.
//
// The target session resolves as: the explicit id when given, else the
// directory pointer for (case, user), else none. A load failure from
// the directory pointer clears that pointer (it was stale) and falls
// back to an empty, session-less state; an explicitly requested id is
// never cleared. With no user id the transcript is cleared and no
// network call is made.
func (c *Controller) Resume(explicitSessionID string) {
	c.mu.Lock()
	caseID, userID := c.caseID, c.userID
	c.loadingSession = true
	c.errText = ""
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.loadingSession = false
		c.mu.Unlock()
		c.notify()
	}()

	if userID == "" {
		c.reset("")
		return
	}

	target := explicitSessionID
	fromDirectory := false
	if target == "" {
		if sid, ok := c.dir.Get(caseID, userID); ok {
			target = sid
			fromDirectory = true
		}
	}
	if target == "" {
		c.reset("")
		return
	}

	msgs, err := c.api.GetSessionMessages(c.ctx, target)
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		// Stale pointer is a normal outcome, not a fault.
		if fromDirectory {
			if cerr := c.dir.Clear(caseID, userID); cerr != nil {
				log.Printf("failed to clear stale session pointer: %v", cerr)
			}
		}
		c.reset("")
		return
	}

	loaded := toTranscript(target, msgs)
	c.mu.Lock()
	c.transcript.Replace(loaded)
	c.sessionID = target
	c.mu.Unlock()

	// Re-persist the pointer so LastUpdated reflects this visit.
	if err := c.dir.Set(caseID, userID, target); err != nil {
		log.Printf("failed to persist session pointer: %v", err)
	}
}

// LoadSession replaces the transcript with an explicitly chosen
// session, e.g. picked from the history panel. On failure the
// controller ends empty and session-less with the error text set.
func (c *Controller) LoadSession(sessionID string) error {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return ErrNoIdentity
	}
	caseID, userID := c.caseID, c.userID
	c.loadingSession = true
	c.errText = ""
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.loadingSession = false
		c.mu.Unlock()
		c.notify()
	}()

	msgs, err := c.api.GetSessionMessages(c.ctx, sessionID)
	if err != nil {
		if c.ctx.Err() != nil {
			return err
		}
		c.reset(errLoadFailed)
		return err
	}

	loaded := toTranscript(sessionID, msgs)
	c.mu.Lock()
	c.transcript.Replace(loaded)
	c.sessionID = sessionID
	c.mu.Unlock()

	if err := c.dir.Set(caseID, userID, sessionID); err != nil {
		log.Printf("failed to persist session pointer: %v", err)
	}
	return nil
}

// StartNewSession clears the transcript, the active session id and the
// directory pointer for the current (case, user).
func (c *Controller) StartNewSession() {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return
	}
	caseID, userID := c.caseID, c.userID
	c.transcript.Clear()
	c.sessionID = ""
	c.errText = ""
	c.mu.Unlock()

	if err := c.dir.Clear(caseID, userID); err != nil {
		log.Printf("failed to clear session pointer: %v", err)
	}
	c.notify()
}

// =============================================================================
// SEND
// =============================================================================

// SendMessage sends one chat turn and reveals the answer.
//
// Whitespace-only content is a no-op. Exactly one user message and one
// assistant message are appended per call; the assistant message
// starts empty and its content only grows until the call completes.
// Sends are serialized: a call while another is in flight returns
// ErrSendInFlight without touching the transcript.
//
// SendMessage blocks until the reveal finishes; run it from its own
// goroutine (the TUI wraps it in a command).
func (c *Controller) SendMessage(content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	if c.userID == "" {
		c.mu.Unlock()
		return ErrNoIdentity
	}

	c.sending = true
	c.errText = ""
	caseID, userID, sessionID := c.caseID, c.userID, c.sessionID

	// The user message always lands before the assistant placeholder.
	c.transcript.Append(model.NewUserMessage(content))
	placeholder := model.NewAssistantPlaceholder()
	c.transcript.Append(placeholder)
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
		c.notify()
	}()

	var sidPtr *string
	if sessionID != "" {
		sidPtr = &sessionID
	}
	result, err := c.api.ContextualQuery(c.ctx, &api.QueryRequest{
		CompanyID: caseID,
		Task:      content,
		UserID:    userID,
		SessionID: sidPtr,
	})
	if err != nil {
		if c.ctx.Err() != nil {
			// Controller closed mid-flight; drop the late result.
			return err
		}
		c.mu.Lock()
		c.errText = errSendFailed
		c.mu.Unlock()
		c.notify()
		return err
	}

	// Adopt the server-assigned session id on the first turn.
	adopted := false
	if result.SessionID != "" && sessionID == "" {
		adopted = true
		c.mu.Lock()
		c.sessionID = result.SessionID
		c.mu.Unlock()
		if err := c.dir.Set(caseID, userID, result.SessionID); err != nil {
			log.Printf("failed to persist session pointer: %v", err)
		}
		c.notify()
	}

	c.reveal(placeholder, result.Answer)

	// Without server-side continuity, synthesize a local session id so
	// later turns in this view still group together.
	if sessionID == "" && !adopted {
		newID := synthesizeSessionID()
		c.mu.Lock()
		c.sessionID = newID
		c.mu.Unlock()
		if err := c.dir.Set(caseID, userID, newID); err != nil {
			log.Printf("failed to persist session pointer: %v", err)
		}
		c.notify()
	}

	return nil
}

// reveal grows the placeholder's content word by word, replacing the
// last transcript element on each step. The answer is fully known
// before the first step; this is animation, not streaming.
func (c *Controller) reveal(placeholder model.Message, answer string) {
	words := strings.Split(answer, " ")
	current := ""

	for i, word := range words {
		if i > 0 {
			current += " "
		}
		current += word

		c.mu.Lock()
		last, ok := c.transcript.Last()
		if !ok || last.ID != placeholder.ID {
			// The transcript was replaced under us (session load or
			// reset); stop revealing into someone else's message.
			c.mu.Unlock()
			return
		}
		placeholder.Content = current
		c.transcript.ReplaceLast(placeholder)
		c.mu.Unlock()
		c.notify()

		if c.wordDelay <= 0 || i == len(words)-1 {
			continue
		}
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(c.wordDelay):
		}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// reset clears transcript and session id, setting errText.
func (c *Controller) reset(errText string) {
	c.mu.Lock()
	c.transcript.Clear()
	c.sessionID = ""
	c.errText = errText
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.listener
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// toTranscript converts backend messages to local ones. IDs are
// derived from the session id and position, matching how loaded
// messages are keyed everywhere else.
func toTranscript(sessionID string, msgs []api.ChatMessage) []model.Message {
	out := make([]model.Message, 0, len(msgs))
	for i, m := range msgs {
		ts, _ := time.Parse(time.RFC3339, m.Timestamp)
		out = append(out, model.Message{
			ID:        sessionID + "_" + strconv.Itoa(i),
			Role:      model.Role(m.Role),
			Content:   m.Content,
			Timestamp: ts,
		})
	}
	return out
}

// synthesizeSessionID builds a client-side session id: timestamp plus
// a random suffix.
func synthesizeSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return "session_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + suffix
}
