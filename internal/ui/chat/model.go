// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat view for the donna TUI.
//
// The view is a thin shell around chat.Controller: all conversation
// state lives in the controller, and the model re-reads it whenever a
// ControllerUpdatedMsg arrives. The model only owns presentation state
// (viewport, input, overlays, panels).
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/donnalabs/donna-tui/internal/api"
	ctrl "github.com/donnalabs/donna-tui/internal/chat"
	"github.com/donnalabs/donna-tui/internal/identity"
	"github.com/donnalabs/donna-tui/internal/model"
	"github.com/donnalabs/donna-tui/internal/ui/components"
	"github.com/donnalabs/donna-tui/internal/ui/styles"
)

// Options configures a new chat view.
type Options struct {
	Controller *ctrl.Controller
	Client     *api.Client
	Identity   *identity.Store
	Context    context.Context

	// CaseName is the display name for the header; falls back to the
	// case id when empty.
	CaseName string

	// Session is an explicit session id to resume; empty means the
	// remembered pointer for (case, user).
	Session string

	// HistoryLimit caps the history overlay listing.
	HistoryLimit int

	// ShowPanels enables the suggestions and summary side panels.
	ShowPanels bool
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctrl *ctrl.Controller
	api  *api.Client
	ids  *identity.Store
	ctx  context.Context

	caseName     string
	sessionArg   string
	historyLimit int

	// Controller snapshot, refreshed on every ControllerUpdatedMsg.
	messages  []model.Message
	sessionID string
	sending   bool
	loading   bool
	errText   string

	// Case metadata for the side panels.
	meta        *api.CompanyMetadata
	suggestIdx  int
	showPanels  bool
	panelsReady bool

	// History overlay.
	showHistory    bool
	history        []api.ChatSession
	historyCursor  int
	historyLoading bool

	// Identity modal, shown until an identity exists.
	needIdentity bool
	form         components.IdentityForm

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	keys     KeyMap

	width  int
	height int
	ready  bool
}

// New creates the chat view model.
func New(opts Options) *Model {
	input := textinput.New()
	input.Placeholder = "Ask Donna anything about this case..."
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Muted

	caseName := opts.CaseName
	if caseName == "" {
		caseName = opts.Controller.CaseID()
	}

	m := &Model{
		ctrl:         opts.Controller,
		api:          opts.Client,
		ids:          opts.Identity,
		ctx:          opts.Context,
		caseName:     caseName,
		sessionArg:   opts.Session,
		historyLimit: opts.HistoryLimit,
		showPanels:   opts.ShowPanels,
		input:        input,
		spin:         spin,
		keys:         DefaultKeyMap(),
	}

	if opts.Identity.Current() == nil {
		m.needIdentity = true
		m.form = components.NewIdentityForm()
		m.input.Blur()
	}
	return m
}

// Init kicks off the initial resume and the metadata fetch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.loadMetadataCmd()}
	if !m.needIdentity {
		cmds = append(cmds, m.resumeCmd(m.sessionArg))
	}
	return tea.Batch(cmds...)
}

// refresh re-reads the controller snapshot.
func (m *Model) refresh() {
	m.messages = m.ctrl.Messages()
	m.sessionID = m.ctrl.SessionID()
	m.sending = m.ctrl.Sending()
	m.loading = m.ctrl.LoadingSession()
	m.errText = m.ctrl.Err()

	if m.ready {
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
	}
}

// suggestions returns the metadata's suggested questions, or nil.
func (m *Model) suggestions() []string {
	if m.meta == nil {
		return nil
	}
	return m.meta.SuggestedQuestions
}
