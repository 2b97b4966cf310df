// Package tui is the operator console. The bubbletea Update loop is the only
// writer of the form, the session and the staged list; network calls run as
// commands on their own goroutines and report back with messages.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
	"github.com/kirillkom/scan-uploader/internal/core/form"
	"github.com/kirillkom/scan-uploader/internal/core/ports"
)

type StagedGauge interface {
	SetStagedFiles(n int)
}

// StagingFolder is the staging area plus the directory it currently reads.
type StagingFolder interface {
	ports.StagingArea
	Dir() string
}

// FolderSwitcher re-points the staging folder and returns its change feed,
// nil when the new folder is not watched.
type FolderSwitcher interface {
	SwitchStaging(dir string) (<-chan struct{}, error)
}

type Deps struct {
	Categories []string
	Form       *form.Form
	Session    ports.SessionService
	Uploads    ports.UploadService
	Staging    StagingFolder
	// Folders is optional; without it the folder field is read-only.
	Folders FolderSwitcher
	// Changes is optional; a receive triggers an early rescan.
	Changes      <-chan struct{}
	Gauge        StagedGauge
	BaseURL      string
	PollInterval time.Duration
	Logger       *slog.Logger
}

const quitLogoutTimeout = 3 * time.Second

type focus int

const (
	focusURL focus = iota
	focusFolder
	focusUsername
	focusPassword
	focusCategory
	focusFields
)

type (
	tickMsg           time.Time
	stagingChangedMsg struct{ feed int }
	loginResultMsg    struct {
		username string
		pair     domain.TokenPair
		err      error
	}
	uploadResultMsg struct {
		result *domain.UploadResult
		err    error
	}
	logoutDoneMsg struct{}
)

type Model struct {
	ctx  context.Context
	deps Deps

	urlInput      textinput.Model
	folderInput   textinput.Model
	usernameInput textinput.Model
	passwordInput textinput.Model
	fieldInputs   []textinput.Model

	categoryIndex int
	focus         focus
	fieldFocus    int

	staged     []domain.StagedFile
	stagingErr error
	// feed numbers the current change feed so signals from a replaced one are dropped.
	feed int

	loggingIn bool
	uploading bool
	user      string
	status    status

	width  int
	styles Styles
}

func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = time.Second
	}

	url := textinput.New()
	url.Prompt = ""
	url.Placeholder = "http://server/api"
	url.SetValue(deps.BaseURL)
	url.Width = 40

	folder := textinput.New()
	folder.Prompt = ""
	folder.Placeholder = "~/scanned_docs"
	folder.SetValue(deps.Staging.Dir())
	folder.Width = 40

	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.Width = 24

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 24

	m := Model{
		ctx:           ctx,
		deps:          deps,
		urlInput:      url,
		folderInput:   folder,
		usernameInput: username,
		passwordInput: password,
		categoryIndex: -1,
		styles:        DefaultStyles(),
		status:        infoStatus("Log in, pick a category and fill in the form."),
	}
	if len(deps.Categories) > 0 {
		m.selectCategory(0)
	}
	m.setFocus(focusURL)
	m.rescan()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick(), m.waitForChange())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.rescan()
		return m, m.tick()

	case stagingChangedMsg:
		if msg.feed != m.feed {
			return m, nil
		}
		m.rescan()
		return m, m.waitForChange()

	case loginResultMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.status = errorStatus("Login failed", msg.err)
			return m, nil
		}
		m.deps.Session.Establish(msg.pair)
		m.user = msg.username
		m.passwordInput.SetValue("")
		m.status = status{kind: statusSuccess, text: "Logged in as " + msg.username}
		return m, nil

	case logoutDoneMsg:
		return m, nil

	case uploadResultMsg:
		m.uploading = false
		if msg.err != nil {
			m.status = errorStatus("Upload failed", msg.err)
			return m, nil
		}
		m.deps.Uploads.Complete(m.ctx, msg.result)
		m.syncFieldInputs()
		m.rescan()
		m.status = uploadedStatus(msg.result)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.quit()
	case "ctrl+l":
		return m.login()
	case "ctrl+o":
		return m.logout()
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		m.rescan()
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	case "enter":
		switch m.focus {
		case focusUsername, focusPassword:
			return m.login()
		case focusFolder:
			return m.switchFolder()
		}
		m.moveFocus(1)
		return m, nil
	}

	if m.focus == focusCategory {
		switch msg.String() {
		case "left", "h":
			m.cycleCategory(-1)
		case "right", "l", " ":
			m.cycleCategory(1)
		}
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case focusFolder:
		if m.deps.Folders == nil {
			return m, nil
		}
		m.folderInput, cmd = m.folderInput.Update(msg)
	case focusUsername:
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	case focusPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case focusFields:
		if m.fieldFocus < 0 || m.fieldFocus >= len(m.fieldInputs) {
			return m, nil
		}
		input := m.fieldInputs[m.fieldFocus]
		input, cmd = input.Update(msg)
		field := m.deps.Form.Fields()[m.fieldFocus]
		value, cursor, err := m.deps.Form.Input(field.Name, input.Value(), input.Position())
		if err == nil && value != input.Value() {
			input.SetValue(value)
			input.SetCursor(cursor)
		}
		m.fieldInputs[m.fieldFocus] = input
	}
	return m, cmd
}

func (m Model) login() (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	ctx := m.ctx
	session := m.deps.Session
	baseURL := m.urlInput.Value()
	username := m.usernameInput.Value()
	password := m.passwordInput.Value()

	m.loggingIn = true
	m.status = infoStatus("Logging in as %s...", username)
	return m, func() tea.Msg {
		pair, err := session.Authenticate(ctx, baseURL, username, password)
		return loginResultMsg{username: username, pair: pair, err: err}
	}
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if !m.deps.Session.IsAuthenticated() {
		return m, nil
	}
	ctx := m.ctx
	session := m.deps.Session
	baseURL := m.urlInput.Value()
	token := session.SignOut()

	m.user = ""
	m.status = infoStatus("Logged out")
	return m, func() tea.Msg {
		session.Revoke(ctx, baseURL, token)
		return logoutDoneMsg{}
	}
}

// quit signs out before leaving, notifying the server the operator typed in.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.deps.Session.IsAuthenticated() {
		return m, tea.Quit
	}
	parent := context.WithoutCancel(m.ctx)
	session := m.deps.Session
	baseURL := m.urlInput.Value()
	token := session.SignOut()
	m.user = ""
	m.status = infoStatus("Logging out...")
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, quitLogoutTimeout)
		defer cancel()
		session.Revoke(ctx, baseURL, token)
		return tea.Quit()
	}
}

func (m Model) switchFolder() (tea.Model, tea.Cmd) {
	if m.deps.Folders == nil {
		return m, nil
	}
	if m.uploading {
		m.status = status{kind: statusWarning, text: "Wait for the upload to finish before changing folders"}
		return m, nil
	}
	changes, err := m.deps.Folders.SwitchStaging(m.folderInput.Value())
	if err != nil {
		m.status = errorStatus("Cannot use folder", err)
		return m, nil
	}
	m.deps.Changes = changes
	m.feed++
	m.folderInput.SetValue(m.deps.Staging.Dir())
	m.rescan()
	if m.stagingErr != nil {
		m.status = status{kind: statusError, text: "Folder is not valid: " + m.deps.Staging.Dir()}
	} else {
		m.status = infoStatus("Watching %s", m.deps.Staging.Dir())
	}
	return m, m.waitForChange()
}

// ServerURL is the API base URL currently typed in the console.
func (m Model) ServerURL() string {
	return m.urlInput.Value()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.CanSubmit() {
		return m, nil
	}
	batch, err := m.deps.Uploads.Prepare(m.ctx, m.urlInput.Value(), m.staged)
	if err != nil {
		m.status = errorStatus("Cannot send", err)
		return m, nil
	}

	ctx := m.ctx
	uploads := m.deps.Uploads
	m.uploading = true
	m.status = infoStatus("Sending %d file(s) to %s...", len(batch.Files), batch.Category.Name)
	return m, func() tea.Msg {
		result, err := uploads.Send(ctx, batch)
		return uploadResultMsg{result: result, err: err}
	}
}

// CanSubmit mirrors the send control: a session, at least one scan and nothing in flight.
func (m Model) CanSubmit() bool {
	return !m.uploading && m.deps.Uploads.Ready(m.staged)
}

func (m *Model) rescan() {
	files, err := m.deps.Staging.List(m.ctx)
	if err != nil {
		if m.stagingErr == nil {
			m.deps.Logger.Warn("staging_scan_failed", "error", err)
		}
		m.staged = nil
		m.stagingErr = err
	} else {
		m.staged = files
		m.stagingErr = nil
	}
	if m.deps.Gauge != nil {
		m.deps.Gauge.SetStagedFiles(len(m.staged))
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.deps.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForChange() tea.Cmd {
	changes := m.deps.Changes
	if changes == nil {
		return nil
	}
	feed := m.feed
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stagingChangedMsg{feed: feed}
	}
}

func (m *Model) cycleCategory(delta int) {
	n := len(m.deps.Categories)
	if n == 0 {
		return
	}
	m.selectCategory((m.categoryIndex + delta + n) % n)
}

func (m *Model) selectCategory(index int) {
	name := m.deps.Categories[index]
	if err := m.deps.Form.SelectCategory(name); err != nil {
		m.status = errorStatus("Cannot select category", err)
		return
	}
	m.categoryIndex = index

	fields := m.deps.Form.Fields()
	m.fieldInputs = make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.Placeholder
		if input.Placeholder == "" {
			input.Placeholder = field.Label
		}
		input.Width = 32
		m.fieldInputs[i] = input
	}
	m.fieldFocus = 0
}

// syncFieldInputs copies form values into the inputs after the form changed underneath them.
func (m *Model) syncFieldInputs() {
	for i, field := range m.deps.Form.Fields() {
		if i < len(m.fieldInputs) {
			m.fieldInputs[i].SetValue(m.deps.Form.Value(field.Name))
		}
	}
}

func (m *Model) moveFocus(delta int) {
	slots := int(focusFields) + len(m.fieldInputs)
	current := int(m.focus)
	if m.focus == focusFields {
		current += m.fieldFocus
	}
	next := (current + delta + slots) % slots
	if next >= int(focusFields) {
		m.fieldFocus = next - int(focusFields)
		m.setFocus(focusFields)
		return
	}
	m.setFocus(focus(next))
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.urlInput.Blur()
	m.folderInput.Blur()
	m.usernameInput.Blur()
	m.passwordInput.Blur()
	for i := range m.fieldInputs {
		m.fieldInputs[i].Blur()
	}
	switch f {
	case focusURL:
		m.urlInput.Focus()
	case focusFolder:
		m.folderInput.Focus()
	case focusUsername:
		m.usernameInput.Focus()
	case focusPassword:
		m.passwordInput.Focus()
	case focusFields:
		if m.fieldFocus < len(m.fieldInputs) {
			m.fieldInputs[m.fieldFocus].Focus()
		}
	}
}
