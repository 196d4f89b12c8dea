package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"docuchat-cli/internal/pkg/logger"
	"docuchat-cli/internal/service"
	"docuchat-cli/pkg/speech"
)

// Deps is everything the interface needs, assembled by bootstrap.
type Deps struct {
	Documents service.IDocumentService
	Sessions  service.ISessionService
	Chat      service.IChatService
	Uploads   service.IUploadService
	Models    service.IModelService
	System    service.ISystemService
	Speech    *speech.Bridge
	Log       logger.ILogger
	Backend   string
}

type focusArea int

const (
	focusInput focusArea = iota
	focusSessions
	focusDocuments
)

// inputMode decides what Enter on the text box means.
type inputMode int

const (
	modeChat inputMode = iota
	modeUpload
	modeRename
	modeModels
	modeConfirmClear
)

// Model is the Bubble Tea model for the whole chat interface: transcript
// viewport, text input, and the session and document sidebars.
type Model struct {
	deps   Deps
	styles Styles

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	focus focusArea
	mode  inputMode

	sessionCursor  int
	documentCursor int
	modelCursor    int
	models         *service.ModelState
	renameTarget   string

	sending    bool
	uploading  bool
	listening  bool
	interim    string
	listenCh   <-chan speech.Transcript
	stopListen func()

	status      string
	statusIsErr bool

	width  int
	height int
	ready  bool
}

func New(deps Deps) Model {
	in := textinput.New()
	in.Placeholder = "Ask about your documents"
	in.Prompt = "> "
	in.CharLimit = 0
	in.Width = 60
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return Model{
		deps:   deps,
		styles: DefaultStyles(),
		input:  in,
		spin:   s,
		status: "Connecting to " + deps.Backend,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.refreshCmd(), m.loadModelsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refreshedMsg:
		if msg.err != nil {
			m = m.setError("Could not reach the backend. Is it running?")
		} else {
			m = m.setStatus("Connected")
		}
		m = m.clampCursors()
		return m.syncTranscript(), nil

	case chatDoneMsg:
		m.sending = false
		switch {
		case msg.err == nil:
		case errors.Is(msg.err, service.ErrNoActiveSession):
			m = m.setError("Start or open a chat before sending.")
		case errors.Is(msg.err, service.ErrBusy):
		default:
			m = m.setError(msg.err.Error())
		}
		return m.syncTranscript(), nil

	case sessionCreatedMsg:
		if msg.err != nil {
			m = m.setError("Could not create a new chat. Please try again.")
			return m, nil
		}
		m = m.setStatus("New chat started")
		m.sessionCursor = 0
		return m.clampCursors().syncTranscript(), nil

	case sessionLoadedMsg:
		if msg.err != nil {
			m = m.setError("Could not load that chat. Please try again.")
			return m, nil
		}
		m = m.setStatus("Chat loaded")
		return m.syncTranscript(), nil

	case sessionRenamedMsg:
		if msg.err != nil {
			m = m.setError("Could not rename the chat. Please try again.")
		} else if msg.called {
			m = m.setStatus("Chat renamed")
		}
		return m, nil

	case sessionDeletedMsg:
		if msg.err != nil {
			m = m.setError("Could not delete the chat. Please try again.")
		} else {
			m = m.setStatus("Chat deleted")
		}
		return m.clampCursors().syncTranscript(), nil

	case exportDoneMsg:
		if msg.err != nil {
			if msg.err == service.ErrNoActiveSession {
				m = m.setError("Nothing to export yet. Start a chat first.")
			} else {
				m = m.setError("Export failed. Please try again.")
			}
			return m, nil
		}
		m = m.setStatus("Exported to " + msg.result.Path)
		return m, nil

	case docDeletedMsg:
		if msg.err != nil {
			m = m.setError("Could not delete the document. Please try again.")
		} else {
			m = m.setStatus("Document deleted")
		}
		return m.clampCursors(), nil

	case uploadDoneMsg:
		m.uploading = false
		m.input.SetValue("")
		m.mode = modeChat
		m.input.Placeholder = "Ask about your documents"
		if msg.err != nil {
			m = m.setError(msg.err.Error())
			return m.clampCursors(), nil
		}
		m = m.setStatus(uploadSummary(msg.result))
		return m.clampCursors(), nil

	case modelsLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.models = msg.state
		return m, nil

	case modelChangedMsg:
		if msg.err != nil {
			m = m.setError("Could not switch model. Please try again.")
			return m, nil
		}
		m = m.setStatus("Model switched to " + msg.name)
		return m, m.loadModelsCmd()

	case clearedAllMsg:
		if msg.err != nil {
			m = m.setError("Could not clear the knowledge base. Please try again.")
			return m, nil
		}
		m = m.setStatus("All documents and chats cleared")
		m.sessionCursor = 0
		m.documentCursor = 0
		return m.syncTranscript(), m.refreshCmd()

	case transcriptMsg:
		m.interim = msg.Text
		if msg.Final {
			m.input.SetValue(msg.Text)
			m.input.CursorEnd()
			m.interim = ""
		}
		if m.listenCh == nil {
			return m, nil
		}
		return m, waitTranscript(m.listenCh)

	case listenDoneMsg:
		m.listening = false
		m.interim = ""
		m.listenCh = nil
		m.stopListen = nil
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.stopListen != nil {
			m.stopListen()
		}
		return m, tea.Quit

	case "esc":
		if m.mode != modeChat {
			m.mode = modeChat
			m.input.SetValue("")
			m.input.Placeholder = "Ask about your documents"
			return m, nil
		}
		return m, nil

	case "tab":
		if m.mode == modeChat {
			m = m.cycleFocus()
		}
		return m, nil

	case "ctrl+n":
		return m, m.createSessionCmd()

	case "ctrl+e":
		return m, m.exportSessionCmd()

	case "ctrl+l":
		m.deps.Sessions.ClearMessages()
		m = m.setStatus("Messages cleared")
		return m.syncTranscript(), nil

	case "ctrl+u":
		m.mode = modeUpload
		m.focus = focusInput
		m.input.SetValue("")
		m.input.Placeholder = "Paths to PDF or image files, space separated"
		m.input.Focus()
		return m, nil

	case "ctrl+p":
		if m.mode == modeModels {
			m.mode = modeChat
			return m, nil
		}
		m.mode = modeModels
		m.modelCursor = 0
		return m, m.loadModelsCmd()

	case "ctrl+k":
		m.mode = modeConfirmClear
		return m, nil

	case "ctrl+v":
		return m.toggleListen()

	case "ctrl+s":
		return m.toggleSpeak()

	case "ctrl+x":
		if m.deps.Speech.CanSpeak() {
			m.deps.Speech.Synthesizer.Stop()
		}
		return m, nil
	}

	switch m.mode {
	case modeModels:
		return m.handleModelsKey(msg)
	case modeConfirmClear:
		return m.handleConfirmClearKey(msg)
	}

	switch m.focus {
	case focusSessions:
		return m.handleSessionsKey(msg)
	case focusDocuments:
		return m.handleDocumentsKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		value := strings.TrimSpace(m.input.Value())
		switch m.mode {
		case modeUpload:
			paths := strings.Fields(value)
			if len(paths) == 0 {
				return m, nil
			}
			if m.uploading {
				return m, nil
			}
			m.uploading = true
			m = m.setStatus("Uploading...")
			return m, m.uploadCmd(paths)

		case modeRename:
			target := m.renameTarget
			m.mode = modeChat
			m.input.SetValue("")
			m.input.Placeholder = "Ask about your documents"
			return m, m.renameSessionCmd(target, value)

		default:
			if value == "" || m.sending || m.deps.Chat.InFlight() {
				return m, nil
			}
			m.sending = true
			m.input.SetValue("")
			m = m.syncTranscriptWith(value)
			return m, m.sendChatCmd(value)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.deps.Sessions.Sessions()
	switch msg.String() {
	case "up", "k":
		if m.sessionCursor > 0 {
			m.sessionCursor--
		}
	case "down", "j":
		if m.sessionCursor < len(sessions)-1 {
			m.sessionCursor++
		}
	case "enter":
		if s, ok := m.cursorSession(); ok {
			return m, m.loadSessionCmd(s.Id)
		}
	case "d":
		if s, ok := m.cursorSession(); ok && !m.deps.Sessions.IsPendingDelete(s.Id) {
			return m, m.deleteSessionCmd(s.Id)
		}
	case "r":
		if s, ok := m.cursorSession(); ok {
			m.mode = modeRename
			m.renameTarget = s.Id
			m.focus = focusInput
			m.input.SetValue(s.Title)
			m.input.CursorEnd()
			m.input.Placeholder = "New chat title"
			m.input.Focus()
		}
	case "e":
		return m, m.exportSessionCmd()
	}
	return m, nil
}

func (m Model) handleDocumentsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	docs := m.deps.Documents.Documents()
	switch msg.String() {
	case "up", "k":
		if m.documentCursor > 0 {
			m.documentCursor--
		}
	case "down", "j":
		if m.documentCursor < len(docs)-1 {
			m.documentCursor++
		}
	case " ", "enter":
		if m.documentCursor < len(docs) {
			m.deps.Documents.Toggle(docs[m.documentCursor].Id)
		}
	case "a":
		m.deps.Documents.ToggleAll()
	case "d":
		if m.documentCursor < len(docs) {
			id := docs[m.documentCursor].Id
			if !m.deps.Documents.IsPendingDelete(id) {
				return m, m.deleteDocumentCmd(id)
			}
		}
	}
	return m, nil
}

func (m Model) handleModelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.models == nil {
		return m, nil
	}
	switch msg.String() {
	case "up", "k":
		if m.modelCursor > 0 {
			m.modelCursor--
		}
	case "down", "j":
		if m.modelCursor < len(m.models.Available)-1 {
			m.modelCursor++
		}
	case "enter":
		if m.modelCursor < len(m.models.Available) {
			name := m.models.Available[m.modelCursor]
			m.mode = modeChat
			return m, m.changeModelCmd(name)
		}
	}
	return m, nil
}

func (m Model) handleConfirmClearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeChat
		return m, m.clearAllCmd()
	default:
		m.mode = modeChat
		return m, nil
	}
}

func (m Model) toggleListen() (tea.Model, tea.Cmd) {
	if !m.deps.Speech.CanListen() {
		return m.setError("Voice input is not available on this machine"), nil
	}
	rec := m.deps.Speech.Recognizer
	if m.listening {
		rec.Stop()
		return m, nil
	}
	ch, err := rec.Start(context.Background())
	if err != nil {
		return m.setError("Could not start listening"), nil
	}
	m.listening = true
	m.interim = ""
	m.listenCh = ch
	m.stopListen = rec.Stop
	return m, waitTranscript(ch)
}

func (m Model) toggleSpeak() (tea.Model, tea.Cmd) {
	if !m.deps.Speech.CanSpeak() {
		return m.setError("Read-aloud is not available on this machine"), nil
	}
	synth := m.deps.Speech.Synthesizer
	switch synth.State() {
	case speech.SynthSpeaking:
		synth.Pause()
	case speech.SynthPaused:
		synth.Resume()
	default:
		if text, ok := lastAssistantText(m.deps.Sessions.Messages()); ok {
			synth.Speak(text)
		}
	}
	return m, nil
}

func (m Model) cycleFocus() Model {
	switch m.focus {
	case focusInput:
		m.focus = focusSessions
		m.input.Blur()
	case focusSessions:
		m.focus = focusDocuments
	default:
		m.focus = focusInput
		m.input.Focus()
	}
	return m
}

func (m Model) cursorSession() (s struct{ Id, Title string }, ok bool) {
	sessions := m.deps.Sessions.Sessions()
	if m.sessionCursor < 0 || m.sessionCursor >= len(sessions) {
		return s, false
	}
	s.Id = sessions[m.sessionCursor].Id
	s.Title = sessions[m.sessionCursor].Title
	return s, true
}

func (m Model) clampCursors() Model {
	if n := len(m.deps.Sessions.Sessions()); m.sessionCursor >= n {
		m.sessionCursor = maxInt(0, n-1)
	}
	if n := len(m.deps.Documents.Documents()); m.documentCursor >= n {
		m.documentCursor = maxInt(0, n-1)
	}
	return m
}

func (m Model) setStatus(s string) Model {
	m.status = s
	m.statusIsErr = false
	return m
}

func (m Model) setError(s string) Model {
	m.status = s
	m.statusIsErr = true
	return m
}

func uploadSummary(r *service.BatchResult) string {
	if r == nil {
		return ""
	}
	if len(r.Failures) == 0 {
		return fmt.Sprintf("Uploaded %d file(s)", r.Succeeded)
	}
	names := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("Uploaded %d file(s), failed: %s", r.Succeeded, strings.Join(names, ", "))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
