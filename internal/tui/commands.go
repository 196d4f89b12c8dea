package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"docuchat-cli/internal/service"
	"docuchat-cli/pkg/speech"
)

// Messages emitted by background commands. Every command re-reads the
// shared stores after it lands, so messages carry errors and results but
// never copies of store state.
type (
	refreshedMsg      struct{ err error }
	chatDoneMsg       struct{ err error }
	sessionCreatedMsg struct{ err error }
	sessionLoadedMsg  struct{ err error }
	sessionRenamedMsg struct {
		called bool
		err    error
	}
	sessionDeletedMsg struct{ err error }
	exportDoneMsg     struct {
		result *service.ExportResult
		err    error
	}
	docDeletedMsg struct{ err error }
	uploadDoneMsg struct {
		result *service.BatchResult
		err    error
	}
	modelsLoadedMsg struct {
		state *service.ModelState
		err   error
	}
	modelChangedMsg struct {
		name string
		err  error
	}
	clearedAllMsg struct{ err error }
	transcriptMsg speech.Transcript
	listenDoneMsg struct{}
)

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Documents.Refresh(context.Background()); err != nil {
			return refreshedMsg{err: err}
		}
		return refreshedMsg{err: m.deps.Sessions.Refresh(context.Background())}
	}
}

func (m Model) sendChatCmd(input string) tea.Cmd {
	return func() tea.Msg {
		return chatDoneMsg{err: m.deps.Chat.Send(context.Background(), input)}
	}
}

func (m Model) createSessionCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.deps.Sessions.Create(context.Background())
		return sessionCreatedMsg{err: err}
	}
}

func (m Model) loadSessionCmd(sessionId string) tea.Cmd {
	return func() tea.Msg {
		return sessionLoadedMsg{err: m.deps.Sessions.Load(context.Background(), sessionId)}
	}
}

func (m Model) renameSessionCmd(sessionId, title string) tea.Cmd {
	return func() tea.Msg {
		called, err := m.deps.Sessions.Rename(context.Background(), sessionId, title)
		return sessionRenamedMsg{called: called, err: err}
	}
}

func (m Model) deleteSessionCmd(sessionId string) tea.Cmd {
	return func() tea.Msg {
		return sessionDeletedMsg{err: m.deps.Sessions.Delete(context.Background(), sessionId)}
	}
}

func (m Model) exportSessionCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.deps.Sessions.Export(context.Background())
		return exportDoneMsg{result: result, err: err}
	}
}

func (m Model) deleteDocumentCmd(docId string) tea.Cmd {
	return func() tea.Msg {
		return docDeletedMsg{err: m.deps.Documents.Delete(context.Background(), docId)}
	}
}

func (m Model) uploadCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		files := make([]service.FileUpload, 0, len(paths))
		for _, p := range paths {
			files = append(files, service.NewFileUpload(p))
		}
		result, err := m.deps.Uploads.Upload(context.Background(), files)
		return uploadDoneMsg{result: result, err: err}
	}
}

func (m Model) loadModelsCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.deps.Models.Models(context.Background())
		return modelsLoadedMsg{state: state, err: err}
	}
}

func (m Model) changeModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return modelChangedMsg{name: name, err: m.deps.Models.Change(context.Background(), name)}
	}
}

func (m Model) clearAllCmd() tea.Cmd {
	return func() tea.Msg {
		return clearedAllMsg{err: m.deps.System.ClearAllData(context.Background())}
	}
}

// waitTranscript relays one recognition update into the update loop. The
// channel closing means the utterance ended.
func waitTranscript(ch <-chan speech.Transcript) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return listenDoneMsg{}
		}
		return transcriptMsg(t)
	}
}
