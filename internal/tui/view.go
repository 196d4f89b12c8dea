package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/entity"
)

const sidebarWidth = 32

func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	chatWidth := maxInt(msg.Width-sidebarWidth-2, 20)
	chatHeight := maxInt(msg.Height-7, 5)
	if !m.ready {
		m.viewport = viewport.New(chatWidth, chatHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}
	m.input.Width = maxInt(msg.Width-6, 20)

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-2),
	)
	return m.syncTranscript()
}

// syncTranscript re-renders the viewport from the session store. Called
// after every message that can change the transcript.
func (m Model) syncTranscript() Model {
	return m.syncTranscriptWith("")
}

// syncTranscriptWith additionally shows pending as a user line, covering
// the gap between pressing Enter and the send landing in the store.
func (m Model) syncTranscriptWith(pending string) Model {
	if !m.ready {
		return m
	}
	var b strings.Builder
	for _, msg := range m.deps.Sessions.Messages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if pending != "" {
		b.WriteString(m.styles.UserLabel.Render("You") + "  " + pending + "\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
	return m
}

func (m Model) renderMessage(msg entity.ChatMessage) string {
	var b strings.Builder
	if msg.Role == constant.ChatMessageRoleUser {
		b.WriteString(m.styles.UserLabel.Render("You") + "  " + msg.Content + "\n")
		return b.String()
	}

	b.WriteString(m.styles.BotLabel.Render("Bot") + "\n")
	content := msg.Content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n") + "\n"
		}
	}
	b.WriteString(content)

	for _, src := range msg.Sources {
		line := src.Source
		if src.Content != "" {
			line += ": " + truncate(src.Content, 80)
		}
		b.WriteString(m.styles.SourceBlock.Render("• "+line) + "\n")
	}
	if msg.Confidence != "" && msg.Confidence != constant.ConfidenceUnknown {
		b.WriteString(m.styles.Confidence.Render("confidence: "+msg.Confidence) + "\n")
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Sidebar.Width(sidebarWidth).Render(m.renderSidebar()),
		m.viewport.View(),
	)
	footer := m.renderFooter()

	return header + "\n" + body + "\n" + footer
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("DocuChat")
	backend := m.styles.StatusBar.Render(m.deps.Backend)
	model := ""
	if m.models != nil && m.models.Current != "" {
		model = m.styles.StatusBar.Render("model: " + m.models.Current)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", backend, "  ", model)
}

func (m Model) renderSidebar() string {
	var b strings.Builder

	b.WriteString(m.styles.SidebarTitle.Render("Chats") + "\n")
	sessions := m.deps.Sessions.Sessions()
	if len(sessions) == 0 {
		b.WriteString(m.styles.Help.Render("none yet") + "\n")
	}
	for i, s := range sessions {
		label := truncate(s.Title, sidebarWidth-6)
		if s.MessageCount > 0 {
			label = fmt.Sprintf("%s (%d)", label, s.MessageCount)
		}
		style := m.styles.ItemNormal
		switch {
		case m.deps.Sessions.IsPendingDelete(s.Id):
			style = m.styles.ItemPending
		case s.Id == m.deps.Sessions.ActiveId():
			style = m.styles.ItemActive
		}
		if m.focus == focusSessions && i == m.sessionCursor {
			style = m.styles.ItemCursor
		}
		b.WriteString(style.Render(label) + "\n")
	}

	b.WriteString("\n" + m.styles.SidebarTitle.Render("Documents") + "\n")
	docs := m.deps.Documents.Documents()
	if len(docs) == 0 {
		b.WriteString(m.styles.Help.Render("none uploaded") + "\n")
	}
	for i, d := range docs {
		marker := "[ ]"
		if m.deps.Documents.IsSelected(d.Id) {
			marker = "[x]"
		}
		label := fmt.Sprintf("%s %s", marker, truncate(d.Name, sidebarWidth-8))
		style := m.styles.ItemNormal
		if m.deps.Documents.IsPendingDelete(d.Id) {
			style = m.styles.ItemPending
		}
		if m.focus == focusDocuments && i == m.documentCursor {
			style = m.styles.ItemCursor
		}
		b.WriteString(style.Render(label) + "\n")
	}

	if m.mode == modeModels && m.models != nil {
		b.WriteString("\n" + m.styles.SidebarTitle.Render("Models") + "\n")
		for i, name := range m.models.Available {
			style := m.styles.ItemNormal
			if name == m.models.Current {
				style = m.styles.ItemActive
			}
			if i == m.modelCursor {
				style = m.styles.ItemCursor
			}
			b.WriteString(style.Render(name) + "\n")
		}
	}

	return b.String()
}

func (m Model) renderFooter() string {
	var b strings.Builder

	if m.sending || m.deps.Chat.InFlight() {
		b.WriteString(m.spin.View() + " Thinking...\n")
	} else if m.listening {
		line := m.spin.View() + " Listening..."
		if m.interim != "" {
			line += " " + m.interim
		}
		b.WriteString(line + "\n")
	} else if m.mode == modeConfirmClear {
		b.WriteString(m.styles.StatusError.Render("Delete ALL documents and chats? y/n") + "\n")
	} else {
		b.WriteString(m.styles.InputBox.Render(m.input.View()) + "\n")
	}

	status := m.status
	style := m.styles.StatusBar
	if m.statusIsErr {
		style = m.styles.StatusError
	}
	b.WriteString(style.Render(status) + "\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeUpload:
		return "enter upload  esc cancel"
	case modeRename:
		return "enter rename  esc cancel"
	case modeModels:
		return "↑/↓ choose  enter switch  esc close"
	}
	switch m.focus {
	case focusSessions:
		return "↑/↓ move  enter open  r rename  d delete  e export  tab next pane"
	case focusDocuments:
		return "↑/↓ move  space select  a all  d delete  tab next pane"
	}
	help := "enter send  tab panes  ^N new  ^U upload  ^E export  ^L clear  ^P models  ^K wipe"
	if m.deps.Speech.CanListen() {
		help += "  ^V voice"
	}
	if m.deps.Speech.CanSpeak() {
		help += "  ^S speak"
	}
	return help
}

func lastAssistantText(messages []entity.ChatMessage) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.ChatMessageRoleAssistant {
			return messages[i].Content, true
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
