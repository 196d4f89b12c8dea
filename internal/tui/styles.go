package tui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title        lipgloss.Style
	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	Sidebar      lipgloss.Style
	SidebarTitle lipgloss.Style
	ItemActive   lipgloss.Style
	ItemCursor   lipgloss.Style
	ItemPending  lipgloss.Style
	ItemNormal   lipgloss.Style
	UserLabel    lipgloss.Style
	BotLabel     lipgloss.Style
	SourceBlock  lipgloss.Style
	Confidence   lipgloss.Style
	Help         lipgloss.Style
	InputBox     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		StatusBar:    lipgloss.NewStyle().Faint(true),
		StatusError:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Sidebar:      lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderRight(true).PaddingRight(1),
		SidebarTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		ItemActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		ItemCursor:   lipgloss.NewStyle().Reverse(true),
		ItemPending:  lipgloss.NewStyle().Faint(true).Strikethrough(true),
		ItemNormal:   lipgloss.NewStyle(),
		UserLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		BotLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		SourceBlock:  lipgloss.NewStyle().Faint(true).PaddingLeft(2),
		Confidence:   lipgloss.NewStyle().Faint(true).Italic(true),
		Help:         lipgloss.NewStyle().Faint(true),
		InputBox:     lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}
