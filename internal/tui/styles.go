package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/docseekhq/docseek/internal/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from the
// active theme.
type Styles struct {
	// Banner at startup and after a theme switch
	Banner lipgloss.Style
	// "You" prompt label
	PromptLabel lipgloss.Style
	// Echoed user message
	UserMessage lipgloss.Style
	// "Assistant" label above answers
	AssistantLabel lipgloss.Style
	// Error block for failed turns
	ErrorBlock lipgloss.Style
	// Informational output (command feedback)
	Info lipgloss.Style
	// Warnings (unknown command, empty history)
	Warning lipgloss.Style
	// /history table header
	TableHeader lipgloss.Style
	// /history table cells
	TableCell lipgloss.Style
	// Separator line between viewport and input
	Separator lipgloss.Style
	// Status bar
	StatusBar lipgloss.Style
	// Spinner message
	SpinnerMessage lipgloss.Style
}

// ThemedStyles builds styles from a theme's palette.
func ThemedStyles(t theme.Theme) Styles {
	return Styles{
		Banner:         lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		PromptLabel:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		UserMessage:    lipgloss.NewStyle().Bold(true),
		AssistantLabel: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		ErrorBlock:     lipgloss.NewStyle().Foreground(t.Error).Border(lipgloss.RoundedBorder()).BorderForeground(t.Error).Padding(0, 1),
		Info:           lipgloss.NewStyle().Foreground(t.Success),
		Warning:        lipgloss.NewStyle().Foreground(t.Warning),
		TableHeader:    lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		TableCell:      lipgloss.NewStyle(),
		Separator:      lipgloss.NewStyle().Faint(true),
		StatusBar:      lipgloss.NewStyle().Faint(true),
		SpinnerMessage: lipgloss.NewStyle().Faint(true),
	}
}

// NoColorStyles returns styles with no colors (plain text).
func NoColorStyles() Styles {
	return Styles{
		Banner:         lipgloss.NewStyle(),
		PromptLabel:    lipgloss.NewStyle(),
		UserMessage:    lipgloss.NewStyle(),
		AssistantLabel: lipgloss.NewStyle(),
		ErrorBlock:     lipgloss.NewStyle(),
		Info:           lipgloss.NewStyle(),
		Warning:        lipgloss.NewStyle(),
		TableHeader:    lipgloss.NewStyle(),
		TableCell:      lipgloss.NewStyle(),
		Separator:      lipgloss.NewStyle(),
		StatusBar:      lipgloss.NewStyle(),
		SpinnerMessage: lipgloss.NewStyle(),
	}
}
