package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docseekhq/docseek/internal/models"
)

// Service is the upstream surface the shell depends on. *agent.Agent
// implements it; tests substitute stubs.
type Service interface {
	Chat(ctx context.Context, message, conversationID string) models.ChatResult
	Conversations() []models.ConversationSummary
	ClearHistory(conversationID string)
}

// CommandKind identifies a parsed slash command.
type CommandKind int

const (
	CmdNone CommandKind = iota // free text, not a command
	CmdHelp
	CmdExit
	CmdClear
	CmdHistory
	CmdTheme
	CmdNew
	CmdSwitch
	CmdUnknown
)

// Command is one parsed input line.
type Command struct {
	Kind CommandKind
	Arg  string
	Raw  string
}

// ParseCommand routes an input line: slash commands are decided here
// and only here; everything else is free text for the agent.
func ParseCommand(input string) Command {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: CmdNone, Raw: trimmed}
	}

	parts := strings.Fields(trimmed)
	name := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch name {
	case "/help":
		return Command{Kind: CmdHelp, Raw: trimmed}
	case "/exit", "/quit":
		return Command{Kind: CmdExit, Raw: trimmed}
	case "/clear":
		return Command{Kind: CmdClear, Raw: trimmed}
	case "/history":
		return Command{Kind: CmdHistory, Raw: trimmed}
	case "/theme":
		return Command{Kind: CmdTheme, Arg: strings.ToLower(arg), Raw: trimmed}
	case "/new":
		return Command{Kind: CmdNew, Raw: trimmed}
	case "/switch":
		return Command{Kind: CmdSwitch, Arg: arg, Raw: trimmed}
	default:
		return Command{Kind: CmdUnknown, Arg: name, Raw: trimmed}
	}
}

// chatCmd runs one turn against the service off the UI goroutine.
func chatCmd(svc Service, message, conversationID string) tea.Cmd {
	return func() tea.Msg {
		result := svc.Chat(context.Background(), message, conversationID)
		return ChatResultMsg{ConversationID: conversationID, Result: result}
	}
}
