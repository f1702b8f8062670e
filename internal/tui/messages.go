package tui

import "github.com/docseekhq/docseek/internal/models"

// ChatResultMsg carries one finished turn's outcome back to the model.
type ChatResultMsg struct {
	ConversationID string
	Result         models.ChatResult
}
