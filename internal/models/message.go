// Package models contains shared value types for docseek.
package models

// Role identifies who produced a message. Only user and assistant turns
// are stored; system instructions live with the LLM client.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one stored conversation turn. Timestamp is assigned by the
// history store at insertion time, ISO-8601.
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// PromptMessage is the two-field shape handed to the LLM client.
// No other keys may appear: providers reject unknown message fields,
// so the narrowing from Message happens exactly once, in the store.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationSummary describes one conversation for the /history view.
type ConversationSummary struct {
	ID           string `json:"id"`
	LastMessage  string `json:"last_message"`
	MessageCount int    `json:"message_count"`
}

// ChatOutcome discriminates the two terminal states of a chat turn.
type ChatOutcome string

const (
	OutcomeComplete ChatOutcome = "complete"
	OutcomeError    ChatOutcome = "error"
)

// ChatResult is the transient result of one chat turn. It is never
// persisted; the TUI consumes it immediately.
//
// Text is set when Outcome is OutcomeComplete, Detail when OutcomeError.
type ChatResult struct {
	Outcome ChatOutcome `json:"outcome"`
	Text    string      `json:"text,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// Complete builds a successful ChatResult.
func Complete(text string) ChatResult {
	return ChatResult{Outcome: OutcomeComplete, Text: text}
}

// Errored builds a failed ChatResult.
func Errored(detail string) ChatResult {
	return ChatResult{Outcome: OutcomeError, Detail: detail}
}
