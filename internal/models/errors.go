package models

import "fmt"

// ErrorType categorizes failures from the LLM and retrieval boundaries.
type ErrorType int

const (
	ErrorTypeTransient       ErrorType = iota // network, timeout, 5xx
	ErrorTypeContextOverflow                  // context window exceeded
	ErrorTypeAPILimit                         // rate limit
	ErrorTypeFatal                            // unrecoverable client error
)

// String returns the string representation of ErrorType.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypeContextOverflow:
		return "ContextOverflow"
	case ErrorTypeAPILimit:
		return "APILimit"
	case ErrorTypeFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// AgentError is a categorized error from an external boundary. The
// orchestrator converts every AgentError into a ChatResult with an
// error outcome; none escape past it.
type AgentError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// NewTransientError creates a transient (retryable) error.
func NewTransientError(message string) *AgentError {
	return &AgentError{Type: ErrorTypeTransient, Message: message}
}

// NewContextOverflowError creates a context overflow error.
func NewContextOverflowError(message string) *AgentError {
	return &AgentError{Type: ErrorTypeContextOverflow, Message: message}
}

// NewAPILimitError creates an API rate limit error.
func NewAPILimitError(message string) *AgentError {
	return &AgentError{Type: ErrorTypeAPILimit, Message: message}
}

// NewFatalError creates a fatal error.
func NewFatalError(message string) *AgentError {
	return &AgentError{Type: ErrorTypeFatal, Message: message}
}
