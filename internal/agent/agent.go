// Package agent implements the chat orchestrator: one user turn per
// call, coordinating bounded history, the retrieval-augmented LLM
// exchange, and persistence.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/docseekhq/docseek/internal/history"
	"github.com/docseekhq/docseek/internal/llm"
	"github.com/docseekhq/docseek/internal/models"
)

// Retriever is the tool surface the model may call during a turn.
// *mcp.Manager implements it; tests substitute stubs.
type Retriever interface {
	ToolSpecs() []llm.ToolSpec
	CallTool(ctx context.Context, name string, args map[string]any) (content string, isError bool, err error)
}

// Options tune one agent instance.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int

	// ChatTimeout bounds one logical turn, retrieval rounds included.
	// The source of the hangs this guards against is the external
	// call, so expiry surfaces as an error outcome.
	ChatTimeout time.Duration

	// MaxToolRounds caps retrieval iterations within one turn.
	MaxToolRounds int
}

// Agent executes chat turns. Each turn runs to exactly one of two
// terminal outcomes: complete with the answer text, or error with a
// failure description. Nothing is persisted on the error path.
type Agent struct {
	store     *history.Store
	client    llm.Client
	retriever Retriever
	opts      Options
}

// New creates an agent. The retriever's session must already be
// connected; its lifecycle belongs to the caller.
func New(store *history.Store, client llm.Client, retriever Retriever, opts Options) *Agent {
	if opts.ChatTimeout <= 0 {
		opts.ChatTimeout = 120 * time.Second
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = 8
	}
	return &Agent{store: store, client: client, retriever: retriever, opts: opts}
}

// Chat processes one user message against the named conversation.
// On success the user message and the full assistant answer are
// persisted, user first. On any failure nothing from the turn is
// persisted, so the stored history never holds a dangling question.
func (a *Agent) Chat(ctx context.Context, message, conversationID string) models.ChatResult {
	ctx, cancel := context.WithTimeout(ctx, a.opts.ChatTimeout)
	defer cancel()

	answer, err := a.runExchange(ctx, a.store.Messages(conversationID), message)
	if err != nil {
		log.Printf("agent: turn failed for %s: %v", conversationID, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Errored(fmt.Sprintf("timed out after %s", a.opts.ChatTimeout))
		}
		return models.Errored(err.Error())
	}

	a.store.AddMessage(conversationID, models.RoleUser, message)
	a.store.AddMessage(conversationID, models.RoleAssistant, answer)
	return models.Complete(answer)
}

// runExchange drives the retrieval loop: call the model, dispatch any
// requested tool calls, feed their outputs back, and repeat until the
// model answers in text or the round cap is hit.
func (a *Agent) runExchange(ctx context.Context, prior []models.PromptMessage, message string) (string, error) {
	turn := []llm.Item{{Type: llm.ItemUserMessage, Content: message}}
	specs := a.retriever.ToolSpecs()

	for round := 0; round < a.opts.MaxToolRounds; round++ {
		resp, err := a.client.Complete(ctx, llm.Request{
			Model:       a.opts.Model,
			Temperature: a.opts.Temperature,
			MaxTokens:   a.opts.MaxTokens,
			System:      llm.SystemPrompt,
			History:     prior,
			Turn:        turn,
			Tools:       specs,
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}

		turn = append(turn, resp.Items...)

		var calls []llm.Item
		var text string
		for _, item := range resp.Items {
			switch item.Type {
			case llm.ItemToolCall:
				calls = append(calls, item)
			case llm.ItemAssistantMessage:
				if item.Content != "" {
					text = item.Content
				}
			}
		}

		if len(calls) == 0 {
			if text == "" {
				return "", errors.New("model returned an empty response")
			}
			return text, nil
		}

		for _, call := range calls {
			turn = append(turn, a.dispatch(ctx, call))
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("no answer after %d retrieval rounds", a.opts.MaxToolRounds)
}

// dispatch executes one tool call. Tool failures are fed back to the
// model as error outputs rather than failing the turn: the model is
// instructed to report retrieval misses itself.
func (a *Agent) dispatch(ctx context.Context, call llm.Item) llm.Item {
	var args map[string]any
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return llm.Item{
			Type:    llm.ItemToolOutput,
			CallID:  call.CallID,
			Content: fmt.Sprintf("invalid tool arguments: %v", err),
			IsError: true,
		}
	}

	content, isError, err := a.retriever.CallTool(ctx, call.Name, args)
	if err != nil {
		return llm.Item{
			Type:    llm.ItemToolOutput,
			CallID:  call.CallID,
			Content: fmt.Sprintf("tool call failed: %v", err),
			IsError: true,
		}
	}
	return llm.Item{
		Type:    llm.ItemToolOutput,
		CallID:  call.CallID,
		Content: content,
		IsError: isError,
	}
}

// Conversations exposes the store's summaries to the shell.
func (a *Agent) Conversations() []models.ConversationSummary {
	return a.store.Conversations()
}

// ClearHistory deletes one conversation.
func (a *Agent) ClearHistory(conversationID string) {
	a.store.Clear(conversationID)
}

// ClearAllHistory deletes every conversation.
func (a *Agent) ClearAllHistory() {
	a.store.ClearAll()
}

// Messages exposes a conversation's prompt-shaped messages.
func (a *Agent) Messages(conversationID string) []models.PromptMessage {
	return a.store.Messages(conversationID)
}
