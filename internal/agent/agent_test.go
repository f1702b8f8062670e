package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docseekhq/docseek/internal/history"
	"github.com/docseekhq/docseek/internal/llm"
	"github.com/docseekhq/docseek/internal/models"
)

// scriptedClient returns canned responses in order, recording requests.
type scriptedClient struct {
	responses []llm.Response
	err       error
	requests  []llm.Request
}

func (c *scriptedClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return llm.Response{}, c.err
	}
	if len(c.responses) == 0 {
		return llm.Response{}, errors.New("scripted client exhausted")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

// stubRetriever serves one fixed tool.
type stubRetriever struct {
	content string
	isError bool
	err     error
	calls   []string
}

func (r *stubRetriever) ToolSpecs() []llm.ToolSpec {
	return []llm.ToolSpec{{Name: "mcp__docs__search", Description: "search docs"}}
}

func (r *stubRetriever) CallTool(ctx context.Context, name string, args map[string]any) (string, bool, error) {
	r.calls = append(r.calls, name)
	return r.content, r.isError, r.err
}

func textResponse(text string) llm.Response {
	return llm.Response{
		Items:        []llm.Item{{Type: llm.ItemAssistantMessage, Content: text}},
		FinishReason: llm.FinishStop,
	}
}

func newTestAgent(t *testing.T, client llm.Client, retriever Retriever) (*Agent, *history.Store) {
	t.Helper()
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 50, 50)
	store.Load()
	return New(store, client, retriever, Options{Model: "test-model"}), store
}

func TestChat_SuccessfulTurnPersistsBothMessages(t *testing.T) {
	client := &scriptedClient{responses: []llm.Response{textResponse("hello")}}
	a, store := newTestAgent(t, client, &stubRetriever{})

	result := a.Chat(context.Background(), "hi", "c1")

	assert.Equal(t, models.OutcomeComplete, result.Outcome)
	assert.Equal(t, "hello", result.Text)

	msgs := store.Messages("c1")
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestChat_FailedTurnPersistsNothing(t *testing.T) {
	client := &scriptedClient{err: models.NewTransientError("connection refused")}
	a, store := newTestAgent(t, client, &stubRetriever{})

	result := a.Chat(context.Background(), "hi", "c1")

	assert.Equal(t, models.OutcomeError, result.Outcome)
	assert.Contains(t, result.Detail, "connection refused")
	assert.Empty(t, store.Messages("c1"), "no dangling user-only message")
}

func TestChat_PriorContextSentToModel(t *testing.T) {
	client := &scriptedClient{responses: []llm.Response{textResponse("a"), textResponse("b")}}
	a, _ := newTestAgent(t, client, &stubRetriever{})

	a.Chat(context.Background(), "first", "c1")
	a.Chat(context.Background(), "second", "c1")

	require.Len(t, client.requests, 2)
	assert.Empty(t, client.requests[0].History)
	require.Len(t, client.requests[1].History, 2)
	assert.Equal(t, "first", client.requests[1].History[0].Content)
	assert.Equal(t, "a", client.requests[1].History[1].Content)
}

func TestChat_ToolCallRoundTrip(t *testing.T) {
	client := &scriptedClient{responses: []llm.Response{
		{
			Items: []llm.Item{{
				Type:      llm.ItemToolCall,
				CallID:    "call_1",
				Name:      "mcp__docs__search",
				Arguments: `{"query":"go generics"}`,
			}},
			FinishReason: llm.FinishToolCalls,
		},
		textResponse("generics arrived in Go 1.18"),
	}}
	retriever := &stubRetriever{content: "Go 1.18 release notes..."}
	a, store := newTestAgent(t, client, retriever)

	result := a.Chat(context.Background(), "when did generics land?", "c1")

	assert.Equal(t, models.OutcomeComplete, result.Outcome)
	assert.Equal(t, []string{"mcp__docs__search"}, retriever.calls)

	// Second request carries the call and its output back to the model.
	require.Len(t, client.requests, 2)
	turn := client.requests[1].Turn
	require.Len(t, turn, 3)
	assert.Equal(t, llm.ItemUserMessage, turn[0].Type)
	assert.Equal(t, llm.ItemToolCall, turn[1].Type)
	assert.Equal(t, llm.ItemToolOutput, turn[2].Type)
	assert.Equal(t, "Go 1.18 release notes...", turn[2].Content)

	// Only the final text is persisted, not the tool exchange.
	assert.Len(t, store.Messages("c1"), 2)
}

func TestChat_ToolFailureFedBackNotFatal(t *testing.T) {
	client := &scriptedClient{responses: []llm.Response{
		{
			Items: []llm.Item{{
				Type:      llm.ItemToolCall,
				CallID:    "call_1",
				Name:      "mcp__docs__search",
				Arguments: `{"query":"x"}`,
			}},
			FinishReason: llm.FinishToolCalls,
		},
		textResponse("I could not find any relevant information in the knowledge base to answer your question."),
	}}
	a, _ := newTestAgent(t, client, &stubRetriever{err: errors.New("server gone")})

	result := a.Chat(context.Background(), "q", "c1")

	assert.Equal(t, models.OutcomeComplete, result.Outcome)
	turn := client.requests[1].Turn
	require.Len(t, turn, 3)
	assert.True(t, turn[2].IsError)
	assert.Contains(t, turn[2].Content, "server gone")
}

func TestChat_RoundCapExhausted(t *testing.T) {
	call := llm.Response{
		Items: []llm.Item{{
			Type:      llm.ItemToolCall,
			CallID:    "call_n",
			Name:      "mcp__docs__search",
			Arguments: `{}`,
		}},
		FinishReason: llm.FinishToolCalls,
	}
	client := &scriptedClient{responses: []llm.Response{call, call, call}}
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 50, 50)
	store.Load()
	a := New(store, client, &stubRetriever{}, Options{Model: "m", MaxToolRounds: 3})

	result := a.Chat(context.Background(), "q", "c1")

	assert.Equal(t, models.OutcomeError, result.Outcome)
	assert.Contains(t, result.Detail, "retrieval rounds")
	assert.Empty(t, store.Messages("c1"))
}

// slowClient blocks until its context is cancelled.
type slowClient struct{}

func (slowClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	<-ctx.Done()
	return llm.Response{}, ctx.Err()
}

func TestChat_TimeoutBecomesErrorOutcome(t *testing.T) {
	store := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 50, 50)
	store.Load()
	a := New(store, slowClient{}, &stubRetriever{}, Options{Model: "m", ChatTimeout: 20 * time.Millisecond})

	result := a.Chat(context.Background(), "q", "c1")

	assert.Equal(t, models.OutcomeError, result.Outcome)
	assert.Contains(t, result.Detail, "timed out")
	assert.Empty(t, store.Messages("c1"))
}

func TestChat_EmptyModelResponseIsError(t *testing.T) {
	client := &scriptedClient{responses: []llm.Response{{
		Items:        []llm.Item{{Type: llm.ItemAssistantMessage}},
		FinishReason: llm.FinishStop,
	}}}
	a, store := newTestAgent(t, client, &stubRetriever{})

	result := a.Chat(context.Background(), "q", "c1")

	assert.Equal(t, models.OutcomeError, result.Outcome)
	assert.Empty(t, store.Messages("c1"))
}
