package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docseekhq/docseek/internal/models"
)

func TestClassifyByStatusCode(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name   string
		status int
		want   models.ErrorType
	}{
		{"rate limit", 429, models.ErrorTypeAPILimit},
		{"request timeout", 408, models.ErrorTypeTransient},
		{"conflict", 409, models.ErrorTypeTransient},
		{"bad request", 400, models.ErrorTypeFatal},
		{"unauthorized", 401, models.ErrorTypeFatal},
		{"server error", 500, models.ErrorTypeTransient},
		{"bad gateway", 502, models.ErrorTypeTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyByStatusCode(tt.status, base)
			assert.Equal(t, tt.want, err.Type)
		})
	}
}

func TestClassifyOpenAIError_ContextOverflow(t *testing.T) {
	err := classifyOpenAIError(errors.New("maximum context length exceeded"))
	var agentErr *models.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, models.ErrorTypeContextOverflow, agentErr.Type)
}

func TestClassifyAnthropicError_RateLimitFallback(t *testing.T) {
	err := classifyAnthropicError(errors.New("rate limit reached, slow down"))
	var agentErr *models.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, models.ErrorTypeAPILimit, agentErr.Type)
}

func TestNewClient_Dispatch(t *testing.T) {
	c, err := NewClient("openai", "key", "")
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient("anthropic", "key", "")
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, c)

	_, err = NewClient("cohere", "key", "")
	assert.Error(t, err)
}

func TestOpenAIBuildInput_HistoryAndTurn(t *testing.T) {
	c := NewOpenAIClient("key", "")
	input := c.buildInput(Request{
		History: []models.PromptMessage{
			{Role: models.RoleUser, Content: "earlier question"},
			{Role: models.RoleAssistant, Content: "earlier answer"},
		},
		Turn: []Item{
			{Type: ItemUserMessage, Content: "new question"},
			{Type: ItemToolCall, CallID: "call_1", Name: "search", Arguments: `{"query":"x"}`},
			{Type: ItemToolOutput, CallID: "call_1", Content: "docs"},
		},
	})
	assert.Len(t, input, 5)
}

func TestAnthropicBuildMessages_ToolRoundTrip(t *testing.T) {
	c := NewAnthropicClient("key", "")
	msgs, err := c.buildMessages(Request{
		History: []models.PromptMessage{
			{Role: models.RoleUser, Content: "hi"},
		},
		Turn: []Item{
			{Type: ItemUserMessage, Content: "question"},
			{Type: ItemAssistantMessage, Content: "let me search"},
			{Type: ItemToolCall, CallID: "call_1", Name: "search", Arguments: `{"query":"x"}`},
			{Type: ItemToolOutput, CallID: "call_1", Content: "docs"},
		},
	})
	require.NoError(t, err)
	// history user, turn user, assistant (text + tool_use merged), tool result
	require.Len(t, msgs, 4)
	assert.Len(t, msgs[2].Content, 2, "assistant text and tool_use share one message")
}

func TestAnthropicBuildMessages_BadToolArguments(t *testing.T) {
	c := NewAnthropicClient("key", "")
	_, err := c.buildMessages(Request{
		Turn: []Item{
			{Type: ItemToolCall, CallID: "call_1", Name: "search", Arguments: "{broken"},
		},
	})
	assert.Error(t, err)
}

func TestSelectAnthropicModel_Default(t *testing.T) {
	assert.Equal(t, selectAnthropicModel("claude-sonnet-4.5"), selectAnthropicModel("something-unknown"))
}
