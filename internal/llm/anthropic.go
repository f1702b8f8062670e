package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/docseekhq/docseek/internal/models"
)

// AnthropicClient implements Client using Anthropic's Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic client. baseURL overrides the
// API endpoint when non-empty.
func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Complete sends one request and returns the complete response.
func (c *AnthropicClient) Complete(ctx context.Context, request Request) (Response, error) {
	messages, err := c.buildMessages(request)
	if err != nil {
		return Response{}, fmt.Errorf("failed to build messages: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     selectAnthropicModel(request.Model),
		MaxTokens: int64(request.MaxTokens),
		Messages:  messages,
	}
	if request.System != "" {
		// Cacheable: the system prompt is identical across every turn.
		params.System = []anthropic.TextBlockParam{{
			Text: request.System,
			CacheControl: anthropic.CacheControlEphemeralParam{
				TTL: anthropic.CacheControlEphemeralTTLTTL5m,
			},
		}}
	}
	if request.Temperature > 0 {
		params.Temperature = anthropic.Float(request.Temperature)
	}
	if len(request.Tools) > 0 {
		params.Tools = c.buildToolDefinitions(request.Tools)
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, classifyAnthropicError(err)
	}

	items, finishReason := c.parseResponse(response)

	return Response{
		Items:        items,
		FinishReason: finishReason,
		Usage: Usage{
			PromptTokens:     int(response.Usage.InputTokens),
			CompletionTokens: int(response.Usage.OutputTokens),
			TotalTokens:      int(response.Usage.InputTokens + response.Usage.OutputTokens),
		},
	}, nil
}

// selectAnthropicModel maps model names to Anthropic's Model type.
func selectAnthropicModel(modelName string) anthropic.Model {
	switch modelName {
	case "claude-sonnet-4.5", "claude-sonnet-4.5-20250929":
		return anthropic.ModelClaudeSonnet4_5_20250929
	case "claude-haiku-4.5", "claude-haiku-4.5-20251001":
		return anthropic.ModelClaudeHaiku4_5_20251001
	case "claude-3.7-sonnet-20250219":
		return anthropic.ModelClaude3_7Sonnet20250219
	case "claude-3.5-haiku-20241022":
		return anthropic.ModelClaude3_5Haiku20241022
	default:
		return anthropic.ModelClaudeSonnet4_5_20250929
	}
}

// buildMessages converts stored history plus the current turn to
// Anthropic's message format. Tool use blocks belong to assistant
// messages; tool results travel in user messages.
func (c *AnthropicClient) buildMessages(request Request) ([]anthropic.MessageParam, error) {
	messages := make([]anthropic.MessageParam, 0, len(request.History)+len(request.Turn))

	for _, msg := range request.History {
		role := anthropic.MessageParamRoleUser
		if msg.Role == models.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		messages = append(messages, anthropic.MessageParam{
			Role: role,
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: msg.Content},
			}},
		})
	}

	i := 0
	turn := request.Turn
	for i < len(turn) {
		item := turn[i]

		switch item.Type {
		case ItemUserMessage:
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{Text: item.Content},
				}},
			})
			i++

		case ItemAssistantMessage, ItemToolCall:
			// Group assistant text with any immediately following tool
			// calls into a single assistant message.
			content := make([]anthropic.ContentBlockParamUnion, 0)
			if item.Type == ItemAssistantMessage {
				if item.Content != "" {
					content = append(content, anthropic.ContentBlockParamUnion{
						OfText: &anthropic.TextBlockParam{Text: item.Content},
					})
				}
				i++
			}
			for i < len(turn) && turn[i].Type == ItemToolCall {
				call := turn[i]
				var inputMap map[string]any
				if err := json.Unmarshal([]byte(call.Arguments), &inputMap); err != nil {
					return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
				}
				content = append(content, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.CallID,
						Name:  call.Name,
						Input: inputMap,
					},
				})
				i++
			}
			if len(content) > 0 {
				messages = append(messages, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: content,
				})
			}

		case ItemToolOutput:
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: item.CallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: item.Content},
						}},
						IsError: anthropic.Bool(item.IsError),
					},
				}},
			})
			i++

		default:
			i++
		}
	}

	return messages, nil
}

// buildToolDefinitions converts ToolSpecs to Anthropic tool definitions.
func (c *AnthropicClient) buildToolDefinitions(specs []ToolSpec) []anthropic.ToolUnionParam {
	toolDefs := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		inputSchema := anthropic.ToolInputSchemaParam{}
		if spec.InputSchema != nil {
			if props, ok := spec.InputSchema["properties"]; ok {
				inputSchema.Properties = props
			}
			if req, ok := spec.InputSchema["required"].([]any); ok {
				required := make([]string, 0, len(req))
				for _, r := range req {
					if s, ok := r.(string); ok {
						required = append(required, s)
					}
				}
				inputSchema.Required = required
			}
		}
		toolDefs = append(toolDefs, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        spec.Name,
				Description: anthropic.String(spec.Description),
				InputSchema: inputSchema,
			},
		})
	}
	return toolDefs
}

// parseResponse converts Anthropic's response to Items.
func (c *AnthropicClient) parseResponse(response *anthropic.Message) ([]Item, FinishReason) {
	items := make([]Item, 0)
	finishReason := FinishStop

	for _, contentBlock := range response.Content {
		switch contentBlock.Type {
		case "text":
			textBlock := contentBlock.AsText()
			if textBlock.Text != "" {
				items = append(items, Item{Type: ItemAssistantMessage, Content: textBlock.Text})
			}

		case "tool_use":
			toolBlock := contentBlock.AsToolUse()
			finishReason = FinishToolCalls

			argsJSON, err := json.Marshal(toolBlock.Input)
			if err != nil {
				argsJSON = []byte("{}")
			}
			items = append(items, Item{
				Type:      ItemToolCall,
				CallID:    toolBlock.ID,
				Name:      toolBlock.Name,
				Arguments: string(argsJSON),
			})
		}
	}

	if len(items) == 0 {
		items = append(items, Item{Type: ItemAssistantMessage})
	}

	switch response.StopReason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		finishReason = FinishStop
	case anthropic.StopReasonToolUse:
		finishReason = FinishToolCalls
	case anthropic.StopReasonMaxTokens:
		finishReason = FinishLength
	}

	return items, finishReason
}

// classifyAnthropicError categorizes an Anthropic API error using the
// HTTP status code when available, falling back to message heuristics.
func classifyAnthropicError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "context_length") || strings.Contains(errMsg, "too many tokens") {
		return models.NewContextOverflowError(err.Error())
	}

	if apiErr, ok := err.(*anthropic.Error); ok {
		return classifyByStatusCode(apiErr.StatusCode, err)
	}

	if strings.Contains(errMsg, "rate_limit") || strings.Contains(errMsg, "rate limit") {
		return models.NewAPILimitError(err.Error())
	}
	return models.NewTransientError(fmt.Sprintf("Anthropic API error: %v", err))
}
