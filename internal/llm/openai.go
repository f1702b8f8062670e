package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/docseekhq/docseek/internal/models"
)

// OpenAIClient implements Client using OpenAI's Responses API.
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates an OpenAI client. baseURL overrides the API
// endpoint when non-empty (for OpenAI-compatible gateways).
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete sends one request and returns the complete response:
// an assistant message item for text, separate tool call items per call.
func (c *OpenAIClient) Complete(ctx context.Context, request Request) (Response, error) {
	input := c.buildInput(request)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(request.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam(input),
		},
	}
	if request.System != "" {
		params.Instructions = openai.String(request.System)
	}
	if request.Temperature > 0 {
		params.Temperature = openai.Float(request.Temperature)
	}
	if request.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(request.MaxTokens))
	}
	if len(request.Tools) > 0 {
		params.Tools = c.buildToolDefinitions(request.Tools)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return Response{}, classifyOpenAIError(err)
	}

	items, finishReason := c.parseOutput(resp)

	return Response{
		Items:        items,
		FinishReason: finishReason,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildInput converts stored history plus the current turn's exchange
// to Responses API input items.
func (c *OpenAIClient) buildInput(request Request) []responses.ResponseInputItemUnionParam {
	items := make([]responses.ResponseInputItemUnionParam, 0, len(request.History)+len(request.Turn))

	for _, msg := range request.History {
		items = append(items, c.messageItem(msg.Role, msg.Content))
	}

	for _, item := range request.Turn {
		switch item.Type {
		case ItemUserMessage:
			items = append(items, c.messageItem(models.RoleUser, item.Content))

		case ItemAssistantMessage:
			items = append(items, c.messageItem(models.RoleAssistant, item.Content))

		case ItemToolCall:
			items = append(items, responses.ResponseInputItemUnionParam{
				OfFunctionCall: &responses.ResponseFunctionToolCallParam{
					CallID:    item.CallID,
					Name:      item.Name,
					Arguments: item.Arguments,
				},
			})

		case ItemToolOutput:
			items = append(items, responses.ResponseInputItemUnionParam{
				OfFunctionCallOutput: &responses.ResponseInputItemFunctionCallOutputParam{
					CallID: item.CallID,
					Output: responses.ResponseInputItemFunctionCallOutputOutputUnionParam{
						OfString: openai.String(item.Content),
					},
				},
			})
		}
	}

	return items
}

// messageItem builds a single user or assistant message input item.
// Assistant text is fed back as an output message so the Responses API
// keeps it attributed to the model.
func (c *OpenAIClient) messageItem(role models.Role, content string) responses.ResponseInputItemUnionParam {
	if role == models.RoleAssistant {
		return responses.ResponseInputItemUnionParam{
			OfOutputMessage: &responses.ResponseOutputMessageParam{
				Content: []responses.ResponseOutputMessageContentUnionParam{
					{
						OfOutputText: &responses.ResponseOutputTextParam{
							Text:        content,
							Annotations: []responses.ResponseOutputTextAnnotationUnionParam{},
						},
					},
				},
				Status: responses.ResponseOutputMessageStatusCompleted,
			},
		}
	}
	return responses.ResponseInputItemUnionParam{
		OfMessage: &responses.EasyInputMessageParam{
			Role: responses.EasyInputMessageRoleUser,
			Content: responses.EasyInputMessageContentUnionParam{
				OfString: openai.String(content),
			},
		},
	}
}

// parseOutput converts Responses API output items to Items and infers
// the finish reason.
func (c *OpenAIClient) parseOutput(resp *responses.Response) ([]Item, FinishReason) {
	var items []Item
	hasToolCalls := false

	for _, outputItem := range resp.Output {
		switch outputItem.Type {
		case "message":
			var text string
			for _, content := range outputItem.Content {
				if content.Type == "output_text" {
					text += content.Text
				}
			}
			if text != "" {
				items = append(items, Item{Type: ItemAssistantMessage, Content: text})
			}

		case "function_call":
			hasToolCalls = true
			items = append(items, Item{
				Type:      ItemToolCall,
				CallID:    outputItem.CallID,
				Name:      outputItem.Name,
				Arguments: outputItem.Arguments,
			})
		}
	}

	if len(items) == 0 {
		items = append(items, Item{Type: ItemAssistantMessage})
	}

	finishReason := FinishStop
	if hasToolCalls {
		finishReason = FinishToolCalls
	}
	return items, finishReason
}

// buildToolDefinitions converts ToolSpecs to Responses API tool definitions.
func (c *OpenAIClient) buildToolDefinitions(specs []ToolSpec) []responses.ToolUnionParam {
	toolDefs := make([]responses.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		params := spec.InputSchema
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		toolDefs = append(toolDefs, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        spec.Name,
				Description: openai.String(spec.Description),
				Parameters:  params,
			},
		})
	}
	return toolDefs
}

// classifyOpenAIError categorizes an OpenAI API error using the HTTP
// status code when available, falling back to message heuristics.
func classifyOpenAIError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "context_length") || strings.Contains(errMsg, "maximum context length") {
		return models.NewContextOverflowError(err.Error())
	}

	if apiErr, ok := err.(*openai.Error); ok {
		return classifyByStatusCode(apiErr.StatusCode, err)
	}

	if strings.Contains(errMsg, "rate_limit") || strings.Contains(errMsg, "rate limit") {
		return models.NewAPILimitError(err.Error())
	}
	return models.NewTransientError(fmt.Sprintf("OpenAI API error: %v", err))
}
