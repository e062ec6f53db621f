package qwen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func newQwenImpl(cfg Config) *qwenImpl {
	return &qwenImpl{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

// GenerateContent sends a chat completion request.
// Non-2xx responses come back as *APIError; transport errors are returned wrapped.
func (q *qwenImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(q.transformRequest(req))
	if err != nil {
		return nil, fmt.Errorf("qwen: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("qwen: failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+q.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwen: API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return q.transformResponse(&chatResp), nil
}

// Model returns the model being used
func (q *qwenImpl) Model() string {
	return q.model
}

func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(raw))

	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
		msg = env.Error.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (q *qwenImpl) transformRequest(req *Request) *chatRequest {
	out := &chatRequest{
		Model:       q.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    make([]chatMessage, 0, len(req.Messages)+1),
	}

	if req.SystemInstruction != nil {
		sys := transformMessage(req.SystemInstruction)
		sys.Role = "system"
		out.Messages = append(out.Messages, sys)
	}

	for i := range req.Messages {
		out.Messages = append(out.Messages, transformMessage(&req.Messages[i]))
	}

	for _, tool := range req.Tools {
		out.Tools = append(out.Tools, chatTool{
			Type: "function",
			Function: chatFunctionDecl{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	if req.JSONMode && len(req.Tools) == 0 {
		out.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	return out
}

func transformMessage(msg *Content) chatMessage {
	out := chatMessage{Role: msg.Role}
	if out.Role == "model" {
		out.Role = "assistant"
	}

	var text []string
	for _, part := range msg.Parts {
		if part.Text != "" {
			text = append(text, part.Text)
		}

		if part.FunctionCall != nil {
			argsJSON, _ := json.Marshal(part.FunctionCall.Args)
			out.ToolCalls = append(out.ToolCalls, chatToolCall{
				ID:   "call_" + part.FunctionCall.Name,
				Type: "function",
				Function: chatFunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(argsJSON),
				},
			})
		}

		if part.FunctionResponse != nil {
			out.Role = "tool"
			out.ToolCallID = "call_" + part.FunctionResponse.Name
			responseJSON, _ := json.Marshal(part.FunctionResponse.Response)
			text = []string{string(responseJSON)}
		}
	}
	out.Content = strings.Join(text, "\n")

	return out
}

func (q *qwenImpl) transformResponse(resp *chatResponse) *Response {
	usage := &Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	if len(resp.Choices) == 0 {
		return &Response{Content: Content{Role: "assistant"}, Usage: usage}
	}

	choice := resp.Choices[0]
	content := Content{Role: "assistant"}

	if choice.Message.Content != "" {
		content.Parts = append(content.Parts, Part{Text: choice.Message.Content})
	}

	for _, tc := range choice.Message.ToolCalls {
		if tc.Type != "" && tc.Type != "function" {
			continue
		}
		args := make(map[string]interface{})
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				// Keep the call so the caller can report a malformed guess.
				args = nil
			}
		}
		content.Parts = append(content.Parts, Part{
			FunctionCall: &FunctionCall{Name: tc.Function.Name, Args: args},
		})
	}

	return &Response{
		Content:      content,
		FinishReason: choice.FinishReason,
		Usage:        usage,
	}
}
