package llmprovider

import (
	"context"
	"encoding/json"

	"family-hub/pkg/deepseek"
	"family-hub/pkg/gemini"
	"family-hub/pkg/qwen"
)

// GeminiAdapter adapts pkg/gemini to the Provider interface.
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider.
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	greq := &gemini.Request{
		Messages:    make([]gemini.Content, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSONMode:    req.JSONMode,
	}
	if req.SystemInstruction != nil {
		sys := toGeminiContent(*req.SystemInstruction)
		greq.SystemInstruction = &sys
	}
	for _, m := range req.Messages {
		greq.Messages = append(greq.Messages, toGeminiContent(m))
	}
	for _, t := range req.Tools {
		greq.Tools = append(greq.Tools, gemini.Tool{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	resp, err := a.client.GenerateContent(ctx, greq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: ProviderGemini,
		ModelName:    a.client.Model(),
	}
	for _, p := range resp.Content.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		out.Content.Parts = append(out.Content.Parts, part)
	}
	if resp.Usage != nil {
		out.Usage = &Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens, TotalTokens: resp.Usage.TotalTokens}
	}
	return out, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string { return ProviderGemini }

// Model returns model name
func (a *GeminiAdapter) Model() string { return a.client.Model() }

func toGeminiContent(m Message) gemini.Content {
	c := gemini.Content{Role: m.Role, Parts: make([]gemini.Part, 0, len(m.Parts))}
	for _, p := range m.Parts {
		part := gemini.Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &gemini.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			part.FunctionResponse = &gemini.FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}
		}
		c.Parts = append(c.Parts, part)
	}
	return c
}

// QwenAdapter adapts pkg/qwen to the Provider interface.
type QwenAdapter struct {
	client qwen.IQwen
}

// NewQwenAdapter creates a new Qwen adapter
func NewQwenAdapter(client qwen.IQwen) *QwenAdapter {
	return &QwenAdapter{client: client}
}

// GenerateContent implements Provider.
func (a *QwenAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	qreq := &qwen.Request{
		Messages:    make([]qwen.Content, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSONMode:    req.JSONMode,
	}
	if req.SystemInstruction != nil {
		sys := toQwenContent(*req.SystemInstruction)
		qreq.SystemInstruction = &sys
	}
	for _, m := range req.Messages {
		qreq.Messages = append(qreq.Messages, toQwenContent(m))
	}
	for _, t := range req.Tools {
		qreq.Tools = append(qreq.Tools, qwen.Tool{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}

	resp, err := a.client.GenerateContent(ctx, qreq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: ProviderQwen,
		ModelName:    a.client.Model(),
	}
	for _, p := range resp.Content.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		out.Content.Parts = append(out.Content.Parts, part)
	}
	if resp.Usage != nil {
		out.Usage = &Usage{InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens, TotalTokens: resp.Usage.TotalTokens}
	}
	return out, nil
}

// Name returns provider name
func (a *QwenAdapter) Name() string { return ProviderQwen }

// Model returns model name
func (a *QwenAdapter) Model() string { return a.client.Model() }

func toQwenContent(m Message) qwen.Content {
	c := qwen.Content{Role: m.Role, Parts: make([]qwen.Part, 0, len(m.Parts))}
	for _, p := range m.Parts {
		part := qwen.Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &qwen.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			part.FunctionResponse = &qwen.FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}
		}
		c.Parts = append(c.Parts, part)
	}
	return c
}

// DeepSeekAdapter adapts pkg/deepseek to the Provider interface.
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// GenerateContent implements Provider.
func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	dreq := &deepseek.Request{
		Model:       a.client.Model(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.SystemInstruction != nil {
		dreq.Messages = append(dreq.Messages, deepseek.Message{Role: RoleSystem, Content: joinText(req.SystemInstruction.Parts)})
	}
	for _, m := range req.Messages {
		dreq.Messages = append(dreq.Messages, toDeepSeekMessages(m)...)
	}
	for _, t := range req.Tools {
		dreq.Tools = append(dreq.Tools, deepseek.Tool{
			Type:     "function",
			Function: deepseek.FunctionDef{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}
	if req.JSONMode && len(dreq.Tools) == 0 {
		dreq.ResponseFormat = &deepseek.ResponseFormat{Type: "json_object"}
	}

	resp, err := a.client.GenerateContent(ctx, dreq)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Content:      Message{Role: RoleAssistant},
		ProviderName: ProviderDeepSeek,
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if out.ModelName == "" {
		out.ModelName = a.client.Model()
	}
	if len(resp.Choices) == 0 {
		return out, nil
	}

	msg := resp.Choices[0].Message
	if msg.Content != "" {
		out.Content.Parts = append(out.Content.Parts, Part{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			args = nil
		}
		out.Content.Parts = append(out.Content.Parts, Part{FunctionCall: &FunctionCall{Name: tc.Function.Name, Args: args}})
	}
	return out, nil
}

// Name returns the provider name
func (a *DeepSeekAdapter) Name() string { return ProviderDeepSeek }

// Model returns the model name
func (a *DeepSeekAdapter) Model() string { return a.client.Model() }

// toDeepSeekMessages flattens one message; function calls and responses become
// OpenAI-style tool_calls and tool messages.
func toDeepSeekMessages(m Message) []deepseek.Message {
	role := m.Role
	if role == RoleModel {
		role = RoleAssistant
	}

	msg := deepseek.Message{Role: role, Content: joinText(m.Parts)}
	var out []deepseek.Message
	for _, p := range m.Parts {
		if p.FunctionCall != nil {
			args, _ := json.Marshal(p.FunctionCall.Args)
			msg.ToolCalls = append(msg.ToolCalls, deepseek.ToolCall{
				ID:       "call_" + p.FunctionCall.Name,
				Type:     "function",
				Function: deepseek.FunctionCall{Name: p.FunctionCall.Name, Arguments: string(args)},
			})
		}
		if p.FunctionResponse != nil {
			body, _ := json.Marshal(p.FunctionResponse.Response)
			out = append(out, deepseek.Message{
				Role:       "tool",
				Name:       p.FunctionResponse.Name,
				ToolCallID: "call_" + p.FunctionResponse.Name,
				Content:    string(body),
			})
		}
	}
	if msg.Content != "" || len(msg.ToolCalls) > 0 {
		out = append([]deepseek.Message{msg}, out...)
	}
	return out
}

func joinText(parts []Part) string {
	var text string
	for _, p := range parts {
		if p.Text == "" {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += p.Text
	}
	return text
}
