package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

func newGeminiImpl(cfg Config) *geminiImpl {
	return &geminiImpl{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: cfg.HTTPClient,
	}
}

// GenerateContent sends a generation request to Gemini API
func (g *geminiImpl) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	resp, err := g.callAPI(ctx, transformRequest(req))
	if err != nil {
		return nil, err
	}
	return transformResponse(resp), nil
}

// Model returns the model being used
func (g *geminiImpl) Model() string {
	return g.model
}

func (g *geminiImpl) callAPI(ctx context.Context, req generateRequest) (*generateResponse, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.apiURL, g.model, url.QueryEscape(g.apiKey))

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the request URL, which carries the key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("gemini: failed to call API: %w", urlErr.Err)
		}
		return nil, fmt.Errorf("gemini: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var env errorEnvelope
		if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
			apiErr.Message = env.Error.Message
			apiErr.Status = env.Error.Status
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &result, nil
}

func transformRequest(req *Request) generateRequest {
	out := generateRequest{
		Contents: make([]wireContent, 0, len(req.Messages)),
	}

	if req.SystemInstruction != nil {
		out.SystemInstruction = &wireContent{Parts: toWireParts(req.SystemInstruction.Parts)}
	}

	for _, msg := range req.Messages {
		role := msg.Role
		if role == "assistant" {
			role = "model"
		}
		out.Contents = append(out.Contents, wireContent{Role: role, Parts: toWireParts(msg.Parts)})
	}

	if len(req.Tools) > 0 {
		decls := make([]functionDeclaration, len(req.Tools))
		for i, tool := range req.Tools {
			decls[i] = functionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			}
		}
		out.Tools = []wireTool{{FunctionDeclarations: decls}}
	}

	if req.Temperature > 0 || req.MaxTokens > 0 || req.JSONMode {
		out.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
		// Gemini rejects a JSON mime type combined with function declarations.
		if req.JSONMode && len(req.Tools) == 0 {
			out.GenerationConfig.ResponseMimeType = mimeTypeJSON
		}
	}

	return out
}

func toWireParts(parts []Part) []wirePart {
	out := make([]wirePart, len(parts))
	for i, part := range parts {
		out[i] = wirePart{Text: part.Text}
		if part.FunctionCall != nil {
			out[i].FunctionCall = &wireFunctionCall{Name: part.FunctionCall.Name, Args: part.FunctionCall.Args}
		}
		if part.FunctionResponse != nil {
			out[i].FunctionResponse = &wireFunctionResponse{Name: part.FunctionResponse.Name, Response: part.FunctionResponse.Response}
		}
	}
	return out
}

func transformResponse(resp *generateResponse) *Response {
	usage := &Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = resp.UsageMetadata.PromptTokenCount
		usage.OutputTokens = resp.UsageMetadata.CandidatesTokenCount
		usage.TotalTokens = resp.UsageMetadata.TotalTokenCount
	}

	if len(resp.Candidates) == 0 {
		return &Response{Content: Content{Role: "model"}, Usage: usage}
	}

	cand := resp.Candidates[0]
	parts := make([]Part, 0, len(cand.Content.Parts))
	for _, p := range cand.Content.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			part.FunctionResponse = &FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}
		}
		parts = append(parts, part)
	}

	return &Response{
		Content:      Content{Role: cand.Content.Role, Parts: parts},
		FinishReason: cand.FinishReason,
		Usage:        usage,
	}
}
