package llmprovider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Guess is the structured reading a model produced for one utterance.
// Intent and field names are left as strings; the router validates them.
type Guess struct {
	Intent     string
	Fields     map[string]any
	Confidence float64
}

// RawResult is what Gateway.Complete returns on success.
type RawResult struct {
	Text     string
	Guess    *Guess
	Provider string
	Model    string
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// extractResult builds a RawResult from a normalized response.
// A response with neither text nor a usable function call is invalid.
func extractResult(resp *Response, toolName string) (*RawResult, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	result := &RawResult{Provider: resp.ProviderName, Model: resp.ModelName}
	var texts []string
	for _, p := range resp.Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
		if p.FunctionCall == nil || result.Guess != nil {
			continue
		}
		if toolName != "" && p.FunctionCall.Name != toolName {
			continue
		}
		if p.FunctionCall.Args == nil {
			return nil, fmt.Errorf("%w: function call %q carried malformed arguments", ErrInvalidResponse, p.FunctionCall.Name)
		}
		result.Guess = guessFromArgs(p.FunctionCall.Args)
	}
	result.Text = strings.TrimSpace(strings.Join(texts, "\n"))

	if result.Guess == nil && result.Text != "" {
		result.Guess = guessFromText(result.Text)
	}
	if result.Guess == nil && result.Text == "" {
		return nil, fmt.Errorf("%w: no text and no function call", ErrInvalidResponse)
	}
	return result, nil
}

// guessFromText reads a JSON object out of free text, tolerating code fences and prose.
func guessFromText(text string) *Guess {
	cleaned := sanitizeJSON(text)
	var args map[string]any
	if err := json.Unmarshal([]byte(cleaned), &args); err != nil {
		return nil
	}
	if _, ok := args["intent"]; !ok {
		return nil
	}
	return guessFromArgs(args)
}

func sanitizeJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

// guessFromArgs accepts either {"intent", "confidence", "fields": {...}} or a flat
// object where every other key is a field.
func guessFromArgs(args map[string]any) *Guess {
	g := &Guess{Fields: map[string]any{}}
	if s, ok := args["intent"].(string); ok {
		g.Intent = strings.ToLower(strings.TrimSpace(s))
	}
	g.Confidence = normalizeConfidence(args["confidence"])

	if nested, ok := args["fields"].(map[string]any); ok {
		for k, v := range nested {
			if v != nil {
				g.Fields[k] = v
			}
		}
		return g
	}
	for k, v := range args {
		switch k {
		case "intent", "confidence", "reasoning", "fields":
			continue
		}
		if v != nil {
			g.Fields[k] = v
		}
	}
	return g
}

// normalizeConfidence clamps to [0,1]; values above 1 are read as percentages.
func normalizeConfidence(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	default:
		return 0
	}
	if f > 1 {
		f /= 100
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
