package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"family-hub/pkg/gemini"
)

func TestGenerateContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		contents := body["contents"].([]interface{})
		text := contents[0].(map[string]interface{})["parts"].([]interface{})[0].(map[string]interface{})["text"]

		switch text {
		case "cause_500":
			w.WriteHeader(http.StatusInternalServerError)
		case "json_mode":
			cfg := body["generationConfig"].(map[string]interface{})
			if cfg["responseMimeType"] != "application/json" {
				t.Errorf("expected JSON mime type, got %v", cfg["responseMimeType"])
			}
			w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{}"}]}}]}`))
		default:
			w.Write([]byte(`{
				"candidates": [{"content": {"role": "model", "parts": [
					{"functionCall": {"name": "resolve_household_action", "args": {"intent": "add_shopping_item"}}}
				]}, "finishReason": "STOP"}],
				"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10}
			}`))
		}
	}))
	defer ts.Close()

	newClient := func(key string) gemini.IGemini {
		c, err := gemini.New(gemini.Config{APIKey: key, Model: "gemini-test", APIURL: ts.URL})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return c
	}
	userMsg := func(text string) *gemini.Request {
		return &gemini.Request{Messages: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: text}}}}}
	}

	t.Run("function call", func(t *testing.T) {
		resp, err := newClient("test-api-key").GenerateContent(context.Background(), userMsg("add milk"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fc := resp.Content.Parts[0].FunctionCall
		if fc == nil || fc.Args["intent"] != "add_shopping_item" {
			t.Fatalf("unexpected parts: %+v", resp.Content.Parts)
		}
		if resp.Usage.TotalTokens != 10 || resp.FinishReason != "STOP" {
			t.Errorf("unexpected metadata: %+v %s", resp.Usage, resp.FinishReason)
		}
	})

	t.Run("json mode", func(t *testing.T) {
		req := userMsg("json_mode")
		req.JSONMode = true
		if _, err := newClient("test-api-key").GenerateContent(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		_, err := newClient("test-api-key").GenerateContent(context.Background(), userMsg("cause_500"))
		var apiErr *gemini.APIError
		if !errors.As(err, &apiErr) || apiErr.HTTPStatus() != http.StatusInternalServerError {
			t.Fatalf("expected 500 APIError, got %v", err)
		}
	})

	t.Run("bad key", func(t *testing.T) {
		_, err := newClient("wrong").GenerateContent(context.Background(), userMsg("hi"))
		var apiErr *gemini.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != "UNAUTHENTICATED" {
			t.Fatalf("expected UNAUTHENTICATED APIError, got %v", err)
		}
		if strings.Contains(err.Error(), "wrong") {
			t.Errorf("error leaks the API key: %v", err)
		}
	})
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); !errors.Is(err, gemini.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
