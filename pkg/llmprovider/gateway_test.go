package llmprovider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"family-hub/pkg/qwen"
)

// mockProvider is a test implementation of the Provider interface.
// errs are returned in order, one per call; once exhausted, response is returned.
type mockProvider struct {
	name      string
	model     string
	errs      []error
	response  *Response
	block     bool
	mu        sync.Mutex
	callCount int
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if n <= len(m.errs) {
		return nil, m.errs[n-1]
	}
	return m.response, nil
}

func (m *mockProvider) Name() string  { return m.name }
func (m *mockProvider) Model() string { return m.model }

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	mu           sync.Mutex
	infoMessages []string
	warnMessages []string
}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoMessages = append(m.infoMessages, template)
}
func (m *mockLogger) Warn(ctx context.Context, arg ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(arg) > 0 {
		if msg, ok := arg[0].(string); ok {
			m.warnMessages = append(m.warnMessages, msg)
		}
	}
}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}

func toolResponse(args map[string]interface{}) *Response {
	return &Response{
		Content: Message{
			Role:  RoleAssistant,
			Parts: []Part{{FunctionCall: &FunctionCall{Name: "resolve_household_action", Args: args}}},
		},
		ProviderName: "mock",
		ModelName:    "mock-model",
	}
}

func newTestGateway(p Provider, l *mockLogger) *Gateway {
	return NewGateway(l, GatewayOptions{
		Factory:    func(Config) Provider { return p },
		RetryDelay: time.Millisecond,
	})
}

var testPrompt = Prompt{System: "system", User: "remind me to call the dentist", ToolName: "resolve_household_action"}

func TestComplete_SuccessWithFunctionCall(t *testing.T) {
	p := &mockProvider{name: "mock", model: "mock-model", response: toolResponse(map[string]interface{}{
		"intent":     "create_task",
		"confidence": 0.92,
		"fields":     map[string]interface{}{"title": "call the dentist"},
	})}
	g := newTestGateway(p, &mockLogger{})

	res, err := g.Complete(context.Background(), testPrompt, nil, Config{Provider: "mock"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if res.Guess == nil {
		t.Fatal("Expected a guess")
	}
	if res.Guess.Intent != "create_task" {
		t.Errorf("Expected intent create_task, got %q", res.Guess.Intent)
	}
	if res.Guess.Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %v", res.Guess.Confidence)
	}
	if res.Guess.Fields["title"] != "call the dentist" {
		t.Errorf("Expected title field, got %v", res.Guess.Fields)
	}
	if p.calls() != 1 {
		t.Errorf("Expected 1 call, got %d", p.calls())
	}
}

func TestComplete_TransientFailureRetriedOnce(t *testing.T) {
	p := &mockProvider{
		name:     "mock",
		errs:     []error{&qwen.APIError{StatusCode: 503, Message: "overloaded"}},
		response: toolResponse(map[string]interface{}{"intent": "query_budget", "confidence": 0.8}),
	}
	l := &mockLogger{}
	g := newTestGateway(p, l)

	res, err := g.Complete(context.Background(), testPrompt, nil, Config{})
	if err != nil {
		t.Fatalf("Expected retry to succeed, got: %v", err)
	}
	if res.Guess.Intent != "query_budget" {
		t.Errorf("Expected query_budget, got %q", res.Guess.Intent)
	}
	if p.calls() != 2 {
		t.Errorf("Expected 2 calls, got %d", p.calls())
	}
	if len(l.warnMessages) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(l.warnMessages))
	}
	if len(l.infoMessages) != 1 {
		t.Errorf("Expected retry success to be logged, got %v", l.infoMessages)
	}
}

func TestComplete_TransientFailureGivesUpAfterOneRetry(t *testing.T) {
	p := &mockProvider{
		name: "mock",
		errs: []error{errors.New("connection reset"), errors.New("connection reset"), errors.New("connection reset")},
	}
	g := newTestGateway(p, &mockLogger{})

	_, err := g.Complete(context.Background(), testPrompt, nil, Config{})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got: %v", err)
	}
	if p.calls() != 2 {
		t.Errorf("Expected exactly 2 calls, got %d", p.calls())
	}
}

func TestComplete_NonTransientFailuresNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unauthorized", err: &qwen.APIError{StatusCode: 401}, want: ErrAuth},
		{name: "forbidden", err: &qwen.APIError{StatusCode: 403}, want: ErrAuth},
		{name: "rate limited", err: &qwen.APIError{StatusCode: 429}, want: ErrRateLimit},
		{name: "bad request", err: &qwen.APIError{StatusCode: 400}, want: ErrInvalidResponse},
		{name: "decode failure", err: qwen.ErrDecode, want: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{name: "mock", errs: []error{tt.err, tt.err}}
			g := newTestGateway(p, &mockLogger{})

			_, err := g.Complete(context.Background(), testPrompt, nil, Config{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got: %v", tt.want, err)
			}
			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("Expected *ProviderError, got %T", err)
			}
			if pe.Provider != "mock" {
				t.Errorf("Expected provider mock, got %q", pe.Provider)
			}
			if p.calls() != 1 {
				t.Errorf("Expected 1 call, got %d", p.calls())
			}
		})
	}
}

func TestComplete_DeadlineIsNetworkError(t *testing.T) {
	p := &mockProvider{name: "mock", block: true}
	g := newTestGateway(p, &mockLogger{})

	start := time.Now()
	_, err := g.Complete(context.Background(), testPrompt, nil, Config{Timeout: 50 * time.Millisecond})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected call to respect the 50ms budget, took %v", elapsed)
	}
}

func TestComplete_NullProviderFailsFast(t *testing.T) {
	g := NewGateway(&mockLogger{}, GatewayOptions{})

	_, err := g.Complete(context.Background(), testPrompt, nil, Config{Provider: "gemini"})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("Expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestComplete_EmptyResponseIsInvalid(t *testing.T) {
	p := &mockProvider{name: "mock", response: &Response{Content: Message{Role: RoleAssistant}}}
	g := newTestGateway(p, &mockLogger{})

	_, err := g.Complete(context.Background(), testPrompt, nil, Config{})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("Expected ErrInvalidResponse, got: %v", err)
	}
	if p.calls() != 1 {
		t.Errorf("Expected 1 call, got %d", p.calls())
	}
}

type panickingProvider struct{}

func (panickingProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	panic("index out of range decoding candidates")
}
func (panickingProvider) Name() string  { return "broken" }
func (panickingProvider) Model() string { return "broken-model" }

func TestComplete_AdapterPanicIsInvalidResponse(t *testing.T) {
	g := newTestGateway(panickingProvider{}, &mockLogger{})

	res, err := g.Complete(context.Background(), testPrompt, nil, Config{Provider: "broken"})
	if res != nil {
		t.Errorf("Expected no result, got %+v", res)
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("Expected ErrInvalidResponse, got: %v", err)
	}
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.Provider != "broken" {
		t.Errorf("Expected a ProviderError for broken, got %#v", err)
	}
}

func TestComplete_ConfigReadPerCall(t *testing.T) {
	var seen []string
	g := NewGateway(&mockLogger{}, GatewayOptions{
		Factory: func(cfg Config) Provider {
			seen = append(seen, cfg.Provider)
			return &mockProvider{name: cfg.Provider, response: &Response{Content: Message{Parts: []Part{{Text: "ok"}}}}}
		},
	})

	for _, name := range []string{"qwen", "deepseek"} {
		res, err := g.Complete(context.Background(), testPrompt, nil, Config{Provider: name})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if res.Provider != name {
			t.Errorf("Expected provider %s, got %s", name, res.Provider)
		}
	}
	if strings.Join(seen, ",") != "qwen,deepseek" {
		t.Errorf("Expected provider to be resolved on every call, got %v", seen)
	}
}

func TestBuildRequest_HistoryPrecedesUtterance(t *testing.T) {
	history := []Message{TextMessage(RoleUser, "add milk"), TextMessage(RoleAssistant, "Added milk.")}
	req := buildRequest(testPrompt, history, Config{Temperature: 0.2, MaxTokens: 256})

	if len(req.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(req.Messages))
	}
	if req.Messages[2].Parts[0].Text != testPrompt.User {
		t.Errorf("Expected utterance last, got %q", req.Messages[2].Parts[0].Text)
	}
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "system" {
		t.Error("Expected system instruction")
	}
	if !req.JSONMode {
		t.Error("Expected JSON mode without tools")
	}
	if req.Temperature != 0.2 || req.MaxTokens != 256 {
		t.Errorf("Expected sampling params to be copied, got %v/%d", req.Temperature, req.MaxTokens)
	}
}
