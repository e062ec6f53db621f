package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-hub/pkg/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultTimeout bounds one Complete call, retry included.
	DefaultTimeout = 4 * time.Second

	// DefaultRetryDelay is the pause before the single retry of a transient failure.
	DefaultRetryDelay = 200 * time.Millisecond

	maxAttempts = 2
)

var tracer = otel.Tracer("family-hub/pkg/llmprovider")

// Prompt is what the caller wants the model to answer.
type Prompt struct {
	System string
	User   string
	Tools  []Tool

	// ToolName restricts which function call is read as the guess. Empty accepts any.
	ToolName string
}

// GatewayOptions tunes a Gateway. Zero values fall back to defaults.
type GatewayOptions struct {
	Factory    Factory
	Timeout    time.Duration
	RetryDelay time.Duration
}

// Gateway sends prompts to whichever backend the per-call Config selects.
type Gateway struct {
	newProvider Factory
	timeout     time.Duration
	retryDelay  time.Duration
	l           log.Logger
}

// NewGateway creates a gateway.
func NewGateway(l log.Logger, opts GatewayOptions) *Gateway {
	g := &Gateway{
		newProvider: opts.Factory,
		timeout:     opts.Timeout,
		retryDelay:  opts.RetryDelay,
		l:           l,
	}
	if g.newProvider == nil {
		g.newProvider = NewProvider
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.retryDelay <= 0 {
		g.retryDelay = DefaultRetryDelay
	}
	return g
}

// Complete sends prompt with the preceding history to the backend named in cfg.
// Configuration is read per call, so a change to cfg takes effect on the next call.
// Transient failures get exactly one retry inside the overall deadline; every
// failure is returned as a *ProviderError whose Kind is one of the Err* values. A
// panicking adapter is reported as ErrInvalidResponse.
func (g *Gateway) Complete(ctx context.Context, prompt Prompt, history []Message, cfg Config) (res *RawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.l.Errorf(ctx, "llmprovider: %s adapter panicked: %v", cfg.Provider, r)
			err = &ProviderError{Provider: cfg.Provider, Kind: ErrInvalidResponse, Err: fmt.Errorf("adapter panic: %v", r)}
			g.record(cfg.Provider, err, time.Now())
			res = nil
		}
	}()
	return g.complete(ctx, prompt, history, cfg)
}

func (g *Gateway) complete(ctx context.Context, prompt Prompt, history []Message, cfg Config) (*RawResult, error) {
	provider := g.newProvider(cfg)

	ctx, span := tracer.Start(ctx, "llmprovider.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("provider", provider.Name()), attribute.String("model", provider.Model()))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = g.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := buildRequest(prompt, history, cfg)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-callCtx.Done():
			case <-time.After(g.retryDelay):
			}
			if callCtx.Err() != nil {
				break
			}
		}

		resp, err := provider.GenerateContent(callCtx, req)
		if err == nil {
			result, perr := extractResult(resp, prompt.ToolName)
			if perr != nil {
				lastErr = &ProviderError{Provider: provider.Name(), Kind: ErrInvalidResponse, Err: perr}
				break
			}
			if result.Provider == "" {
				result.Provider = provider.Name()
			}
			g.logSuccess(ctx, provider, attempt, time.Since(start))
			g.record(provider.Name(), nil, start)
			return result, nil
		}

		kind := classify(err)
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			kind = ErrNetwork
		}
		lastErr = wrap(provider.Name(), kind, err)
		g.logFailure(ctx, provider, attempt, lastErr)

		if !transient(kind) {
			break
		}
	}

	if callCtx.Err() != nil && !errors.Is(lastErr, ErrNetwork) {
		lastErr = wrap(provider.Name(), ErrNetwork, callCtx.Err())
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, KindLabel(lastErr))
	g.record(provider.Name(), lastErr, start)
	return nil, lastErr
}

func wrap(name string, kind, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind == kind {
		return pe
	}
	return &ProviderError{Provider: name, Kind: kind, Err: err}
}

func buildRequest(prompt Prompt, history []Message, cfg Config) *Request {
	req := &Request{
		Messages:    make([]Message, 0, len(history)+1),
		Tools:       prompt.Tools,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		JSONMode:    len(prompt.Tools) == 0,
	}
	if prompt.System != "" {
		sys := TextMessage(RoleSystem, prompt.System)
		req.SystemInstruction = &sys
	}
	req.Messages = append(req.Messages, history...)
	req.Messages = append(req.Messages, TextMessage(RoleUser, prompt.User))
	return req
}

func (g *Gateway) record(provider string, err error, start time.Time) {
	providerCalls.WithLabelValues(provider, KindLabel(err)).Inc()
	providerCallDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

func (g *Gateway) logSuccess(ctx context.Context, p Provider, attempt int, elapsed time.Duration) {
	if attempt > 1 {
		g.l.Infof(ctx, "llmprovider: %s/%s succeeded on retry after %v", p.Name(), p.Model(), elapsed)
		return
	}
	g.l.Debugf(ctx, "llmprovider: %s/%s answered in %v", p.Name(), p.Model(), elapsed)
}

func (g *Gateway) logFailure(ctx context.Context, p Provider, attempt int, err error) {
	if errors.Is(err, ErrProviderUnavailable) {
		g.l.Debugf(ctx, "llmprovider: no backend available: %v", err)
		return
	}
	g.l.Warn(ctx, fmt.Sprintf("llmprovider: %s attempt %d/%d failed (%s): %v", p.Name(), attempt, maxAttempts, KindLabel(err), err))
}
