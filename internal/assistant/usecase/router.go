package usecase

import (
	"context"
	"errors"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/assistant/session"
	"family-hub/internal/model"
	"family-hub/pkg/llmprovider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("family-hub/internal/assistant/usecase")

// resolve turns text into exactly one Action. A model guess that clears the threshold
// wins; otherwise the rule list runs on the same text. Provider failures never leave
// this function.
func (uc *implUseCase) resolve(ctx context.Context, in assistant.HandleInput, sess *session.Context, now time.Time) (model.Action, error) {
	ctx, span := tracer.Start(ctx, "assistant.resolve")
	defer span.End()

	guessed := uc.guess(ctx, in, sess, now)
	if ctx.Err() != nil {
		return model.Action{}, assistant.ErrSessionClosed
	}

	chosen, ruled := guessed, model.Action{}
	if !clears(guessed, uc.threshold) {
		ruled = uc.parser.ParseAt(in.Text, now)
		chosen = ruled
	}
	span.SetAttributes(
		attribute.String("assistant.intent", string(chosen.Intent)),
		attribute.String("assistant.source", string(chosen.Source)),
	)

	if !clears(chosen, uc.threshold) {
		switch {
		case ruled.Intent.Actionable():
			return ruled, &assistant.AmbiguousIntentError{Field: assistant.FieldIntent, Reason: "low confidence", Intent: ruled.Intent}
		case guessed.Intent.Actionable():
			return guessed, &assistant.AmbiguousIntentError{Field: assistant.FieldIntent, Reason: "low confidence", Intent: guessed.Intent}
		}
		return ruled, &assistant.ParseError{Greeting: ruled.String(model.FieldHint) == model.HintGreeting}
	}

	return applyContext(chosen.Clone(), sess)
}

func clears(a model.Action, threshold float64) bool {
	return a.Intent.Actionable() && a.Confidence >= threshold
}

// guess asks the configured model. Any failure yields an unknown action so the rule
// path takes over; the reason is logged and counted.
func (uc *implUseCase) guess(ctx context.Context, in assistant.HandleInput, sess *session.Context, now time.Time) model.Action {
	unknown := model.Action{Intent: model.IntentUnknown, Fields: map[string]any{}}

	cfg, err := uc.settings.ProviderConfig(ctx, in.WorkspaceID)
	if err != nil {
		uc.l.Warnf(ctx, "%s: settings for workspace %s: %v", LogPrefixResolve, in.WorkspaceID, err)
		fallbackTotal.WithLabelValues(ReasonSettings).Inc()
		return unknown
	}

	raw, err := uc.gateway.Complete(ctx, buildPrompt(in.Text, now), buildHistory(sess.Turns()), llmprovider.Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		if ctx.Err() == nil {
			if errors.Is(err, llmprovider.ErrProviderUnavailable) {
				uc.l.Debugf(ctx, "%s: no model configured, using rules", LogPrefixResolve)
			} else {
				uc.l.Warnf(ctx, "%s: model call failed, using rules: %v", LogPrefixResolve, err)
			}
		}
		fallbackTotal.WithLabelValues(llmprovider.KindLabel(err)).Inc()
		return unknown
	}
	if raw.Guess == nil {
		fallbackTotal.WithLabelValues(ReasonNoGuess).Inc()
		return unknown
	}

	a := actionFromGuess(raw.Guess, uc.loc)
	switch {
	case !a.Intent.Actionable():
		fallbackTotal.WithLabelValues(ReasonUnknownIntent).Inc()
	case a.Confidence < uc.threshold:
		fallbackTotal.WithLabelValues(ReasonLowConfidence).Inc()
	}
	return a
}

// applyContext fills an elliptical subject from the session window. An explicit
// subject is never replaced.
func applyContext(a model.Action, sess *session.Context) (model.Action, error) {
	op := a.Intent.Operation()
	if op != model.OperationUpdate && op != model.OperationDelete {
		return a, nil
	}
	if op == model.OperationUpdate && !a.HasChanges() {
		return a, &assistant.AmbiguousIntentError{Field: assistant.FieldChange, Reason: "no change given", Intent: a.Intent}
	}
	if op == model.OperationDelete && a.String(model.FieldScope) == model.ScopeAll {
		return a, nil
	}
	if a.Has(model.FieldID) || (a.Reference == "" && a.Subject() != "") {
		return a, nil
	}

	types := []model.EntityType{a.Intent.EntityType()}
	if a.Generic {
		types = []model.EntityType{model.EntityTask, model.EntityEvent}
	}
	recent, ok := sess.MostRecentEntity(types...)
	if !ok {
		return a, &assistant.AmbiguousIntentError{Field: assistant.FieldSubject, Reason: "nothing earlier to refer to", Intent: a.Intent}
	}

	if a.Generic || recent.EntityType != a.Intent.EntityType() {
		a = a.RetargetTo(recent.EntityType)
	}
	a.Fields[model.FieldID] = recent.EntityID
	if recent.EntityTitle != "" {
		a.Fields[recent.EntityType.TitleField()] = recent.EntityTitle
	}
	a.Reference = ""
	return a, nil
}
