package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/assistant/session"
	"family-hub/internal/model"

	"go.opentelemetry.io/otel/attribute"
)

// Handle resolves one user message into at most one household mutation and a reply.
func (uc *implUseCase) Handle(ctx context.Context, in assistant.HandleInput) (assistant.HandleOutput, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	in.WorkspaceID = strings.TrimSpace(in.WorkspaceID)
	in.Text = strings.TrimSpace(in.Text)
	if in.SessionID == "" || in.WorkspaceID == "" || in.Text == "" || in.TurnID < 0 {
		return assistant.HandleOutput{}, assistant.ErrInvalidInput
	}

	scope := repository.TurnScope{WorkspaceID: in.WorkspaceID, SessionID: in.SessionID}
	sess := uc.sessions.Get(in.WorkspaceID, in.SessionID)
	in.TurnID = uc.reserveTurnID(ctx, scope, sess, in.TurnID)

	key := fmt.Sprintf("%q/%q/%d", in.WorkspaceID, in.SessionID, in.TurnID)
	v, err, _ := uc.flight.Do(key, func() (any, error) {
		return uc.handleTurn(ctx, in, scope, sess)
	})
	if err != nil {
		return assistant.HandleOutput{TurnID: in.TurnID}, err
	}
	return v.(assistant.HandleOutput), nil
}

// EndSession abandons the session's in-flight turns and forgets its context.
func (uc *implUseCase) EndSession(ctx context.Context, workspaceID, sessionID string) {
	uc.sessions.End(workspaceID, sessionID)
	uc.l.Debugf(ctx, "%s: session %s/%s ended", LogPrefixHandle, workspaceID, sessionID)
}

// reserveTurnID claims the turn id from the ledger so a recreated session context, or
// another replica, continues the numbering. The session's own counter is the fallback
// when the ledger is down.
func (uc *implUseCase) reserveTurnID(ctx context.Context, scope repository.TurnScope, sess *session.Context, requested int64) int64 {
	id, err := uc.ledger.NextTurnID(ctx, scope, requested)
	if err != nil {
		uc.l.Warnf(ctx, "%s: ledger turn id for %s/%s: %v", LogPrefixHandle, scope.WorkspaceID, scope.SessionID, err)
		return sess.ReserveTurnID(requested)
	}
	return sess.ReserveTurnID(id)
}

func (uc *implUseCase) handleTurn(ctx context.Context, in assistant.HandleInput, scope repository.TurnScope, sess *session.Context) (assistant.HandleOutput, error) {
	out, ok, err := uc.replay(ctx, in, scope)
	if err != nil {
		return assistant.HandleOutput{}, err
	}
	if ok {
		return out, nil
	}

	ctx, release := uc.sessions.Begin(ctx, in.WorkspaceID, in.SessionID)
	defer release()

	ctx, span := tracer.Start(ctx, "assistant.Handle")
	defer span.End()
	span.SetAttributes(
		attribute.String("assistant.workspace_id", in.WorkspaceID),
		attribute.String("assistant.session_id", in.SessionID),
		attribute.Int64("assistant.turn_id", in.TurnID),
	)

	now := uc.now().In(uc.loc)

	action, err := uc.resolve(ctx, in, sess, now)
	var outcome model.Outcome
	if err == nil {
		action, outcome, err = uc.execute(ctx, in, action, now)
	}
	if errors.Is(err, assistant.ErrSessionClosed) {
		uc.l.Infof(ctx, "%s: session %s closed during turn %d", LogPrefixHandle, in.SessionID, in.TurnID)
		return assistant.HandleOutput{}, assistant.ErrSessionClosed
	}

	outcome.Kind = outcomeKind(err)
	outcome.ErrorKind, outcome.Field = errorDetail(err)

	var acted *model.Action
	if action.Intent.Actionable() {
		acted = &action
	}
	reply := Compose(outcome, acted, err)

	out = assistant.HandleOutput{
		TurnID:  in.TurnID,
		Reply:   reply,
		Outcome: outcome,
	}
	applied := outcome.Kind == model.OutcomeSuccess && action.Intent.Mutating()
	if applied {
		out.AppliedAction = acted
	}

	sess.Append(model.ConversationTurn{
		ID:        in.TurnID,
		Text:      in.Text,
		Timestamp: now,
		Action:    acted,
		Outcome:   outcome,
	})

	if outcome.Kind != model.OutcomeError {
		uc.record(ctx, in, scope, model.TurnRecord{
			TurnID:    in.TurnID,
			UserID:    in.Profile.UserID,
			Text:      in.Text,
			Reply:     reply,
			Action:    acted,
			Applied:   applied,
			Outcome:   outcome,
			CreatedAt: now,
		})
	}

	span.SetAttributes(attribute.String("assistant.outcome", string(outcome.Kind)))
	turnsTotal.WithLabelValues(string(outcome.Kind), string(action.Source)).Inc()
	uc.l.Infof(ctx, "%s: session=%s turn=%d intent=%s source=%s outcome=%s",
		LogPrefixHandle, in.SessionID, in.TurnID, action.Intent, action.Source, outcome.Kind)

	return out, nil
}

// replay answers a redelivered turn from the ledger. A ledger that cannot be read is
// treated as empty so the turn still gets an answer. A recorded turn only counts as a
// redelivery when the same member sent the same text; any other reuse of the id is
// invalid input.
func (uc *implUseCase) replay(ctx context.Context, in assistant.HandleInput, scope repository.TurnScope) (assistant.HandleOutput, bool, error) {
	rec, found, err := uc.ledger.GetTurn(ctx, scope, in.TurnID)
	if err != nil {
		uc.l.Warnf(ctx, "%s: ledger read for %s/%s/%d: %v", LogPrefixHandle, in.WorkspaceID, in.SessionID, in.TurnID, err)
		return assistant.HandleOutput{}, false, nil
	}
	if !found {
		return assistant.HandleOutput{}, false, nil
	}
	if rec.UserID != in.Profile.UserID || rec.Text != in.Text {
		uc.l.Warnf(ctx, "%s: turn %s/%s/%d reused for a different message", LogPrefixHandle, in.WorkspaceID, in.SessionID, in.TurnID)
		return assistant.HandleOutput{}, false, fmt.Errorf("%w: turn %d already answered another message", assistant.ErrInvalidInput, in.TurnID)
	}

	replaysTotal.Inc()
	out := assistant.HandleOutput{
		TurnID:   rec.TurnID,
		Reply:    rec.Reply,
		Outcome:  rec.Outcome,
		Replayed: true,
	}
	if rec.Applied {
		out.AppliedAction = rec.Action
	}
	return out, true, nil
}

func (uc *implUseCase) record(ctx context.Context, in assistant.HandleInput, scope repository.TurnScope, rec model.TurnRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := uc.ledger.SaveTurn(ctx, scope, rec); err != nil {
		uc.l.Warnf(ctx, "%s: ledger write for %s/%s/%d: %v", LogPrefixHandle, in.WorkspaceID, in.SessionID, in.TurnID, err)
	}
}

func outcomeKind(err error) model.OutcomeKind {
	switch {
	case err == nil:
		return model.OutcomeSuccess
	case errors.Is(err, assistant.ErrParse),
		errors.Is(err, assistant.ErrAmbiguousIntent),
		errors.Is(err, assistant.ErrValidation):
		return model.OutcomeClarification
	case errors.Is(err, assistant.ErrPermissionDenied):
		return model.OutcomeRefusal
	}
	return model.OutcomeError
}

// errorDetail returns the error kind and the field it concerns, for the outcome record.
func errorDetail(err error) (string, string) {
	var (
		ambiguous *assistant.AmbiguousIntentError
		invalid   *assistant.ValidationError
	)
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &ambiguous):
		return "ambiguous_intent", ambiguous.Field
	case errors.As(err, &invalid):
		return "validation", invalid.Field
	case errors.Is(err, assistant.ErrParse):
		return "parse", ""
	case errors.Is(err, assistant.ErrPermissionDenied):
		return "permission_denied", ""
	}
	return "execution", ""
}
