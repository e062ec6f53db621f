package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// execState is where an action stopped in the executor.
type execState string

const (
	stateReceived          execState = "received"
	stateValidated         execState = "validated"
	statePermissionChecked execState = "permission_checked"
	stateApplied           execState = "applied"
	stateRejected          execState = "rejected"
)

// execute moves a through Received, Validated and PermissionChecked, then applies it
// with exactly one mutating store call inside the workspace's critical section.
func (uc *implUseCase) execute(ctx context.Context, in assistant.HandleInput, a model.Action, now time.Time) (model.Action, model.Outcome, error) {
	ctx, span := tracer.Start(ctx, "assistant.execute")
	defer span.End()
	span.SetAttributes(attribute.String("assistant.intent", string(a.Intent)))

	state := stateReceived
	defer func() { span.SetAttributes(attribute.String("assistant.state", string(state))) }()

	a = withDefaults(a, now)
	if err := validate(a); err != nil {
		state = stateRejected
		rejectionsTotal.WithLabelValues(string(stateValidated)).Inc()
		return a, model.Outcome{}, err
	}
	state = stateValidated

	if err := authorize(in.Profile.Role, a.Intent); err != nil {
		state = stateRejected
		rejectionsTotal.WithLabelValues(string(statePermissionChecked)).Inc()
		return a, model.Outcome{}, err
	}
	state = statePermissionChecked

	if ctx.Err() != nil {
		state = stateRejected
		return a, model.Outcome{}, assistant.ErrSessionClosed
	}

	if a.Intent == model.IntentQueryBudget {
		out, err := uc.queryBudget(ctx, in.WorkspaceID, a, now)
		if err != nil {
			state = stateRejected
			span.SetStatus(codes.Error, err.Error())
			return a, model.Outcome{}, uc.storeError(ctx, a, err)
		}
		state = stateApplied
		return a, out, nil
	}

	var out model.Outcome
	err := uc.repo.WithinWorkspace(ctx, in.WorkspaceID, func(ctx context.Context, repo repository.EntityRepository) error {
		var err error
		a, out, err = uc.apply(ctx, repo, in, a)
		return err
	})
	if err != nil {
		state = stateRejected
		span.SetStatus(codes.Error, err.Error())
		return a, model.Outcome{}, uc.storeError(ctx, a, err)
	}
	state = stateApplied

	if a.Intent == model.IntentCreateEvent {
		uc.mirrorEvent(ctx, a)
	}
	return a, out, nil
}

// apply runs inside the workspace section. Title lookups are reads; the one write is last.
func (uc *implUseCase) apply(ctx context.Context, repo repository.EntityRepository, in assistant.HandleInput, a model.Action) (model.Action, model.Outcome, error) {
	typ := a.Intent.EntityType()

	switch a.Intent.Operation() {
	case model.OperationCreate:
		e, err := repo.CreateEntity(ctx, repository.CreateEntityOptions{
			WorkspaceID: in.WorkspaceID,
			Type:        typ,
			Fields:      entityFields(a),
		})
		if err != nil {
			return a, model.Outcome{}, err
		}
		a.Fields[model.FieldID] = e.ID
		return a, entityOutcome(e, 1), nil

	case model.OperationDelete:
		if a.String(model.FieldScope) == model.ScopeAll {
			n, err := repo.DeleteEntities(ctx, repository.DeleteEntitiesOptions{WorkspaceID: in.WorkspaceID, Type: typ})
			if err != nil {
				return a, model.Outcome{}, err
			}
			return a, model.Outcome{Kind: model.OutcomeSuccess, EntityType: typ, Affected: n}, nil
		}
	}

	if !a.Has(model.FieldID) {
		var err error
		if a, err = uc.lookupTarget(ctx, repo, in, a); err != nil {
			return a, model.Outcome{}, err
		}
		typ = a.Intent.EntityType()
	}

	if a.Intent.Operation() == model.OperationDelete {
		err := repo.DeleteEntity(ctx, repository.DeleteEntityOptions{WorkspaceID: in.WorkspaceID, Type: typ, ID: a.String(model.FieldID)})
		if err != nil {
			return a, model.Outcome{}, err
		}
		return a, model.Outcome{
			Kind:        model.OutcomeSuccess,
			EntityType:  typ,
			EntityID:    a.String(model.FieldID),
			EntityTitle: a.Subject(),
			Affected:    1,
		}, nil
	}

	e, err := repo.UpdateEntity(ctx, repository.UpdateEntityOptions{
		WorkspaceID: in.WorkspaceID,
		Type:        typ,
		ID:          a.String(model.FieldID),
		Fields:      changeFields(a),
	})
	if err != nil {
		return a, model.Outcome{}, err
	}
	return a, entityOutcome(e, 1), nil
}

// lookupTarget finds the one entity a title names: an exact match first, then a
// substring match. A generic action searches tasks and events and is retargeted to
// whichever it found, which is then authorized again.
func (uc *implUseCase) lookupTarget(ctx context.Context, repo repository.EntityRepository, in assistant.HandleInput, a model.Action) (model.Action, error) {
	types := []model.EntityType{a.Intent.EntityType()}
	if a.Generic {
		types = []model.EntityType{model.EntityTask, model.EntityEvent}
	}
	title := a.Subject()

	find := func(exact bool) ([]model.Entity, error) {
		var found []model.Entity
		for _, t := range types {
			opt := repository.QueryEntitiesOptions{WorkspaceID: in.WorkspaceID, Type: t}
			if exact {
				opt.Title = title
			} else {
				opt.TitleContains = title
			}
			es, err := repo.QueryEntities(ctx, opt)
			if err != nil {
				return nil, err
			}
			found = append(found, es...)
		}
		return found, nil
	}

	found, err := find(true)
	if err == nil && len(found) == 0 {
		found, err = find(false)
	}
	if err != nil {
		return a, err
	}
	if len(found) > 1 && a.Intent == model.IntentCheckOffShoppingItem {
		found = unpurchased(found)
	}

	switch len(found) {
	case 0:
		return a, &assistant.ValidationError{Field: a.Intent.EntityType().TitleField(), Reason: assistant.ReasonNotFound}
	case 1:
	default:
		return a, &assistant.AmbiguousIntentError{
			Field:  assistant.FieldSubject,
			Reason: fmt.Sprintf("%d matches for %q", len(found), title),
			Intent: a.Intent,
		}
	}

	e := found[0]
	if a.Generic || e.Type != a.Intent.EntityType() {
		a = a.RetargetTo(e.Type)
		if err := authorize(in.Profile.Role, a.Intent); err != nil {
			return a, err
		}
		if a.Intent.Operation() == model.OperationUpdate && !a.HasChanges() {
			return a, &assistant.ValidationError{Field: assistant.FieldChange, Reason: fmt.Sprintf("nothing that applies to a %s", e.Type.Label())}
		}
	}
	a.Fields[model.FieldID] = e.ID
	a.Fields[e.Type.TitleField()] = e.Title()
	return a, nil
}

func unpurchased(es []model.Entity) []model.Entity {
	var out []model.Entity
	for _, e := range es {
		if done, _ := e.Fields[model.FieldPurchased].(bool); !done {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return es
	}
	return out
}

// storeError maps a failure from inside the section. Typed router errors pass through.
func (uc *implUseCase) storeError(ctx context.Context, a model.Action, err error) error {
	switch {
	case errors.Is(err, assistant.ErrValidation),
		errors.Is(err, assistant.ErrAmbiguousIntent),
		errors.Is(err, assistant.ErrPermissionDenied):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return &assistant.ValidationError{Field: a.Intent.EntityType().TitleField(), Reason: assistant.ReasonNotFound}
	case ctx.Err() != nil:
		return assistant.ErrSessionClosed
	}
	uc.l.Errorf(ctx, "%s: %s: %v", LogPrefixExecute, a.Intent, err)
	return &assistant.ExecutionError{Op: string(a.Intent), Err: err}
}

func entityOutcome(e model.Entity, affected int) model.Outcome {
	return model.Outcome{
		Kind:        model.OutcomeSuccess,
		EntityType:  e.Type,
		EntityID:    e.ID,
		EntityTitle: e.Title(),
		Affected:    affected,
	}
}

// validate checks the field document against the intent's schema, then the rules
// a schema cannot express.
func validate(a model.Action) error {
	if !a.Intent.Actionable() {
		return &assistant.ValidationError{Field: assistant.FieldIntent, Reason: "unsupported"}
	}
	if err := checkSchema(a); err != nil {
		return err
	}

	typ := a.Intent.EntityType()
	switch a.Intent {
	case model.IntentCreateEvent:
		start, ok := a.Time(model.FieldStart)
		if !ok {
			return &assistant.ValidationError{Field: model.FieldStart, Reason: assistant.ReasonRequired}
		}
		if end, ok := a.Time(model.FieldEnd); ok && end.Before(start) {
			return &assistant.ValidationError{Field: model.FieldEnd, Reason: "is before the start"}
		}
	case model.IntentAddBudgetEntry:
		if amount, _ := a.Float(model.FieldAmount); amount <= 0 {
			return &assistant.ValidationError{Field: model.FieldAmount, Reason: "must be more than zero"}
		}
	case model.IntentAddShoppingItem:
		if q, ok := a.Float(model.FieldQuantity); ok && q <= 0 {
			return &assistant.ValidationError{Field: model.FieldQuantity, Reason: "must be more than zero"}
		}
	}

	switch a.Intent.Operation() {
	case model.OperationUpdate:
		if !a.Has(model.FieldID) && a.Subject() == "" {
			return &assistant.ValidationError{Field: typ.TitleField(), Reason: assistant.ReasonRequired}
		}
		if !a.HasChanges() {
			return &assistant.ValidationError{Field: assistant.FieldChange, Reason: assistant.ReasonRequired}
		}
	case model.OperationDelete:
		if a.String(model.FieldScope) == model.ScopeAll {
			if typ != model.EntityBudgetEntry {
				return &assistant.ValidationError{Field: model.FieldScope, Reason: "only budget entries can be deleted all at once"}
			}
			return nil
		}
		if !a.Has(model.FieldID) && a.Subject() == "" {
			return &assistant.ValidationError{Field: typ.TitleField(), Reason: assistant.ReasonRequired}
		}
	}
	return nil
}

// withDefaults fills the fields a new entity always carries.
func withDefaults(a model.Action, now time.Time) model.Action {
	if a.Intent.Operation() != model.OperationCreate {
		return a
	}
	a = a.Clone()
	setDefault := func(k string, v any) {
		if !a.Has(k) {
			a.Fields[k] = v
		}
	}

	switch a.Intent.EntityType() {
	case model.EntityTask:
		setDefault(model.FieldStatus, model.TaskStatusTodo)
		setDefault(model.FieldPriority, model.PriorityMedium)
	case model.EntityEvent:
		setDefault(model.FieldAllDay, false)
	case model.EntityBudgetEntry:
		setDefault(model.FieldKind, model.BudgetKindExpense)
		setDefault(model.FieldCategory, model.DefaultBudgetCategory)
		setDefault(model.FieldDate, now)
	case model.EntityShoppingItem:
		setDefault(model.FieldQuantity, 1.0)
		setDefault(model.FieldPurchased, false)
	}
	return a
}

// entityFields is what a create stores: the action's fields minus routing-only keys.
func entityFields(a model.Action) map[string]any {
	out := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		switch k {
		case model.FieldID, model.FieldNewTitle, model.FieldScope, model.FieldPeriod, model.FieldHint:
			continue
		}
		out[k] = v
	}
	return out
}

// changeFields is what an update writes: the change fields of the entity type, with
// new_title stored under the type's title field.
func changeFields(a model.Action) map[string]any {
	typ := a.Intent.EntityType()
	out := map[string]any{}
	for _, f := range model.ChangeFields(typ) {
		if !a.Has(f) {
			continue
		}
		if f == model.FieldNewTitle {
			out[typ.TitleField()] = strings.TrimSpace(a.String(f))
			continue
		}
		out[f] = a.Fields[f]
	}
	return out
}
