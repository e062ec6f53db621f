package usecase

import (
	"context"
	"math"
	"time"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"
)

// queryBudget summarises budget entries dated within the requested period, this month
// when none is given. Entries without a date count from when they were recorded.
func (uc *implUseCase) queryBudget(ctx context.Context, workspaceID string, a model.Action, now time.Time) (model.Outcome, error) {
	entries, err := uc.repo.QueryEntities(ctx, repository.QueryEntitiesOptions{
		WorkspaceID: workspaceID,
		Type:        model.EntityBudgetEntry,
	})
	if err != nil {
		return model.Outcome{}, err
	}

	period := a.String(model.FieldPeriod)
	if period == "" {
		period = PeriodMonth
	}
	from, bounded := periodStart(period, now)

	sum := &model.BudgetSummary{ByCategory: map[string]float64{}, Period: period}
	for _, e := range entries {
		when, ok := e.Fields[model.FieldDate].(time.Time)
		if !ok {
			when = e.CreatedAt
		}
		if bounded && when.Before(from) {
			continue
		}
		amount, _ := e.Fields[model.FieldAmount].(float64)
		sum.Entries++
		if kind, _ := e.Fields[model.FieldKind].(string); kind == model.BudgetKindIncome {
			sum.Income += amount
			continue
		}
		sum.Expenses += amount
		category, _ := e.Fields[model.FieldCategory].(string)
		if category == "" {
			category = model.DefaultBudgetCategory
		}
		sum.ByCategory[category] += amount
	}
	sum.Income, sum.Expenses = round2(sum.Income), round2(sum.Expenses)
	sum.Balance = round2(sum.Income - sum.Expenses)

	return model.Outcome{Kind: model.OutcomeSuccess, EntityType: model.EntityBudgetEntry, Budget: sum}, nil
}

// periodStart returns the first instant of the period containing now. Weeks start on
// Monday. Only PeriodAll is unbounded; anything unrecognised falls back to the month.
func periodStart(period string, now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodDay:
		return day, true
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset), true
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location()), true
	case PeriodAll:
		return time.Time{}, false
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
