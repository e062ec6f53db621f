package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/model"
)

// Compose renders the reply for a finished turn. It is a pure function of its inputs
// and never mentions which resolver or backend was involved.
func Compose(outcome model.Outcome, action *model.Action, err error) string {
	switch outcome.Kind {
	case model.OutcomeSuccess:
		return composeSuccess(outcome, action)
	case model.OutcomeClarification:
		return composeClarification(action, err)
	case model.OutcomeRefusal:
		return composeRefusal(err)
	}
	return "Sorry, I couldn't complete that just now. Nothing was changed, so you can try again."
}

const helpText = "I can add tasks and reminders, schedule events, record income and expenses, " +
	"summarise the budget and keep the shopping list."

var intentPhrases = map[model.Intent]string{
	model.IntentCreateTask:           "add a task",
	model.IntentUpdateTask:           "change a task",
	model.IntentDeleteTask:           "delete a task",
	model.IntentCreateEvent:          "schedule an event",
	model.IntentUpdateEvent:          "change an event",
	model.IntentDeleteEvent:          "cancel an event",
	model.IntentAddBudgetEntry:       "record a budget entry",
	model.IntentDeleteBudgetEntry:    "delete budget entries",
	model.IntentQueryBudget:          "check the budget",
	model.IntentAddShoppingItem:      "add something to the shopping list",
	model.IntentCheckOffShoppingItem: "check something off the shopping list",
}

var fieldPrompts = map[string]string{
	model.FieldTitle:       "a title",
	model.FieldName:        "the item's name",
	model.FieldDescription: "a description",
	model.FieldStart:       "a date and time",
	model.FieldEnd:         "an end time",
	model.FieldDue:         "a due date",
	model.FieldAmount:      "an amount",
	model.FieldQuantity:    "a quantity",
	model.FieldKind:        "whether it is income or an expense",
	model.FieldCategory:    "a category",
	model.FieldPriority:    "a priority of low, medium or high",
	model.FieldStatus:      "a status of todo or done",
	model.FieldPeriod:      "a period like this week, this month or all time",
	assistant.FieldChange:  "what to change",
}

func composeSuccess(out model.Outcome, a *model.Action) string {
	if a == nil {
		return "Done."
	}
	title := out.EntityTitle
	label := out.EntityType.Label()

	switch a.Intent {
	case model.IntentCreateTask:
		reply := fmt.Sprintf("Added task %q", title)
		if due, ok := a.Time(model.FieldDue); ok {
			reply += " due " + formatWhen(due, true)
		}
		if who := a.String(model.FieldAssignedTo); who != "" {
			reply += " for " + who
		}
		return reply + "."
	case model.IntentCreateEvent:
		start, _ := a.Time(model.FieldStart)
		allDay, _ := a.Fields[model.FieldAllDay].(bool)
		reply := fmt.Sprintf("Scheduled %q for %s", title, formatWhen(start, allDay))
		if loc := a.String(model.FieldLocation); loc != "" {
			reply += " at " + loc
		}
		return reply + "."
	case model.IntentAddBudgetEntry:
		amount, _ := a.Float(model.FieldAmount)
		kind := "an expense"
		if a.String(model.FieldKind) == model.BudgetKindIncome {
			kind = "income"
		}
		return fmt.Sprintf("Recorded %s of %s for %s.", kind, formatMoney(amount, a.String(model.FieldCurrency)), a.String(model.FieldCategory))
	case model.IntentAddShoppingItem:
		if q, _ := a.Float(model.FieldQuantity); q > 1 {
			return fmt.Sprintf("Added %s × %s to the shopping list.", formatNumber(q), title)
		}
		return fmt.Sprintf("Added %s to the shopping list.", title)
	case model.IntentCheckOffShoppingItem:
		return fmt.Sprintf("Checked %s off the shopping list.", title)
	case model.IntentQueryBudget:
		return composeBudget(out.Budget)
	}

	switch a.Intent.Operation() {
	case model.OperationDelete:
		if a.String(model.FieldScope) == model.ScopeAll {
			return fmt.Sprintf("Deleted all %s (%d).", plural(label), out.Affected)
		}
		return fmt.Sprintf("Deleted %s %q.", label, title)
	case model.OperationUpdate:
		if a.String(model.FieldStatus) == model.TaskStatusDone {
			return fmt.Sprintf("Marked %s %q as done.", label, title)
		}
		if start, ok := a.Time(model.FieldStart); ok {
			allDay, _ := a.Fields[model.FieldAllDay].(bool)
			return fmt.Sprintf("Moved %s %q to %s.", label, title, formatWhen(start, allDay))
		}
		if due, ok := a.Time(model.FieldDue); ok {
			return fmt.Sprintf("Moved %s %q to %s.", label, title, formatWhen(due, true))
		}
		return fmt.Sprintf("Updated %s %q.", label, title)
	}
	return "Done."
}

func composeBudget(sum *model.BudgetSummary) string {
	if sum == nil || sum.Entries == 0 {
		return "There are no budget entries for that period yet."
	}
	scope := "This month"
	switch sum.Period {
	case PeriodAll:
		scope = "So far"
	case PeriodDay:
		scope = "Today"
	case PeriodWeek:
		scope = "This week"
	case PeriodYear:
		scope = "This year"
	}
	reply := fmt.Sprintf("%s: income %s, expenses %s, balance %s across %d %s.",
		scope, formatNumber2(sum.Income), formatNumber2(sum.Expenses), formatNumber2(sum.Balance),
		sum.Entries, pluralize("entry", "entries", sum.Entries))

	if top, amount := topCategory(sum.ByCategory); top != "" {
		reply += fmt.Sprintf(" Most was spent on %s (%s).", top, formatNumber2(amount))
	}
	return reply
}

func topCategory(byCategory map[string]float64) (string, float64) {
	names := make([]string, 0, len(byCategory))
	for k := range byCategory {
		names = append(names, k)
	}
	sort.Strings(names)
	top, best := "", 0.0
	for _, k := range names {
		if byCategory[k] > best {
			top, best = k, byCategory[k]
		}
	}
	return top, best
}

func composeClarification(a *model.Action, err error) string {
	var parseErr *assistant.ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Greeting {
			return "Hi! " + helpText + " What would you like to do?"
		}
		return "Sorry, I didn't catch what you'd like me to do. " + helpText +
			` For example: "remind me to buy milk tomorrow".`
	}

	var ambiguous *assistant.AmbiguousIntentError
	if errors.As(err, &ambiguous) {
		switch ambiguous.Field {
		case assistant.FieldChange:
			if a != nil && a.Subject() != "" {
				return fmt.Sprintf("What would you like to change about %q?", a.Subject())
			}
			return "What would you like to change?"
		case assistant.FieldSubject:
			noun := subjectNoun(a, ambiguous.Intent)
			if a != nil && a.Subject() != "" {
				return fmt.Sprintf("I found more than one %s matching %q. Which one do you mean?", noun, a.Subject())
			}
			return fmt.Sprintf("Which %s do you mean?", noun)
		}
		if phrase, ok := intentPhrases[ambiguous.Intent]; ok {
			return fmt.Sprintf("I'm not sure I understood. Did you want to %s? Could you say it another way?", phrase)
		}
		return "I'm not sure I understood. Could you say it another way?"
	}

	var invalid *assistant.ValidationError
	if errors.As(err, &invalid) {
		if invalid.Reason == assistant.ReasonNotFound {
			noun := subjectNoun(a, "")
			if a != nil && a.Subject() != "" {
				return fmt.Sprintf("I couldn't find a %s called %q.", noun, a.Subject())
			}
			return fmt.Sprintf("I couldn't find that %s any more.", noun)
		}
		what, ok := fieldPrompts[invalid.Field]
		if !ok {
			what = "a bit more detail"
		}
		if invalid.Reason == assistant.ReasonRequired {
			if a != nil {
				if phrase, ok := intentPhrases[a.Intent]; ok {
					return fmt.Sprintf("I need %s to %s. Could you tell me?", what, phrase)
				}
			}
			return fmt.Sprintf("I need %s. Could you tell me?", what)
		}
		return fmt.Sprintf("That doesn't look right: I need %s. Could you try again?", what)
	}
	return "Could you tell me a bit more?"
}

func subjectNoun(a *model.Action, intent model.Intent) string {
	if a != nil {
		if a.Generic {
			return "task or event"
		}
		intent = a.Intent
	}
	if intent.Actionable() {
		return intent.EntityType().Label()
	}
	return "item"
}

func composeRefusal(err error) string {
	var denied *assistant.PermissionDeniedError
	if !errors.As(err, &denied) {
		return "Sorry, you're not allowed to do that."
	}
	phrase := intentPhrases[denied.Intent]
	if phrase == "" {
		phrase = "do that"
	}
	who := "your role"
	if denied.Role != "" {
		who = "a " + string(denied.Role)
	}
	reply := fmt.Sprintf("Sorry, as %s you can't %s: it needs the %s privilege.", who, phrase, denied.Privilege)
	if len(denied.Holders) > 0 {
		names := make([]string, len(denied.Holders))
		for i, r := range denied.Holders {
			names[i] = plural(string(r))
		}
		reply += fmt.Sprintf(" Ask one of the %s.", joinAnd(names))
	}
	return reply
}

func formatWhen(t time.Time, allDay bool) string {
	if allDay {
		return t.Format("Monday, January 2")
	}
	return t.Format("Monday, January 2 at 3:04 PM")
}

func formatMoney(amount float64, currency string) string {
	if currency == "" {
		return formatNumber2(amount)
	}
	return formatNumber2(amount) + " " + currency
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

func formatNumber2(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func plural(s string) string {
	switch {
	case strings.HasSuffix(s, "y"):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"):
		return s
	}
	return s + "s"
}

func pluralize(one, many string, n int) string {
	if n == 1 {
		return one
	}
	return many
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
