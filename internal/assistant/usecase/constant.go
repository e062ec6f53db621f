package usecase

// Log prefixes
const (
	LogPrefixHandle  = "internal.assistant.usecase.Handle"
	LogPrefixResolve = "internal.assistant.usecase.resolve"
	LogPrefixExecute = "internal.assistant.usecase.execute"
	LogPrefixMirror  = "internal.assistant.usecase.mirrorEvent"
)

// Fallback reasons, used as metric labels.
const (
	ReasonNoGuess       = "no_guess"
	ReasonLowConfidence = "low_confidence"
	ReasonUnknownIntent = "unknown_intent"
	ReasonSettings      = "settings"
)

// PromptSystem is the instruction sent with every message. %s is today's date, %s the timezone.
const PromptSystem = `You turn messages from members of a family household app into exactly one action.
Today is %s (timezone %s).

Call the function resolve_household_action with:
- intent: one of create_task, update_task, delete_task, create_event, update_event, delete_event,
  add_budget_entry, delete_budget_entry, query_budget, add_shopping_item, check_off_shopping_item, unknown
- confidence: how sure you are, from 0 to 1
- fields: only what the message states

Field names:
- tasks: title, description, due, priority (low|medium|high), status (todo|done), assigned_to, new_title
- events: title, description, start, end, location, all_day, new_title
- budget: amount, currency, kind (income|expense), category, description, date, scope ("all" for every entry), period (day|week|month|year)
- shopping: name, quantity, purchased

Dates are ISO 8601 in the given timezone. When the message refers to something earlier with
"it", "that" or "this one", set title to that word instead of guessing a name.
Anything that is not a household action is intent unknown.`

// PromptHistoryReply summarises a previous turn for the model.
const PromptHistoryReply = "(resolved as %s)"

// Budget periods accepted by query_budget. A query without one covers this month.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)
