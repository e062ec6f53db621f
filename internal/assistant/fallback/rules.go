package fallback

import (
	"regexp"
	"strings"

	"family-hub/internal/model"
)

func rx(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + pattern + `$`)
}

// allTime marks a budget question about every entry rather than this month.
var allTime = regexp.MustCompile(`\b(?:all\s+time|ever|so\s+far|overall|in\s+total)\b`)

const (
	article   = `(?:(?:the|my|our|a|an)\s+)?`
	listWords = `(?:(?:the|our|my)\s+)?(?:shopping\s+|grocery\s+)?list`
)

// defaultRules is the evaluation order. More specific phrasings come first so a
// general rule never shadows them.
func defaultRules() []Rule {
	return []Rule{
		{
			Name:    "greeting",
			Intent:  model.IntentUnknown,
			Pattern: rx(`(?:hi|hello|hey|hey there|good (?:morning|afternoon|evening)|help|thanks|thank you|what can you do)(?:\s+\w+)?`),
			extract: func(m *match) { m.set(model.FieldHint, model.HintGreeting) },
		},
		{
			Name:       "delete_all_budget_entries",
			Intent:     model.IntentDeleteBudgetEntry,
			Pattern:    rx(`(?:delete|remove|clear|wipe|erase)\s+(?:all\s+(?:of\s+)?|every\s+)?(?:(?:the|our|my)\s+)?(?:budget(?:\s+entries|\s+entry)?|transactions|expenses)`),
			Confidence: 0.8,
			extract:    func(m *match) { m.set(model.FieldScope, model.ScopeAll) },
		},
		{
			Name:       "delete_budget_entry",
			Intent:     model.IntentDeleteBudgetEntry,
			Pattern:    rx(`(?:delete|remove)\s+` + article + `(?:budget\s+entry|expense|transaction|income(?:\s+entry)?)\s+(?:for\s+|called\s+)?(?P<subject>.+)`),
			Confidence: 0.75,
			extract: func(m *match) {
				m.subject(model.FieldDescription, m.group("subject"))
			},
		},
		{
			Name:   "query_budget",
			Intent: model.IntentQueryBudget,
			Pattern: rx(`(?:how\s+much\s+(?:money\s+)?(?:have|did|do)\s+(?:we|i)\s+(?:spent|spend|earned|earn|made|make)` +
				`|what(?:'s|\s+is)\s+(?:our|my|the)\s+(?:budget|balance|spending)` +
				`|(?:show|check|get|give)(?:\s+me)?\s+(?:(?:our|my|the)\s+)?(?:budget|balance|spending|expenses)(?:\s+summary)?` +
				`|budget(?:\s+summary)?)(?P<rest>.*)`),
			Confidence: 0.8,
			extract: func(m *match) {
				rest := strings.ToLower(m.group("rest"))
				switch {
				case strings.Contains(rest, "today"):
					m.set(model.FieldPeriod, "day")
				case strings.Contains(rest, "week"):
					m.set(model.FieldPeriod, "week")
				case strings.Contains(rest, "month"):
					m.set(model.FieldPeriod, "month")
				case strings.Contains(rest, "year"):
					m.set(model.FieldPeriod, "year")
				case allTime.MatchString(rest):
					m.set(model.FieldPeriod, "all")
				}
			},
		},
		{
			Name:       "record_spending",
			Intent:     model.IntentAddBudgetEntry,
			Pattern:    rx(`(?:(?:i|we)\s+)?(?P<verb>spent|paid|earned|received|got\s+paid|made)\s+(?P<rest>.*\d.*)`),
			Confidence: 0.8,
			extract: func(m *match) {
				kind := model.BudgetKindExpense
				switch strings.Fields(strings.ToLower(m.group("verb")))[0] {
				case "earned", "received", "got", "made":
					kind = model.BudgetKindIncome
				}
				budgetEntry(m, kind, m.group("rest"))
			},
		},
		{
			Name:       "add_budget_entry",
			Intent:     model.IntentAddBudgetEntry,
			Pattern:    rx(`(?:add|log|record)\s+(?:an?\s+)?(?P<kind>expense|income|payment)\s+(?:of\s+)?(?P<rest>.+)`),
			Confidence: 0.8,
			extract: func(m *match) {
				kind := model.BudgetKindExpense
				if strings.EqualFold(m.group("kind"), "income") {
					kind = model.BudgetKindIncome
				}
				budgetEntry(m, kind, m.group("rest"))
			},
		},
		{
			Name:       "check_off_item",
			Intent:     model.IntentCheckOffShoppingItem,
			Pattern:    rx(`(?:check|tick|cross)\s+(?P<subject>.+?)\s+off(?:\s+(?:the\s+)?` + listWords + `)?`),
			Confidence: 0.8,
			extract:    checkOff,
		},
		{
			Name:       "check_off_item_prefix",
			Intent:     model.IntentCheckOffShoppingItem,
			Pattern:    rx(`(?:check|tick|cross)\s+off\s+(?P<subject>.+?)(?:\s+(?:from|on)\s+` + listWords + `)?`),
			Confidence: 0.8,
			extract:    checkOff,
		},
		{
			Name:       "mark_bought",
			Intent:     model.IntentCheckOffShoppingItem,
			Pattern:    rx(`mark\s+(?P<subject>.+?)\s+as\s+(?:bought|purchased)`),
			Confidence: 0.8,
			extract:    checkOff,
		},
		{
			Name:       "bought",
			Intent:     model.IntentCheckOffShoppingItem,
			Pattern:    rx(`(?:i|we)\s+(?:just\s+)?(?:bought|got|picked\s+up|purchased)\s+(?P<subject>.+)`),
			Confidence: 0.7,
			extract:    checkOff,
		},
		{
			Name:       "add_to_list",
			Intent:     model.IntentAddShoppingItem,
			Pattern:    rx(`(?:add|put)\s+(?P<subject>.+?)\s+(?:to|on)\s+` + listWords),
			Confidence: 0.85,
			extract:    shoppingItem,
		},
		{
			Name:       "out_of",
			Intent:     model.IntentAddShoppingItem,
			Pattern:    rx(`(?:we(?:'re|\s+are)?|i(?:'m|\s+am)?)\s+(?:out\s+of|running\s+low\s+on|ran\s+out\s+of)\s+(?P<subject>.+)`),
			Confidence: 0.75,
			extract:    shoppingItem,
		},
		{
			Name:       "delete_event",
			Intent:     model.IntentDeleteEvent,
			Pattern:    rx(`(?:cancel|delete|remove)\s+(?:the\s+|my\s+|our\s+)?(?:event|appointment|meeting)\s+(?:called\s+)?(?P<subject>.+)`),
			Confidence: 0.8,
			extract:    func(m *match) { m.subject(model.FieldTitle, m.group("subject")) },
		},
		{
			Name:       "cancel",
			Intent:     model.IntentDeleteEvent,
			Pattern:    rx(`cancel\s+(?:the\s+|my\s+|our\s+)?(?P<subject>.+)`),
			Confidence: 0.75,
			extract:    func(m *match) { m.subject(model.FieldTitle, m.group("subject")) },
		},
		{
			Name:       "delete_task",
			Intent:     model.IntentDeleteTask,
			Pattern:    rx(`(?:delete|remove)\s+(?:the\s+)?(?:task|to-?do)\s+(?:called\s+)?(?P<subject>.+)`),
			Confidence: 0.8,
			extract:    func(m *match) { m.subject(model.FieldTitle, m.group("subject")) },
		},
		{
			Name:       "delete",
			Intent:     model.IntentDeleteTask,
			Pattern:    rx(`(?:delete|remove)\s+(?:the\s+)?(?P<subject>.+?)(?:\s+from\s+(?:my\s+|our\s+|the\s+)?(?:tasks|to-?dos?|to-?do\s+list|calendar))?`),
			Confidence: 0.6,
			extract: func(m *match) {
				m.subject(model.FieldTitle, m.group("subject"))
				m.action.Generic = true
			},
		},
		{
			Name:       "move",
			Intent:     model.IntentUpdateEvent,
			Pattern:    rx(`(?:move|reschedule|push|postpone|shift)\s+(?P<subject>.+?)\s+(?:to|until|till)\s+(?P<when>.+)`),
			Confidence: 0.8,
			extract: func(m *match) {
				m.subject(model.FieldTitle, m.group("subject"))
				m.action.Generic = true
				m.when(m.group("when"), model.FieldStart, true)
			},
		},
		{
			Name:       "mark_done",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`(?:mark|set)\s+(?P<subject>.+?)\s+(?:as\s+)?(?:done|complete|completed|finished)`),
			Confidence: 0.8,
			extract:    taskDone,
		},
		{
			Name:       "finished",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`(?:i|we)\s+(?:finished|completed|did|have\s+done)\s+(?P<subject>.+)`),
			Confidence: 0.7,
			extract:    taskDone,
		},
		{
			Name:       "rename",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`rename\s+(?P<subject>.+?)\s+to\s+(?P<new>.+)`),
			Confidence: 0.8,
			extract: func(m *match) {
				m.subject(model.FieldTitle, m.group("subject"))
				m.action.Generic = true
				if q, ok := quoted(m.group("new")); ok {
					m.set(model.FieldNewTitle, q)
					return
				}
				m.set(model.FieldNewTitle, tidy(m.group("new")))
			},
		},
		{
			Name:       "set_priority",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`(?:set|make|change)\s+(?:the\s+)?priority\s+(?:of|for|on)\s+(?P<subject>.+?)\s+to\s+(?P<priority>low|medium|high)`),
			Confidence: 0.8,
			extract: func(m *match) {
				m.subject(model.FieldTitle, m.group("subject"))
				m.set(model.FieldPriority, strings.ToLower(m.group("priority")))
			},
		},
		{
			Name:       "make_urgent",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`make\s+(?P<subject>.+?)\s+(?P<priority>urgent|important|high\s+priority|low\s+priority|not\s+urgent)`),
			Confidence: 0.75,
			extract: func(m *match) {
				m.subject(model.FieldTitle, m.group("subject"))
				_, priority := extractPriority(m.group("priority"))
				m.set(model.FieldPriority, priority)
			},
		},
		{
			Name:       "change",
			Intent:     model.IntentUpdateTask,
			Pattern:    rx(`(?:change|edit|update|modify|fix)\s+(?P<subject>.+?)(?:\s+to\s+(?P<change>.+))?`),
			Confidence: 0.6,
			extract:    change,
		},
		{
			Name:       "remind",
			Intent:     model.IntentCreateTask,
			Pattern:    rx(`(?:remind|tell)\s+(?P<who>\w+)\s+to\s+(?P<subject>.+)`),
			Confidence: 0.85,
			extract: func(m *match) {
				who := m.group("who")
				switch strings.ToLower(who) {
				case "me", "us", "everyone", "everybody":
				default:
					m.set(model.FieldAssignedTo, who)
				}
				task(m, m.group("subject"))
			},
		},
		{
			Name:       "add_task",
			Intent:     model.IntentCreateTask,
			Pattern:    rx(`(?:add|create|new)\s+(?:a\s+)?(?:task|to-?do)(?:\s+to)?\s*:?\s+(?P<subject>.+)`),
			Confidence: 0.85,
			extract:    func(m *match) { task(m, m.group("subject")) },
		},
		{
			Name:       "todo",
			Intent:     model.IntentCreateTask,
			Pattern:    rx(`to-?do\s*:?\s+(?P<subject>.+)`),
			Confidence: 0.8,
			extract:    func(m *match) { task(m, m.group("subject")) },
		},
		{
			Name:       "need_to",
			Intent:     model.IntentCreateTask,
			Pattern:    rx(`(?:(?:i|we)\s+(?:need|have|must|should|gotta)\s+to|don'?t\s+(?:let\s+me\s+)?forget\s+to)\s+(?P<subject>.+)`),
			Confidence: 0.7,
			extract:    func(m *match) { task(m, m.group("subject")) },
		},
		{
			Name:       "add_event",
			Intent:     model.IntentCreateEvent,
			Pattern:    rx(`(?:add|create|new|put)\s+(?:an?\s+)?(?:event|appointment|meeting)\s*:?\s+(?P<subject>.+?)(?:\s+(?:to|on|in)\s+(?:the\s+)?calendar)?`),
			Confidence: 0.85,
			extract:    func(m *match) { event(m, m.group("subject")) },
		},
		{
			Name:       "schedule",
			Intent:     model.IntentCreateEvent,
			Pattern:    rx(`(?:schedule|book|plan|arrange|set\s+up)\s+(?:an?\s+|the\s+)?(?P<subject>.+)`),
			Confidence: 0.85,
			extract:    func(m *match) { event(m, m.group("subject")) },
		},
	}
}

func task(m *match, s string) {
	s = m.when(s, model.FieldDue, false)
	s, priority := extractPriority(s)
	m.set(model.FieldPriority, priority)
	m.subject(model.FieldTitle, s)
}

var locationRe = regexp.MustCompile(`\s+(?:at|in)\s+(?P<place>(?:the\s+)?[A-Z][\w'&.-]*(?:\s+[A-Z][\w'&.-]*)*)$`)

func event(m *match, s string) {
	s = m.when(s, model.FieldStart, true)
	if loc := locationRe.FindStringSubmatchIndex(s); loc != nil {
		m.set(model.FieldLocation, s[loc[2]:loc[3]])
		s = s[:loc[0]]
	}
	m.subject(model.FieldTitle, s)
}

func budgetEntry(m *match, kind, s string) {
	m.set(model.FieldKind, kind)
	s = m.when(s, model.FieldDate, false)

	rest, amount, currency, ok := extractAmount(s)
	if ok {
		m.set(model.FieldAmount, amount)
		m.set(model.FieldCurrency, currency)
		s = rest
	}

	s = tidy(s)
	lower := strings.ToLower(s)
	for _, prep := range []string{"on ", "for ", "from "} {
		if strings.HasPrefix(lower, prep) {
			s, lower = s[len(prep):], lower[len(prep):]
			break
		}
	}
	s = tidy(s)
	if s == "" {
		return
	}
	m.set(model.FieldDescription, s)
	m.set(model.FieldCategory, strings.ToLower(strings.Fields(s)[0]))
}

func shoppingItem(m *match) {
	s := m.group("subject")
	if q, ok := quoted(s); ok {
		m.set(model.FieldName, q)
		return
	}
	if rest, qty, ok := extractQuantity(s); ok {
		m.set(model.FieldQuantity, qty)
		s = rest
	}
	s = strings.TrimPrefix(strings.TrimPrefix(tidy(s), "some "), "more ")
	m.subject(model.FieldName, s)
}

func checkOff(m *match) {
	m.subject(model.FieldName, m.group("subject"))
	m.set(model.FieldPurchased, true)
}

func taskDone(m *match) {
	m.subject(model.FieldTitle, m.group("subject"))
	m.set(model.FieldStatus, model.TaskStatusDone)
}

// change handles "change X to Y" where Y is a date, a priority or a new title.
// The subject may be a task or an event, so dates go to start until it is resolved.
func change(m *match) {
	m.subject(model.FieldTitle, m.group("subject"))
	m.action.Generic = true

	to := m.group("change")
	if to == "" {
		return
	}
	if _, w, ok := extractWhen(m.dates, to, m.now); ok {
		m.set(model.FieldStart, w.At)
		m.set(model.FieldAllDay, w.AllDay)
		return
	}
	if _, priority := extractPriority(to); priority != "" {
		m.set(model.FieldPriority, priority)
		return
	}
	if q, ok := quoted(to); ok {
		m.set(model.FieldNewTitle, q)
		return
	}
	m.set(model.FieldNewTitle, tidy(to))
}
