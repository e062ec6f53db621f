package fallback

import (
	"regexp"
	"strings"
	"time"

	"family-hub/internal/model"
	"family-hub/pkg/datemath"
)

// Rule is one entry of the ordered rule list.
type Rule struct {
	Name       string
	Intent     model.Intent
	Pattern    *regexp.Regexp
	Confidence float64
	extract    func(m *match)
}

// Parser resolves text offline with an ordered list of rules. The first rule whose
// pattern matches wins. It is safe for concurrent use.
type Parser struct {
	rules []Rule
	dates *datemath.Parser
	now   func() time.Time
}

// New creates a parser with the built-in rule list.
func New(dates *datemath.Parser) *Parser {
	return &Parser{rules: defaultRules(), dates: dates, now: time.Now}
}

// Rules returns a copy of the rule list in evaluation order.
func (p *Parser) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Parse resolves text relative to the current time.
func (p *Parser) Parse(text string) model.Action {
	return p.ParseAt(text, p.now())
}

// ParseAt resolves text with relative dates anchored at now.
// Text no rule matches yields IntentUnknown with confidence 0.
func (p *Parser) ParseAt(text string, now time.Time) model.Action {
	s := normalize(text)
	now = now.In(p.dates.Location())

	for i := range p.rules {
		r := &p.rules[i]
		groups := r.Pattern.FindStringSubmatch(s)
		if groups == nil {
			continue
		}

		m := &match{
			dates:  p.dates,
			now:    now,
			names:  r.Pattern.SubexpNames(),
			groups: groups,
			action: model.Action{
				Intent:     r.Intent,
				Fields:     map[string]any{},
				Confidence: r.Confidence,
				Source:     model.SourceRule,
			},
		}
		if r.extract != nil {
			r.extract(m)
		}
		return m.action
	}

	return model.Action{Intent: model.IntentUnknown, Fields: map[string]any{}, Source: model.SourceRule}
}

var leadingArticleRe = regexp.MustCompile(`(?i)^(?:the|my|our)\s+`)

type match struct {
	dates  *datemath.Parser
	now    time.Time
	names  []string
	groups []string
	action model.Action
}

func (m *match) group(name string) string {
	for i, n := range m.names {
		if n == name && i < len(m.groups) {
			return strings.TrimSpace(m.groups[i])
		}
	}
	return ""
}

func (m *match) set(field string, v any) {
	if s, ok := v.(string); ok && s == "" {
		return
	}
	m.action.Fields[field] = v
}

// subject stores s as the subject of the action, or as an elliptical reference
// to be resolved from context. A double-quoted name wins over the surrounding words.
func (m *match) subject(field, s string) {
	if q, ok := quoted(s); ok {
		m.set(field, q)
		return
	}
	s = leadingArticleRe.ReplaceAllString(tidy(s), "")
	if IsReference(s) {
		m.action.Reference = strings.ToLower(s)
		return
	}
	m.set(field, strings.Trim(s, `"'`))
}

// when extracts a date from s into field (and all_day when relevant), returning the rest.
func (m *match) when(s, field string, allDay bool) string {
	rest, w, ok := extractWhen(m.dates, s, m.now)
	if !ok {
		return s
	}
	m.set(field, w.At)
	if allDay {
		m.set(model.FieldAllDay, w.AllDay)
	}
	return rest
}
