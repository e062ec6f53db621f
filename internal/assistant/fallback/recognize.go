package fallback

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"family-hub/pkg/datemath"
)

const weekdayNames = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`

var (
	dateRe = regexp.MustCompile(`(?i)\b(?:(?:due|by|on|for)\s+)?(` +
		`(?:next|this|coming)\s+(?:` + weekdayNames + `)` +
		`|(?:the\s+)?day\s+after\s+tomorrow` +
		`|today|tonight|tomorrow|yesterday|next\s+week` +
		`|this\s+(?:evening|afternoon|morning)` +
		`|in\s+\d+\s+(?:days?|weeks?|months?)` +
		`|\d{4}-\d{2}-\d{2}` +
		`|` + weekdayNames + `)\b`)

	clockRe = regexp.MustCompile(`(?i)\b(?:at\s+)?((?:noon|midnight)\b|\d{1,2}(?::\d{2})?\s*(?:[ap]\.m\.|[ap]m\b)|\d{1,2}:\d{2}\b)`)

	amountRe = regexp.MustCompile(`(?i)(?:([$€£])\s*(\d[\d,]*(?:\.\d{1,2})?)` +
		`|(\d[\d,]*(?:\.\d{1,2})?)\s*(dollars?|bucks|usd|euros?|eur|pounds?|gbp)\b` +
		`|(\d[\d,]*(?:\.\d{1,2})?))`)

	quotedRe = regexp.MustCompile(`["“”]([^"“”]+)["“”]`)

	quantityRe = regexp.MustCompile(`(?i)^(\d+|a\s+dozen|a\s+couple\s+of|an?|one|two|three|four|five|six|seven|eight|nine|ten)\s+` +
		`(?:(?:bottles?|cartons?|packs?|packets?|bags?|boxes?|cans?|jars?|loaves|loaf|bunch(?:es)?|kg|lbs?|pounds?)\s+of\s+)?(.+)$`)

	priorityRe = regexp.MustCompile(`(?i)(?:,\s*)?\b(urgent(?:ly)?|asap|important|high\s+priority|low\s+priority|medium\s+priority|(?:it'?s\s+)?not\s+urgent)\b`)

	spacesRe     = regexp.MustCompile(`\s+`)
	connectorsRe = regexp.MustCompile(`(?i)(?:\s+|^)(?:on|at|by|for|due|from|and|,)$`)
)

var quantityWords = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a dozen": 12, "a couple of": 2,
}

var currencies = map[string]string{
	"$": "USD", "dollar": "USD", "dollars": "USD", "bucks": "USD", "usd": "USD",
	"€": "EUR", "euro": "EUR", "euros": "EUR", "eur": "EUR",
	"£": "GBP", "pound": "GBP", "pounds": "GBP", "gbp": "GBP",
}

var references = map[string]bool{
	"it": true, "that": true, "this": true, "them": true,
	"this one": true, "that one": true, "the same": true,
}

// when is a resolved date phrase.
type when struct {
	At     time.Time
	AllDay bool
}

// extractWhen removes the first date phrase and the first clock phrase from s and
// resolves them against now. ok is false when s names no date or time.
func extractWhen(dates *datemath.Parser, s string, now time.Time) (rest string, w when, ok bool) {
	rest = s
	var datePhrase, clockPhrase string

	if loc := dateRe.FindStringSubmatchIndex(rest); loc != nil {
		datePhrase = rest[loc[2]:loc[3]]
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
	}
	if loc := clockRe.FindStringSubmatchIndex(rest); loc != nil {
		clockPhrase = rest[loc[2]:loc[3]]
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
	}
	if datePhrase == "" && clockPhrase == "" {
		return s, when{}, false
	}

	res, err := dates.Resolve(datePhrase, clockPhrase, now)
	if err != nil {
		return s, when{}, false
	}
	return tidy(rest), when{At: res.AbsoluteTime, AllDay: res.IsAllDay}, true
}

// extractAmount removes the first money amount from s.
func extractAmount(s string) (rest string, amount float64, currency string, ok bool) {
	loc := amountRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, 0, "", false
	}
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return s[loc[2*i]:loc[2*i+1]]
	}

	var digits string
	switch {
	case group(2) != "":
		digits, currency = group(2), currencies[group(1)]
	case group(3) != "":
		digits, currency = group(3), currencies[strings.ToLower(group(4))]
	default:
		digits = group(5)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return s, 0, "", false
	}
	return tidy(s[:loc[0]] + " " + s[loc[1]:]), amount, currency, true
}

// extractPriority removes a priority word from s.
func extractPriority(s string) (rest, priority string) {
	loc := priorityRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	word := strings.ToLower(s[loc[2]:loc[3]])
	switch {
	case strings.Contains(word, "not urgent"), strings.HasPrefix(word, "low"):
		priority = "low"
	case strings.HasPrefix(word, "medium"):
		priority = "medium"
	default:
		priority = "high"
	}
	return tidy(s[:loc[0]] + " " + s[loc[1]:]), priority
}

// extractQuantity splits "2 cartons of milk" into 2 and "milk".
func extractQuantity(s string) (rest string, qty float64, ok bool) {
	m := quantityRe.FindStringSubmatch(s)
	if m == nil {
		return s, 0, false
	}
	word := strings.ToLower(spacesRe.ReplaceAllString(m[1], " "))
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		qty = n
	} else {
		qty = quantityWords[word]
	}
	if qty <= 0 {
		return s, 0, false
	}
	return tidy(m[2]), qty, true
}

// quoted returns the first double-quoted substring.
func quoted(s string) (string, bool) {
	m := quotedRe.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// IsReference reports whether s is a lone pronoun standing in for a subject, such as "it" or "that one".
func IsReference(s string) bool {
	return references[strings.ToLower(tidy(s))]
}

// tidy collapses whitespace and strips dangling connectors and punctuation.
func tidy(s string) string {
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
	for {
		next := strings.TrimSpace(connectorsRe.ReplaceAllString(s, ""))
		next = strings.Trim(next, " ,;:-")
		if next == s {
			return s
		}
		s = next
	}
}

// normalize trims politeness and trailing punctuation that never carries meaning.
func normalize(text string) string {
	s := strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
	s = strings.TrimRight(s, ".!? ")
	lower := strings.ToLower(s)
	for _, prefix := range []string{"hey, ", "hi, ", "hello, ", "ok, ", "okay, ", "please ", "can you ", "could you ", "would you "} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			lower = lower[len(prefix):]
		}
	}
	s = strings.TrimSuffix(s, " please")
	return strings.TrimRight(strings.TrimSpace(s), ",.!? ")
}
