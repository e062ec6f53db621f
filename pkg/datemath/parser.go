package datemath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownPhrase = errors.New("unrecognised date phrase")
	ErrInvalidClock  = errors.New("invalid clock time")
)

var (
	inDurationRe = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clockRe      = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?$`)
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Parser converts relative date strings to absolute time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "America/New_York"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Parse converts a relative date string to the start of the day it names.
// The baseTime is used as the reference point (usually time.Now()).
func (p *Parser) Parse(relative string, baseTime time.Time) (time.Time, error) {
	relative = strings.Join(strings.Fields(strings.ToLower(relative)), " ")

	switch relative {
	case "today", "tonight", "this evening", "this afternoon", "this morning":
		return p.startOfDay(baseTime), nil
	case "tomorrow":
		return p.startOfDay(baseTime.AddDate(0, 0, 1)), nil
	case "day after tomorrow", "the day after tomorrow":
		return p.startOfDay(baseTime.AddDate(0, 0, 2)), nil
	case "yesterday":
		return p.startOfDay(baseTime.AddDate(0, 0, -1)), nil
	case "next week":
		return p.startOfDay(baseTime.AddDate(0, 0, 7)), nil
	}

	if m := isoDateRe.FindStringSubmatch(relative); m != nil {
		return p.parseISODate(m)
	}

	if strings.HasPrefix(relative, "in ") {
		return p.parseInDuration(relative, baseTime)
	}

	if strings.HasPrefix(relative, "next ") {
		return p.parseWeekday(strings.TrimPrefix(relative, "next "), baseTime, true)
	}

	for _, prefix := range []string{"this ", "on ", "coming "} {
		if strings.HasPrefix(relative, prefix) {
			return p.parseWeekday(strings.TrimPrefix(relative, prefix), baseTime, false)
		}
	}

	if _, ok := weekdays[relative]; ok {
		return p.parseWeekday(relative, baseTime, false)
	}

	return baseTime, fmt.Errorf("%w: %q", ErrUnknownPhrase, relative)
}

// Resolve combines a date phrase and an optional clock phrase.
// Without a clock the result is an all-day value at the start of the day.
func (p *Parser) Resolve(datePhrase, clockPhrase string, baseTime time.Time) (ParseResult, error) {
	day := p.startOfDay(baseTime)
	if datePhrase != "" {
		d, err := p.Parse(datePhrase, baseTime)
		if err != nil {
			return ParseResult{}, err
		}
		day = d
	}

	if clockPhrase == "" {
		if strings.Contains(strings.ToLower(datePhrase), "tonight") {
			return ParseResult{AbsoluteTime: p.At(day, 20, 0)}, nil
		}
		return ParseResult{AbsoluteTime: day, IsAllDay: true}, nil
	}

	hour, minute, err := ParseClock(clockPhrase)
	if err != nil {
		return ParseResult{}, err
	}
	return ParseResult{AbsoluteTime: p.At(day, hour, minute)}, nil
}

// At returns the given wall-clock time on day in the parser's timezone.
func (p *Parser) At(day time.Time, hour, minute int) time.Time {
	day = day.In(p.location)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.location)
}

// ParseClock parses "5pm", "5:30 pm", "17:30", "noon" and "midnight".
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "noon", "midday":
		return 12, 0, nil
	case "midnight":
		return 0, 0, nil
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	suffix := strings.ReplaceAll(m[3], ".", "")

	switch suffix {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if hour != 12 {
			hour += 12
		}
	case "":
		// Bare numbers need minutes ("17:30"), otherwise "at 5" is ambiguous.
		if m[2] == "" {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (time.Time, error) {
	matches := inDurationRe.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return baseTime, fmt.Errorf("invalid duration format: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch {
	case strings.HasPrefix(unit, "day"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount)), nil
	case strings.HasPrefix(unit, "week"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount*7)), nil
	case strings.HasPrefix(unit, "month"):
		return p.startOfDay(baseTime.AddDate(0, amount, 0)), nil
	}

	return baseTime, fmt.Errorf("unknown time unit: %q", unit)
}

// parseWeekday resolves a weekday name. "next" always moves forward at least one day;
// a bare or "this" weekday resolves to today when it matches.
func (p *Parser) parseWeekday(dayName string, baseTime time.Time, strictlyAfter bool) (time.Time, error) {
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return baseTime, fmt.Errorf("unknown weekday: %q", dayName)
	}

	daysUntil := int(targetWeekday - baseTime.In(p.location).Weekday())
	if daysUntil < 0 || (daysUntil == 0 && strictlyAfter) {
		daysUntil += 7
	}

	return p.startOfDay(baseTime.AddDate(0, 0, daysUntil)), nil
}

func (p *Parser) parseISODate(m []string) (time.Time, error) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownPhrase, m[0])
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, p.location)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownPhrase, m[0])
	}
	return t, nil
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// EndOfDay returns 23:59:59 at the end of the given start-of-day time.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
