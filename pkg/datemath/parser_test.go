package datemath_test

import (
	"errors"
	"testing"
	"time"

	"family-hub/pkg/datemath"
)

func TestNewParser(t *testing.T) {
	_, err := datemath.NewParser("America/New_York")
	if err != nil {
		t.Fatalf("unexpected error creating valid parser: %v", err)
	}

	_, err = datemath.NewParser("Invalid/Timezone")
	if err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestParse(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	baseTime := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) // Wednesday, May 1, 2024
	startOfBase := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		relative string
		want     time.Time
		wantErr  bool
	}{
		{name: "Today", relative: "today", want: startOfBase},
		{name: "Tonight", relative: "tonight", want: startOfBase},
		{name: "Tomorrow", relative: "Tomorrow ", want: startOfBase.AddDate(0, 0, 1)},
		{name: "Day after tomorrow", relative: "the day after tomorrow", want: startOfBase.AddDate(0, 0, 2)},
		{name: "Yesterday", relative: "yesterday", want: startOfBase.AddDate(0, 0, -1)},
		{name: "In 3 days", relative: "in 3 days", want: startOfBase.AddDate(0, 0, 3)},
		{name: "In 2 weeks", relative: "in 2 weeks", want: startOfBase.AddDate(0, 0, 14)},
		{name: "In 1 month", relative: "in 1 month", want: startOfBase.AddDate(0, 1, 0)},
		{name: "Next week", relative: "next week", want: startOfBase.AddDate(0, 0, 7)},
		{name: "Invalid duration pattern", relative: "in a few days", want: baseTime, wantErr: true},
		{name: "Next Monday (from Wed)", relative: "next monday", want: startOfBase.AddDate(0, 0, 5)},
		{name: "Next Wednesday (from Wed)", relative: "next wednesday", want: startOfBase.AddDate(0, 0, 7)},
		{name: "This Wednesday is today", relative: "this wednesday", want: startOfBase},
		{name: "On Friday", relative: "on friday", want: startOfBase.AddDate(0, 0, 2)},
		{name: "Bare Tuesday wraps", relative: "tuesday", want: startOfBase.AddDate(0, 0, 6)},
		{name: "ISO date", relative: "2024-06-15", want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{name: "ISO date out of range", relative: "2024-02-31", wantErr: true},
		{name: "Unknown phrase", relative: "some random day", want: baseTime, wantErr: true},
		{name: "Invalid Next Weekday", relative: "next funday", want: baseTime, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.relative, baseTime)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_UnknownPhraseSentinel(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	_, err := parser.Parse("whenever", time.Now())
	if !errors.Is(err, datemath.ErrUnknownPhrase) {
		t.Fatalf("expected ErrUnknownPhrase, got %v", err)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in        string
		hour, min int
		wantErr   bool
	}{
		{in: "5pm", hour: 17},
		{in: "5:30 pm", hour: 17, min: 30},
		{in: "12am", hour: 0},
		{in: "12pm", hour: 12},
		{in: "9 a.m.", hour: 9},
		{in: "17:45", hour: 17, min: 45},
		{in: "noon", hour: 12},
		{in: "midnight", hour: 0},
		{in: "5", wantErr: true},
		{in: "13pm", wantErr: true},
		{in: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := datemath.ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (h != tt.hour || m != tt.min) {
				t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.min)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	base := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	got, err := parser.Resolve("tomorrow", "", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsAllDay || !got.AbsoluteTime.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected all-day result: %+v", got)
	}

	got, err = parser.Resolve("friday", "3pm", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsAllDay || !got.AbsoluteTime.Equal(time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timed result: %+v", got)
	}

	got, err = parser.Resolve("", "7:15 pm", base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AbsoluteTime.Equal(time.Date(2024, 5, 1, 19, 15, 0, 0, time.UTC)) {
		t.Errorf("clock without date should land today, got %v", got.AbsoluteTime)
	}

	got, _ = parser.Resolve("tonight", "", base)
	if got.IsAllDay || got.AbsoluteTime.Hour() != 20 {
		t.Errorf("tonight should default to an evening time, got %+v", got)
	}
}

func TestEndOfDay(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)

	got := parser.EndOfDay(base)
	if !got.Equal(want) {
		t.Errorf("EndOfDay() got = %v, want %v", got, want)
	}
}
