package datemath

import "time"

// ParseResult holds the result of resolving a date phrase with an optional clock time.
type ParseResult struct {
	AbsoluteTime time.Time
	IsAllDay     bool
}
