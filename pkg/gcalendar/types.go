package gcalendar

import (
	"context"
	"time"
)

// ICalendar is the subset of Google Calendar the assistant mirrors events into.
type ICalendar interface {
	CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error)
}

// Config locates the credentials used by New.
type Config struct {
	CredentialsFile string
	// TokenFile is read for OAuth desktop credentials. Defaults to token.json.
	TokenFile string
}

// CreateEventRequest is the input for creating a Google Calendar event.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	// AllDay sends date-only start/end; the end date is exclusive.
	AllDay   bool
	Timezone string // e.g. "Europe/Berlin"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
}
