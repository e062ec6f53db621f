package usecase

import (
	"context"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/assistant/fallback"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/assistant/session"
	"family-hub/internal/settings"
	"family-hub/pkg/gcalendar"
	"family-hub/pkg/llmprovider"
	"family-hub/pkg/log"

	"golang.org/x/sync/singleflight"
)

// Completer is the gateway call the router depends on.
type Completer interface {
	Complete(ctx context.Context, prompt llmprovider.Prompt, history []llmprovider.Message, cfg llmprovider.Config) (*llmprovider.RawResult, error)
}

// Options tunes the use case. Zero values fall back to defaults.
type Options struct {
	ConfidenceThreshold float64
	Location            *time.Location

	// Calendar, when set, receives a copy of every event created.
	Calendar   gcalendar.ICalendar
	CalendarID string

	Now func() time.Time
}

// implUseCase is the private implementation of assistant.UseCase.
type implUseCase struct {
	l        log.Logger
	gateway  Completer
	parser   *fallback.Parser
	sessions *session.Store
	repo     repository.Repository
	ledger   repository.LedgerRepository
	settings settings.Reader

	threshold  float64
	loc        *time.Location
	calendar   gcalendar.ICalendar
	calendarID string
	now        func() time.Time

	flight singleflight.Group
}

var _ assistant.UseCase = (*implUseCase)(nil)

// New creates the assistant use case.
func New(
	l log.Logger,
	gateway Completer,
	parser *fallback.Parser,
	sessions *session.Store,
	repo repository.Repository,
	ledger repository.LedgerRepository,
	settings settings.Reader,
	opts Options,
) *implUseCase {
	uc := &implUseCase{
		l:          l,
		gateway:    gateway,
		parser:     parser,
		sessions:   sessions,
		repo:       repo,
		ledger:     ledger,
		settings:   settings,
		threshold:  opts.ConfidenceThreshold,
		loc:        opts.Location,
		calendar:   opts.Calendar,
		calendarID: opts.CalendarID,
		now:        opts.Now,
	}
	if uc.threshold <= 0 || uc.threshold > 1 {
		uc.threshold = assistant.DefaultConfidenceThreshold
	}
	if uc.loc == nil {
		uc.loc = time.UTC
	}
	if uc.calendarID == "" {
		uc.calendarID = "primary"
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}
