package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"family-hub/internal/assistant/fallback"
	"family-hub/internal/assistant/repository"
	"family-hub/internal/assistant/repository/memory"
	"family-hub/internal/assistant/session"
	"family-hub/internal/model"
	"family-hub/internal/settings"
	"family-hub/pkg/datemath"
	"family-hub/pkg/gcalendar"
	"family-hub/pkg/llmprovider"
	"family-hub/pkg/log"

	"github.com/stretchr/testify/require"
)

// Wednesday.
var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// mockCompleter returns guess, or err when set. block waits for cancellation.
type mockCompleter struct {
	mu    sync.Mutex
	guess *llmprovider.Guess
	err   error
	block bool
	calls int
}

func (m *mockCompleter) Complete(ctx context.Context, prompt llmprovider.Prompt, history []llmprovider.Message, cfg llmprovider.Config) (*llmprovider.RawResult, error) {
	m.mu.Lock()
	m.calls++
	guess, err, block := m.guess, m.err, m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, &llmprovider.ProviderError{Provider: "mock", Kind: llmprovider.ErrNetwork, Err: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	return &llmprovider.RawResult{Guess: guess, Provider: "mock"}, nil
}

func unavailable() error {
	return &llmprovider.ProviderError{Provider: llmprovider.NullProviderName, Kind: llmprovider.ErrProviderUnavailable}
}

// countingRepo counts every store call made through it, inside sections included.
type countingRepo struct {
	repository.Repository

	mu      sync.Mutex
	reads   int
	writes  int
	entered int
}

func (r *countingRepo) WithinWorkspace(ctx context.Context, ws string, fn func(ctx context.Context, repo repository.EntityRepository) error) error {
	r.mu.Lock()
	r.entered++
	r.mu.Unlock()
	return r.Repository.WithinWorkspace(ctx, ws, func(ctx context.Context, repo repository.EntityRepository) error {
		return fn(ctx, &countingSection{EntityRepository: repo, parent: r})
	})
}

func (r *countingRepo) QueryEntities(ctx context.Context, opt repository.QueryEntitiesOptions) ([]model.Entity, error) {
	r.count(false)
	return r.Repository.QueryEntities(ctx, opt)
}

func (r *countingRepo) count(write bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if write {
		r.writes++
	} else {
		r.reads++
	}
}

func (r *countingRepo) calls() (entered, reads, writes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entered, r.reads, r.writes
}

type countingSection struct {
	repository.EntityRepository
	parent *countingRepo
}

func (s *countingSection) CreateEntity(ctx context.Context, opt repository.CreateEntityOptions) (model.Entity, error) {
	s.parent.count(true)
	return s.EntityRepository.CreateEntity(ctx, opt)
}

func (s *countingSection) UpdateEntity(ctx context.Context, opt repository.UpdateEntityOptions) (model.Entity, error) {
	s.parent.count(true)
	return s.EntityRepository.UpdateEntity(ctx, opt)
}

func (s *countingSection) DeleteEntity(ctx context.Context, opt repository.DeleteEntityOptions) error {
	s.parent.count(true)
	return s.EntityRepository.DeleteEntity(ctx, opt)
}

func (s *countingSection) DeleteEntities(ctx context.Context, opt repository.DeleteEntitiesOptions) (int, error) {
	s.parent.count(true)
	return s.EntityRepository.DeleteEntities(ctx, opt)
}

func (s *countingSection) QueryEntities(ctx context.Context, opt repository.QueryEntitiesOptions) ([]model.Entity, error) {
	s.parent.count(false)
	return s.EntityRepository.QueryEntities(ctx, opt)
}

type mockCalendar struct {
	mu   sync.Mutex
	reqs []gcalendar.CreateEventRequest
	err  error
}

func (m *mockCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return &gcalendar.Event{ID: "gcal-1", Summary: req.Summary}, nil
}

type fixture struct {
	uc       *implUseCase
	gateway  *mockCompleter
	repo     *countingRepo
	sessions *session.Store
	ledger   repository.LedgerRepository
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	dates, err := datemath.NewParser("UTC")
	require.NoError(t, err)

	f := &fixture{
		gateway:  &mockCompleter{err: unavailable()},
		repo:     &countingRepo{Repository: memory.New()},
		sessions: session.NewStore(session.Options{}),
		ledger:   memory.NewLedger(100, time.Hour),
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return base }
	}
	f.uc = New(log.NewNop(), f.gateway, fallback.New(dates), f.sessions, f.repo, f.ledger,
		settings.NewStatic(model.ProviderConfig{Provider: "qwen", Model: "qwen-plus", APIKey: "k"}), opts)
	return f
}

func parent(uid string) model.Profile { return model.Profile{UserID: uid, Role: model.RoleParent} }
func child(uid string) model.Profile  { return model.Profile{UserID: uid, Role: model.RoleChild} }
