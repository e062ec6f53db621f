package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Options configures a Store.
type Options struct {
	Window      int
	MaxSessions int
	// IdleTTL is how long an untouched session is kept.
	IdleTTL time.Duration
}

// key scopes a session id to its workspace.
type key struct {
	workspaceID string
	sessionID   string
}

// Store keeps one Context per workspace session and tracks in-flight turns so they can
// be abandoned when the session ends. The same session id in two workspaces names two
// unrelated conversations.
type Store struct {
	window int
	cache  *expirable.LRU[key, *Context]

	mu       sync.Mutex
	seq      uint64
	inflight map[key]map[uint64]context.CancelFunc
}

// NewStore creates a session store.
func NewStore(opts Options) *Store {
	if opts.Window <= 0 {
		opts.Window = 6
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 10000
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}

	return &Store{
		window:   opts.Window,
		cache:    expirable.NewLRU[key, *Context](opts.MaxSessions, nil, opts.IdleTTL),
		inflight: make(map[key]map[uint64]context.CancelFunc),
	}
}

// Get returns the session's context, creating it on first use. Every Get refreshes the idle timer.
func (s *Store) Get(workspaceID, sessionID string) *Context {
	k := key{workspaceID: workspaceID, sessionID: sessionID}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cache.Get(k)
	if !ok || c.Closed() {
		c = NewContext(s.window)
	}
	s.cache.Add(k, c)
	return c
}

// Begin derives a context for one turn that End will cancel. release must be called
// when the turn is done.
func (s *Store) Begin(ctx context.Context, workspaceID, sessionID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	k := key{workspaceID: workspaceID, sessionID: sessionID}

	s.mu.Lock()
	s.seq++
	id := s.seq
	if s.inflight[k] == nil {
		s.inflight[k] = make(map[uint64]context.CancelFunc)
	}
	s.inflight[k][id] = cancel
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		if m := s.inflight[k]; m != nil {
			delete(m, id)
			if len(m) == 0 {
				delete(s.inflight, k)
			}
		}
		s.mu.Unlock()
		cancel()
	}
	return ctx, release
}

// End cancels every in-flight turn of the session and clears its context.
func (s *Store) End(workspaceID, sessionID string) {
	k := key{workspaceID: workspaceID, sessionID: sessionID}

	s.mu.Lock()
	cancels := s.inflight[k]
	delete(s.inflight, k)
	c, ok := s.cache.Peek(k)
	s.cache.Remove(k)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if ok {
		c.Clear()
	}
}

// InFlight returns the number of running turns for the session.
func (s *Store) InFlight(workspaceID, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight[key{workspaceID: workspaceID, sessionID: sessionID}])
}
