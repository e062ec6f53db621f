package memory

import (
	"context"
	"sync"
	"time"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type turnKey struct {
	scope  repository.TurnScope
	turnID int64
}

type implLedger struct {
	mu    sync.Mutex
	turns *expirable.LRU[turnKey, model.TurnRecord]
	// last holds the highest id claimed per scope.
	last *expirable.LRU[repository.TurnScope, int64]
}

// NewLedger creates an in-process turn ledger holding up to size turns for ttl.
func NewLedger(size int, ttl time.Duration) repository.LedgerRepository {
	return &implLedger{
		turns: expirable.NewLRU[turnKey, model.TurnRecord](size, nil, ttl),
		last:  expirable.NewLRU[repository.TurnScope, int64](size, nil, ttl),
	}
}

func (l *implLedger) NextTurnID(ctx context.Context, scope repository.TurnScope, requested int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, _ := l.last.Get(scope)
	id := requested
	if id <= 0 {
		id = last + 1
		for l.turns.Contains(turnKey{scope: scope, turnID: id}) {
			id++
		}
	}
	if id > last {
		last = id
	}
	l.last.Add(scope, last)
	return id, nil
}

func (l *implLedger) GetTurn(ctx context.Context, scope repository.TurnScope, turnID int64) (model.TurnRecord, bool, error) {
	rec, ok := l.turns.Get(turnKey{scope: scope, turnID: turnID})
	return rec, ok, nil
}

func (l *implLedger) SaveTurn(ctx context.Context, scope repository.TurnScope, rec model.TurnRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := turnKey{scope: scope, turnID: rec.TurnID}
	if l.turns.Contains(key) {
		return nil
	}
	l.turns.Add(key, rec)
	return nil
}
