package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"
	"family-hub/pkg/log"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "assistant:turn"
	seqPrefix = "assistant:turnseq"
)

// nextTurnID claims a turn id for KEYS[1]. ARGV: requested id, ttl in ms, record key prefix.
var nextTurnID = goredis.NewScript(`
local last = tonumber(redis.call('GET', KEYS[1]) or '0')
local id = tonumber(ARGV[1])
if id <= 0 then
  id = last + 1
  while redis.call('EXISTS', ARGV[3] .. tostring(id)) == 1 do
    id = id + 1
  end
end
if id > last then
  last = id
end
redis.call('SET', KEYS[1], tostring(last))
if tonumber(ARGV[2]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return id
`)

type implLedger struct {
	client goredis.Cmdable
	l      log.Logger
	ttl    time.Duration
}

// NewLedger creates a turn ledger shared by every API replica. Records expire after ttl.
func NewLedger(client goredis.Cmdable, l log.Logger, ttl time.Duration) repository.LedgerRepository {
	if client == nil {
		panic("assistant/repository/redis: client is required")
	}
	return &implLedger{client: client, l: l, ttl: ttl}
}

// scopeKey escapes both ids so a ':' inside one cannot collide with another scope.
func scopeKey(scope repository.TurnScope) string {
	return url.QueryEscape(scope.WorkspaceID) + ":" + url.QueryEscape(scope.SessionID)
}

func turnKey(scope repository.TurnScope, turnID int64) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, scopeKey(scope), turnID)
}

// NextTurnID runs as one script so replicas sharing the ledger never hand out the same id.
func (r *implLedger) NextTurnID(ctx context.Context, scope repository.TurnScope, requested int64) (int64, error) {
	keys := []string{seqPrefix + ":" + scopeKey(scope)}
	prefix := keyPrefix + ":" + scopeKey(scope) + ":"

	id, err := nextTurnID.Run(ctx, r.client, keys, requested, r.ttl.Milliseconds(), prefix).Int64()
	if err != nil {
		r.l.Errorf(ctx, "assistant/repository/redis.NextTurnID: %v", err)
		return 0, fmt.Errorf("%w: %v", repository.ErrLedger, err)
	}
	return id, nil
}

func (r *implLedger) GetTurn(ctx context.Context, scope repository.TurnScope, turnID int64) (model.TurnRecord, bool, error) {
	raw, err := r.client.Get(ctx, turnKey(scope, turnID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.TurnRecord{}, false, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "assistant/repository/redis.GetTurn: %v", err)
		return model.TurnRecord{}, false, fmt.Errorf("%w: %v", repository.ErrLedger, err)
	}

	var rec model.TurnRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.l.Errorf(ctx, "assistant/repository/redis.GetTurn decode: %v", err)
		return model.TurnRecord{}, false, fmt.Errorf("%w: %v", repository.ErrLedger, err)
	}
	return rec, true, nil
}

// SaveTurn uses SETNX so a concurrent duplicate cannot overwrite the first answer.
func (r *implLedger) SaveTurn(ctx context.Context, scope repository.TurnScope, rec model.TurnRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrLedger, err)
	}
	if err := r.client.SetNX(ctx, turnKey(scope, rec.TurnID), raw, r.ttl).Err(); err != nil {
		r.l.Errorf(ctx, "assistant/repository/redis.SaveTurn: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrLedger, err)
	}
	return nil
}
