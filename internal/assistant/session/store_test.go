package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"family-hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStore_GetReturnsSameContext(t *testing.T) {
	s := NewStore(Options{Window: 4})

	a := s.Get("ws1", "s1")
	a.Append(model.ConversationTurn{ID: 1})
	b := s.Get("ws1", "s1")

	assert.Same(t, a, b)
	assert.Equal(t, 1, b.Len())
	assert.NotSame(t, a, s.Get("ws1", "s2"))
}

func TestStore_ScopedByWorkspace(t *testing.T) {
	s := NewStore(Options{Window: 4})

	a := s.Get("wsA", "s1")
	a.Append(model.ConversationTurn{ID: 1, Text: "I spent $40 on groceries"})
	b := s.Get("wsB", "s1")

	assert.NotSame(t, a, b)
	assert.Equal(t, 0, b.Len())

	ctx, release := s.Begin(context.Background(), "wsA", "s1")
	defer release()
	s.End("wsB", "s1")
	assert.NoError(t, ctx.Err())
	assert.False(t, a.Closed())
	assert.Equal(t, 1, s.InFlight("wsA", "s1"))
}

func TestStore_EndCancelsInFlightAndClears(t *testing.T) {
	s := NewStore(Options{})
	// The LRU's expiry goroutine lives as long as the store.
	ignoreStore := goleak.IgnoreCurrent()

	c := s.Get("ws1", "s1")
	c.Append(model.ConversationTurn{ID: 1})

	var wg sync.WaitGroup
	started := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, release := s.Begin(context.Background(), "ws1", "s1")
			defer release()
			started <- struct{}{}
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
				t.Error("in-flight turn was not cancelled")
			}
		}()
	}
	for i := 0; i < 3; i++ {
		<-started
	}
	require.Equal(t, 3, s.InFlight("ws1", "s1"))

	s.End("ws1", "s1")
	wg.Wait()

	assert.Equal(t, 0, s.InFlight("ws1", "s1"))
	assert.True(t, c.Closed())
	assert.Equal(t, 0, c.Len())

	fresh := s.Get("ws1", "s1")
	assert.NotSame(t, c, fresh)
	assert.False(t, fresh.Closed())

	goleak.VerifyNone(t, ignoreStore)
}

func TestStore_EndLeavesOtherSessionsAlone(t *testing.T) {
	s := NewStore(Options{})
	ctx, release := s.Begin(context.Background(), "ws1", "other")
	defer release()

	s.End("ws1", "s1")
	assert.NoError(t, ctx.Err())
}

func TestStore_ReleaseWithoutEnd(t *testing.T) {
	s := NewStore(Options{})
	ctx, release := s.Begin(context.Background(), "ws1", "s1")
	release()

	assert.Error(t, ctx.Err())
	assert.Equal(t, 0, s.InFlight("ws1", "s1"))
}
