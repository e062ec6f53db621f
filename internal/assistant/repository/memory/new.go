package memory

import (
	"sync"
	"time"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"

	"github.com/google/uuid"
)

type implRepository struct {
	mu    sync.Mutex
	data  map[string]map[string]model.Entity // workspace -> id -> entity
	locks map[string]*sync.Mutex
	newID func() string
	now   func() time.Time
}

// New creates an in-process Repository. Writes to one workspace are serialized by a
// per-workspace mutex; a failed section is rolled back from a snapshot.
func New() repository.Repository {
	return &implRepository{
		data:  make(map[string]map[string]model.Entity),
		locks: make(map[string]*sync.Mutex),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (r *implRepository) workspaceLock(ws string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[ws]
	if !ok {
		l = &sync.Mutex{}
		r.locks[ws] = l
	}
	return l
}

func (r *implRepository) snapshot(ws string) map[string]model.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[string]model.Entity, len(r.data[ws]))
	for id, e := range r.data[ws] {
		snap[id] = e
	}
	return snap
}

func (r *implRepository) restore(ws string, snap map[string]model.Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[ws] = snap
}

func cloneFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneEntity(e model.Entity) model.Entity {
	e.Fields = cloneFields(e.Fields)
	return e
}
