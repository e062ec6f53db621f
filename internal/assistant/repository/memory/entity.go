package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"
)

// WithinWorkspace holds the workspace mutex while fn runs and restores the
// workspace's previous state if fn fails.
func (r *implRepository) WithinWorkspace(ctx context.Context, workspaceID string, fn func(ctx context.Context, repo repository.EntityRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := r.workspaceLock(workspaceID)
	l.Lock()
	defer l.Unlock()

	snap := r.snapshot(workspaceID)
	if err := fn(ctx, &section{r: r, ws: workspaceID}); err != nil {
		r.restore(workspaceID, snap)
		return err
	}
	return nil
}

func (r *implRepository) CreateEntity(ctx context.Context, opt repository.CreateEntityOptions) (model.Entity, error) {
	var out model.Entity
	err := r.WithinWorkspace(ctx, opt.WorkspaceID, func(ctx context.Context, repo repository.EntityRepository) (err error) {
		out, err = repo.CreateEntity(ctx, opt)
		return err
	})
	return out, err
}

func (r *implRepository) UpdateEntity(ctx context.Context, opt repository.UpdateEntityOptions) (model.Entity, error) {
	var out model.Entity
	err := r.WithinWorkspace(ctx, opt.WorkspaceID, func(ctx context.Context, repo repository.EntityRepository) (err error) {
		out, err = repo.UpdateEntity(ctx, opt)
		return err
	})
	return out, err
}

func (r *implRepository) DeleteEntity(ctx context.Context, opt repository.DeleteEntityOptions) error {
	return r.WithinWorkspace(ctx, opt.WorkspaceID, func(ctx context.Context, repo repository.EntityRepository) error {
		return repo.DeleteEntity(ctx, opt)
	})
}

func (r *implRepository) DeleteEntities(ctx context.Context, opt repository.DeleteEntitiesOptions) (int, error) {
	var n int
	err := r.WithinWorkspace(ctx, opt.WorkspaceID, func(ctx context.Context, repo repository.EntityRepository) (err error) {
		n, err = repo.DeleteEntities(ctx, opt)
		return err
	})
	return n, err
}

func (r *implRepository) QueryEntities(ctx context.Context, opt repository.QueryEntitiesOptions) ([]model.Entity, error) {
	return (&section{r: r, ws: opt.WorkspaceID}).QueryEntities(ctx, opt)
}

// section is the repository view handed to WithinWorkspace callbacks. The
// workspace mutex is already held.
type section struct {
	r  *implRepository
	ws string
}

func (s *section) check(ws string) error {
	if ws != s.ws {
		return fmt.Errorf("memory: workspace %q used inside section for %q", ws, s.ws)
	}
	return nil
}

func (s *section) CreateEntity(ctx context.Context, opt repository.CreateEntityOptions) (model.Entity, error) {
	if err := s.check(opt.WorkspaceID); err != nil {
		return model.Entity{}, err
	}
	if !opt.Type.Valid() {
		return model.Entity{}, fmt.Errorf("%w: unknown entity type %q", repository.ErrFailedToInsert, opt.Type)
	}

	now := s.r.now()
	e := model.Entity{
		ID:          s.r.newID(),
		WorkspaceID: opt.WorkspaceID,
		Type:        opt.Type,
		Fields:      cloneFields(opt.Fields),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.r.data[s.ws] == nil {
		s.r.data[s.ws] = make(map[string]model.Entity)
	}
	s.r.data[s.ws][e.ID] = e
	return cloneEntity(e), nil
}

func (s *section) UpdateEntity(ctx context.Context, opt repository.UpdateEntityOptions) (model.Entity, error) {
	if err := s.check(opt.WorkspaceID); err != nil {
		return model.Entity{}, err
	}

	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	e, ok := s.r.data[s.ws][opt.ID]
	if !ok || e.Type != opt.Type {
		return model.Entity{}, repository.ErrNotFound
	}
	fields := cloneFields(e.Fields)
	for k, v := range opt.Fields {
		fields[k] = v
	}
	e.Fields = fields
	e.UpdatedAt = s.r.now()
	s.r.data[s.ws][e.ID] = e
	return cloneEntity(e), nil
}

func (s *section) DeleteEntity(ctx context.Context, opt repository.DeleteEntityOptions) error {
	if err := s.check(opt.WorkspaceID); err != nil {
		return err
	}

	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	e, ok := s.r.data[s.ws][opt.ID]
	if !ok || e.Type != opt.Type {
		return repository.ErrNotFound
	}
	delete(s.r.data[s.ws], opt.ID)
	return nil
}

func (s *section) DeleteEntities(ctx context.Context, opt repository.DeleteEntitiesOptions) (int, error) {
	if err := s.check(opt.WorkspaceID); err != nil {
		return 0, err
	}

	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	n := 0
	for id, e := range s.r.data[s.ws] {
		if e.Type == opt.Type {
			delete(s.r.data[s.ws], id)
			n++
		}
	}
	return n, nil
}

func (s *section) QueryEntities(ctx context.Context, opt repository.QueryEntitiesOptions) ([]model.Entity, error) {
	if err := s.check(opt.WorkspaceID); err != nil {
		return nil, err
	}

	s.r.mu.Lock()
	var out []model.Entity
	for _, e := range s.r.data[s.ws] {
		if matches(e, opt) {
			out = append(out, cloneEntity(e))
		}
	}
	s.r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if opt.Limit > 0 && len(out) > opt.Limit {
		out = out[:opt.Limit]
	}
	return out, nil
}

func matches(e model.Entity, opt repository.QueryEntitiesOptions) bool {
	if opt.Type != "" && e.Type != opt.Type {
		return false
	}
	title := e.Title()
	if opt.Title != "" && !strings.EqualFold(title, opt.Title) {
		return false
	}
	if opt.TitleContains != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(opt.TitleContains)) {
		return false
	}
	return true
}
