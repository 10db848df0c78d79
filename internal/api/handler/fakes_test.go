package handler

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// recEmitter records emitted event names.
type recEmitter struct {
	mu    sync.Mutex
	names []string
}

func (e *recEmitter) Emit(_ context.Context, ev events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append(e.names, ev.Name)
}

func (e *recEmitter) has(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.names {
		if n == name {
			return true
		}
	}
	return false
}

// recordInvalidator counts field-cache invalidations.
type recordInvalidator struct {
	count int
}

func (r *recordInvalidator) Invalidate(primitive.ObjectID) { r.count++ }

type fakeTables struct {
	items []*domain.Table
}

func (s *fakeTables) Create(_ context.Context, t *domain.Table) error {
	for _, e := range s.items {
		if e.Slug == t.Slug {
			return mongorepo.ErrDuplicate
		}
	}
	t.ID = primitive.NewObjectID()
	s.items = append(s.items, t)
	return nil
}

func (s *fakeTables) GetBySlug(_ context.Context, slug string) (*domain.Table, error) {
	for _, e := range s.items {
		if e.Slug == slug && !e.Trashed {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongorepo.ErrNotFound
}

func (s *fakeTables) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Table, error) {
	for _, e := range s.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongorepo.ErrNotFound
}

func (s *fakeTables) List(_ context.Context, _ mongorepo.Page) ([]domain.Table, int64, error) {
	var out []domain.Table
	for _, e := range s.items {
		if !e.Trashed {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeTables) Update(_ context.Context, t *domain.Table) error {
	for i, e := range s.items {
		if e.ID == t.ID {
			cp := *t
			s.items[i] = &cp
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

func (s *fakeTables) Trash(_ context.Context, id primitive.ObjectID) error {
	for _, e := range s.items {
		if e.ID == id {
			e.Trashed = true
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

type fakeFields struct {
	items []*domain.Field
}

func (s *fakeFields) Create(_ context.Context, f *domain.Field) error {
	for _, e := range s.items {
		if e.Table == f.Table && e.Slug == f.Slug {
			return mongorepo.ErrDuplicate
		}
	}
	f.ID = primitive.NewObjectID()
	s.items = append(s.items, f)
	return nil
}

func (s *fakeFields) ListByTable(_ context.Context, table primitive.ObjectID) ([]domain.Field, error) {
	var out []domain.Field
	for _, e := range s.items {
		if e.Table == table && !e.Trashed {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeFields) GetBySlug(_ context.Context, table primitive.ObjectID, slug string) (*domain.Field, error) {
	for _, e := range s.items {
		if e.Table == table && e.Slug == slug && !e.Trashed {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongorepo.ErrNotFound
}

func (s *fakeFields) Update(_ context.Context, f *domain.Field) error {
	for i, e := range s.items {
		if e.ID == f.ID {
			cp := *f
			s.items[i] = &cp
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

func (s *fakeFields) Trash(_ context.Context, id primitive.ObjectID) error {
	for _, e := range s.items {
		if e.ID == id {
			e.Trashed = true
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

type fakeRows struct {
	items []*domain.Row
}

func (s *fakeRows) Create(_ context.Context, r *domain.Row) error {
	r.ID = primitive.NewObjectID()
	s.items = append(s.items, r)
	return nil
}

func (s *fakeRows) ListByTable(_ context.Context, table primitive.ObjectID, _ mongorepo.Page) ([]domain.Row, int64, error) {
	var out []domain.Row
	for _, e := range s.items {
		if e.Table == table && !e.Trashed {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeRows) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Row, error) {
	for _, e := range s.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongorepo.ErrNotFound
}

func (s *fakeRows) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[string]domain.Row, error) {
	out := map[string]domain.Row{}
	for _, id := range ids {
		for _, e := range s.items {
			if e.ID == id {
				out[id.Hex()] = *e
			}
		}
	}
	return out, nil
}

func (s *fakeRows) Update(_ context.Context, r *domain.Row) error {
	for i, e := range s.items {
		if e.ID == r.ID {
			cp := *r
			s.items[i] = &cp
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

func (s *fakeRows) Trash(_ context.Context, id primitive.ObjectID) error {
	for _, e := range s.items {
		if e.ID == id {
			e.Trashed = true
			return nil
		}
	}
	return mongorepo.ErrNotFound
}

func (s *fakeRows) ToggleReaction(_ context.Context, id, user primitive.ObjectID) (bool, error) {
	for _, e := range s.items {
		if e.ID != id {
			continue
		}
		for i, u := range e.Reactions {
			if u == user {
				e.Reactions = append(e.Reactions[:i], e.Reactions[i+1:]...)
				return false, nil
			}
		}
		e.Reactions = append(e.Reactions, user)
		return true, nil
	}
	return false, mongorepo.ErrNotFound
}

type fakeGroups struct {
	items []*domain.UserGroup
}

func (s *fakeGroups) Create(_ context.Context, g *domain.UserGroup) error {
	for _, e := range s.items {
		if e.Name == g.Name {
			return mongorepo.ErrDuplicate
		}
	}
	g.ID = primitive.NewObjectID()
	s.items = append(s.items, g)
	return nil
}

func (s *fakeGroups) GetByID(_ context.Context, id primitive.ObjectID) (*domain.UserGroup, error) {
	for _, e := range s.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, mongorepo.ErrNotFound
}

func (s *fakeGroups) List(_ context.Context, _ mongorepo.Page) ([]domain.UserGroup, int64, error) {
	groups, err := s.ListAll(context.Background())
	return groups, int64(len(groups)), err
}

func (s *fakeGroups) ListAll(_ context.Context) ([]domain.UserGroup, error) {
	out := make([]domain.UserGroup, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeGroups) Update(_ context.Context, g *domain.UserGroup) error {
	for i, e := range s.items {
		if e.ID == g.ID {
			cp := *g
			s.items[i] = &cp
			return nil
		}
	}
	return mongorepo.ErrNotFound
}
