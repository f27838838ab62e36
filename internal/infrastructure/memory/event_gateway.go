package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

type eventGateway struct{ s *Store }

func (g *eventGateway) Kind() entity.Kind { return entity.KindEvent }

func (g *eventGateway) FindByID(_ context.Context, id string) (*entity.Event, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	e, ok := g.s.events[id]
	if !ok {
		return nil, nil
	}
	out := copyEvent(e)
	return &out, nil
}

func (g *eventGateway) Find(_ context.Context, filter repo.Filter, opts *repo.FindOptions) ([]entity.Event, error) {
	g.s.mu.RLock()
	out := make([]entity.Event, 0, len(g.s.events))
	for _, e := range g.s.events {
		if repo.Match(filter, eventGetter(e)) {
			out = append(out, copyEvent(e))
		}
	}
	g.s.mu.RUnlock()
	sortByID(out, func(e *entity.Event) string { return e.ID })
	return applyOptions(out, eventGetter, opts), nil
}

func (g *eventGateway) Exists(_ context.Context, filter repo.Filter) (bool, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	for _, e := range g.s.events {
		if repo.Match(filter, eventGetter(e)) {
			return true, nil
		}
	}
	return false, nil
}

func (g *eventGateway) Create(_ context.Context, rec entity.Event) (*entity.Event, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	e := copyEvent(&rec)
	if e.ID == "" {
		e.ID = entity.NewID()
	}
	now := g.s.now()
	e.CreatedAt, e.UpdatedAt = now, now
	g.s.events[e.ID] = &e
	out := copyEvent(&e)
	return &out, nil
}

func (g *eventGateway) PatchFields(_ context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	cur, ok := g.s.events[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	next := copyEvent(cur)
	patch.Apply(&next)
	next.UpdatedAt = g.s.now()
	g.s.events[id] = &next
	out := copyEvent(&next)
	return &out, nil
}

func (g *eventGateway) Delete(_ context.Context, id string) (int64, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if _, ok := g.s.events[id]; !ok {
		return 0, nil
	}
	delete(g.s.events, id)
	return 1, nil
}
