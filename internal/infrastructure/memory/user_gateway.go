package memory

import (
	"context"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

type userGateway struct{ s *Store }

func (g *userGateway) Kind() entity.Kind { return entity.KindUser }

func (g *userGateway) FindByID(_ context.Context, id string) (*entity.User, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	u, ok := g.s.users[id]
	if !ok {
		return nil, nil
	}
	out := copyUser(u)
	return &out, nil
}

func (g *userGateway) Find(_ context.Context, filter repo.Filter, opts *repo.FindOptions) ([]entity.User, error) {
	g.s.mu.RLock()
	out := make([]entity.User, 0, len(g.s.users))
	for _, u := range g.s.users {
		if repo.Match(filter, userGetter(u)) {
			out = append(out, copyUser(u))
		}
	}
	g.s.mu.RUnlock()
	sortByID(out, func(u *entity.User) string { return u.ID })
	return applyOptions(out, userGetter, opts), nil
}

func (g *userGateway) Exists(_ context.Context, filter repo.Filter) (bool, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	for _, u := range g.s.users {
		if repo.Match(filter, userGetter(u)) {
			return true, nil
		}
	}
	return false, nil
}

// checkUnique must be called with the write lock held.
func (g *userGateway) checkUnique(u *entity.User) error {
	for id, other := range g.s.users {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email {
			return &repo.UniqueViolationError{Field: repo.FieldEmail, Constraint: "users_email_key"}
		}
		if other.PhoneNumber == u.PhoneNumber {
			return &repo.UniqueViolationError{Field: repo.FieldPhoneNumber, Constraint: "users_phone_number_key"}
		}
	}
	return nil
}

// Create always starts with an empty back-reference set.
func (g *userGateway) Create(_ context.Context, rec entity.User) (*entity.User, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	u := copyUser(&rec)
	u.Events = []string{}
	if u.ID == "" {
		u.ID = entity.NewID()
	}
	if err := g.checkUnique(&u); err != nil {
		return nil, err
	}
	now := g.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	g.s.users[u.ID] = &u
	out := copyUser(&u)
	return &out, nil
}

func (g *userGateway) PatchFields(_ context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	cur, ok := g.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	next := copyUser(cur)
	patch.Apply(&next)
	if err := g.checkUnique(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = g.s.now()
	g.s.users[id] = &next
	out := copyUser(&next)
	return &out, nil
}

func (g *userGateway) Delete(_ context.Context, id string) (int64, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if _, ok := g.s.users[id]; !ok {
		return 0, nil
	}
	delete(g.s.users, id)
	return 1, nil
}

// AttachEvent is a no-op when the user does not exist.
func (g *userGateway) AttachEvent(_ context.Context, userID, eventID string) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	u, ok := g.s.users[userID]
	if !ok || u.HasEvent(eventID) {
		return nil
	}
	u.Events = append(u.Events, eventID)
	u.UpdatedAt = g.s.now()
	return nil
}

func (g *userGateway) DetachEvent(_ context.Context, userID, eventID string) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	u, ok := g.s.users[userID]
	if !ok {
		return nil
	}
	kept := u.Events[:0]
	for _, id := range u.Events {
		if id != eventID {
			kept = append(kept, id)
		}
	}
	u.Events = kept
	u.UpdatedAt = g.s.now()
	return nil
}
