package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

// Store keeps users and events in process memory. Records are copied on
// the way in and out so callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*entity.User
	events map[string]*entity.Event
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:  map[string]*entity.User{},
		events: map[string]*entity.Event{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() repo.UserGateway   { return &userGateway{s} }
func (s *Store) Events() repo.EventGateway { return &eventGateway{s} }
func (s *Store) Close()                    {}

func copyUser(u *entity.User) entity.User {
	out := *u
	if u.LastName != nil {
		v := *u.LastName
		out.LastName = &v
	}
	out.Events = append([]string{}, u.Events...)
	return out
}

func copyEvent(e *entity.Event) entity.Event {
	out := *e
	if e.User != nil {
		v := *e.User
		out.User = &v
	}
	return out
}

func userGetter(u *entity.User) repo.Getter {
	return func(f repo.Field) (any, bool) {
		switch f {
		case repo.FieldID:
			return u.ID, true
		case repo.FieldEmail:
			return u.Email, true
		case repo.FieldPhoneNumber:
			return u.PhoneNumber, true
		case repo.FieldCreatedAt:
			return u.CreatedAt, true
		}
		return nil, false
	}
}

func eventGetter(e *entity.Event) repo.Getter {
	return func(f repo.Field) (any, bool) {
		switch f {
		case repo.FieldID:
			return e.ID, true
		case repo.FieldUser:
			if e.User == nil {
				return nil, false
			}
			return *e.User, true
		case repo.FieldStartDate:
			return e.StartDate, true
		case repo.FieldEndDate:
			return e.EndDate, true
		case repo.FieldCreatedAt:
			return e.CreatedAt, true
		}
		return nil, false
	}
}

// less orders two values of the same field. Ties fall back to id.
func less(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Before(y)
	case string:
		y, _ := b.(string)
		return x < y
	}
	return false
}

func applyOptions[T any](items []T, get func(*T) repo.Getter, opts *repo.FindOptions) []T {
	if opts == nil {
		return items
	}
	if opts.Sort != "" {
		sort.SliceStable(items, func(i, j int) bool {
			a, _ := get(&items[i])(opts.Sort)
			b, _ := get(&items[j])(opts.Sort)
			if opts.Desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

func sortByID[T any](items []T, id func(*T) string) {
	sort.Slice(items, func(i, j int) bool { return id(&items[i]) < id(&items[j]) })
}
