package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
)

// ErrNotFound is returned when a write targets a record that does not exist.
var ErrNotFound = errors.New("not found")

// UniqueViolationError is raised by Create and PatchFields when a unique
// field collides with an existing record.
type UniqueViolationError struct {
	Field      Field
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("duplicate value for unique field %q", string(e.Field))
}

// FindOptions controls ordering and size of Find results.
type FindOptions struct {
	Sort  Field
	Desc  bool
	Limit int
}

// Gateway is the set of store operations the services need for one record kind.
// FindByID returns (nil, nil) when the id does not resolve.
type Gateway[T any, P any] interface {
	Kind() entity.Kind
	FindByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter, opts *FindOptions) ([]T, error)
	Exists(ctx context.Context, filter Filter) (bool, error)
	Create(ctx context.Context, rec T) (*T, error)
	PatchFields(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// UserGateway adds the back-reference primitives. AttachEvent has set
// semantics; DetachEvent is a no-op when the id is absent.
type UserGateway interface {
	Gateway[entity.User, entity.UserPatch]
	AttachEvent(ctx context.Context, userID, eventID string) error
	DetachEvent(ctx context.Context, userID, eventID string) error
}

type EventGateway interface {
	Gateway[entity.Event, entity.EventPatch]
}

// Store hands out the gateways of one backing store.
type Store interface {
	Users() UserGateway
	Events() EventGateway
	Close()
}
