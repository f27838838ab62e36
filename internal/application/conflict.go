package application

import (
	"context"
	"fmt"
	"time"

	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

// OverlapMode selects how two time windows are compared.
type OverlapMode string

const (
	// OverlapEndpoint flags a conflict when an existing event's start or end
	// lies inside the requested window, bounds included. A request nested
	// strictly inside a longer existing event is not detected.
	OverlapEndpoint OverlapMode = "endpoint"
	// OverlapInterval is the closed interval test:
	// existing.start <= new.end AND existing.end >= new.start.
	OverlapInterval OverlapMode = "interval"
)

// ParseOverlapMode falls back to OverlapEndpoint for unknown values.
func ParseOverlapMode(s string) OverlapMode {
	if OverlapMode(s) == OverlapInterval {
		return OverlapInterval
	}
	return OverlapEndpoint
}

// ConflictDetector decides whether a window is free on a user's calendar.
// It runs on create only.
type ConflictDetector struct {
	Events repo.EventGateway
	Mode   OverlapMode
}

func NewConflictDetector(events repo.EventGateway, mode OverlapMode) *ConflictDetector {
	if mode == "" {
		mode = OverlapEndpoint
	}
	return &ConflictDetector{Events: events, Mode: mode}
}

// Filter returns the store query matching events of userID that collide with [start, end].
func (d *ConflictDetector) Filter(userID string, start, end time.Time) repo.Filter {
	owned := repo.Eq(repo.FieldUser, userID)
	if d.Mode == OverlapInterval {
		return repo.And(owned, repo.Lte(repo.FieldStartDate, end), repo.Gte(repo.FieldEndDate, start))
	}
	return repo.And(owned, repo.Or(
		repo.Between(repo.FieldStartDate, start, end),
		repo.Between(repo.FieldEndDate, start, end),
	))
}

// HasConflict reports whether [start, end] collides with an event owned by
// userID. Ownerless requests never conflict.
func (d *ConflictDetector) HasConflict(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ok, err := d.Events.Exists(ctx, d.Filter(userID, start, end))
	if err != nil {
		return false, fmt.Errorf("failed to check schedule of user %s: %w", userID, err)
	}
	return ok, nil
}
