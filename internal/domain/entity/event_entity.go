package entity

import "time"

// Event is a calendar entry, optionally owned by a User.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	User        *string   `json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnerID returns the owning user id or "" for ownerless events.
func (e *Event) OwnerID() string {
	if e.User == nil {
		return ""
	}
	return *e.User
}

// EventPatch carries the fields of a partial event update. Nil means untouched.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	User        *string
}

func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil && p.User == nil
}

// Apply copies the set fields of p onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.User != nil {
		v := *p.User
		e.User = &v
	}
}
