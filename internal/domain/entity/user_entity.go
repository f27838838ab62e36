package entity

import (
	"time"
)

// User owns a set of non-overlapping events.
//
// Events mirrors the user field of every Event pointing at this user. It is a
// back-reference kept in sync by the application layer, not by the store.
type User struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    *string   `json:"lastName,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Events      []string  `json:"events"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasEvent reports whether id is in the back-reference set.
func (u *User) HasEvent(id string) bool {
	for _, e := range u.Events {
		if e == id {
			return true
		}
	}
	return false
}

// UserPatch carries the fields of a partial user update. Nil means untouched.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
}

// Empty reports whether the patch touches nothing.
func (p UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil && p.PhoneNumber == nil
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		v := *p.LastName
		u.LastName = &v
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
}
