package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 24)
		assert.True(t, IsValidID(id))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", true},
		{"507f1f77bcf86cd79943901", false},
		{"507f1f77bcf86cd7994390111", false},
		{"507f1f77bcf86cd79943901z", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidID(tt.in), tt.in)
	}
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "507f1f77bcf86cd799439011", NormalizeID("507F1F77BCF86CD799439011"))
	assert.Equal(t, "507f1f77bcf86cd799439011", NormalizeID(" 507f1f77bcf86cd799439011 "))
	id := NewID()
	assert.Equal(t, id, NormalizeID(id))
}

func TestUserPatch_Apply(t *testing.T) {
	u := &User{FirstName: "Ann", Email: "a@b.co"}
	name := "Bob"
	last := "Stone"
	UserPatch{FirstName: &name, LastName: &last}.Apply(u)

	assert.Equal(t, "Bob", u.FirstName)
	assert.Equal(t, "Stone", *u.LastName)
	assert.Equal(t, "a@b.co", u.Email)
	assert.True(t, UserPatch{}.Empty())
}

func TestEventPatch_Apply(t *testing.T) {
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &Event{Title: "Old title"}
	owner := "507f1f77bcf86cd799439011"
	EventPatch{StartDate: &start, User: &owner}.Apply(e)

	assert.Equal(t, "Old title", e.Title)
	assert.Equal(t, start, e.StartDate)
	assert.Equal(t, owner, e.OwnerID())
	assert.True(t, EventPatch{}.Empty())
	assert.Equal(t, "", (&Event{}).OwnerID())
}

func TestUser_HasEvent(t *testing.T) {
	u := &User{Events: []string{"a", "b"}}
	assert.True(t, u.HasEvent("b"))
	assert.False(t, u.HasEvent("c"))
}
