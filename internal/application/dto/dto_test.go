package dto

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
)

var fixedNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func userRaw() map[string]any {
	return map[string]any{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"phoneNumber": "+447911123456",
	}
}

func eventRaw() map[string]any {
	return map[string]any{
		"title":       "Planning",
		"description": "Quarterly planning session",
		"startDate":   "2031-01-10T09:00:00Z",
		"endDate":     "2031-01-10T10:00:00Z",
		"user":        "507f1f77bcf86cd799439011",
	}
}

func requireKind(t *testing.T, err error, kind apperror.Kind) *apperror.Error {
	t.Helper()
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, kind, ae.Kind, ae.Error())
	return ae
}

func TestValidateUser_Create(t *testing.T) {
	v := NewValidator()
	out, err := v.ValidateUser(context.Background(), userRaw(), ModeCreate, Options{})
	require.NoError(t, err)

	u := UserFromRecord(out)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", *u.LastName)
	assert.Equal(t, "+447911123456", u.PhoneNumber)
	assert.Empty(t, u.Events)
}

func TestValidateUser_CreateLastNameOptional(t *testing.T) {
	raw := userRaw()
	delete(raw, "lastName")
	out, err := NewValidator().ValidateUser(context.Background(), raw, ModeCreate, Options{})
	require.NoError(t, err)
	assert.Nil(t, UserFromRecord(out).LastName)
}

func TestValidateUser_CreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing email", func(m map[string]any) { delete(m, "email") }, "email"},
		{"bad phone", func(m map[string]any) { m["phoneNumber"] = "12345" }, "phoneNumber"},
		{"empty first name", func(m map[string]any) { m["firstName"] = "" }, "firstName"},
		{"unknown field", func(m map[string]any) { m["age"] = 30.0 }, "age"},
		{"short email", func(m map[string]any) { m["email"] = "a@" }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := userRaw()
			tt.mutate(raw)
			_, err := NewValidator().ValidateUser(context.Background(), raw, ModeCreate, Options{})
			ae := requireKind(t, err, apperror.KindValidation)
			assert.Contains(t, ae.Details, tt.field)
		})
	}
}

func TestValidateUser_UpdateNothingToUpdate(t *testing.T) {
	_, err := NewValidator().ValidateUser(context.Background(), map[string]any{}, ModeUpdate, Options{})
	ae := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, apperror.MsgNothingToUpdate, ae.Message)
}

func TestValidateUser_UpdateRejectsUnknown(t *testing.T) {
	_, err := NewValidator().ValidateUser(context.Background(), map[string]any{"nick": "x"}, ModeUpdate, Options{})
	ae := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, `"nick" is not allowed`, ae.Message)
}

func TestValidateUser_UpdatePartial(t *testing.T) {
	out, err := NewValidator().ValidateUser(context.Background(), map[string]any{"firstName": "Grace"}, ModeUpdate, Options{})
	require.NoError(t, err)
	p := UserPatchFromRecord(out)
	assert.Equal(t, "Grace", *p.FirstName)
	assert.Nil(t, p.Email)
}

func TestValidateUser_DebugDiagnostic(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateUser(context.Background(), map[string]any{}, ModeCreate, Options{Debug: true})
	ae := requireKind(t, err, apperror.KindValidation)
	assert.Contains(t, ae.Debug, `"phoneNumber" is required`)

	_, err = v.ValidateUser(context.Background(), map[string]any{}, ModeCreate, Options{})
	ae = requireKind(t, err, apperror.KindValidation)
	assert.Nil(t, ae.Debug)
}

func TestValidateEvent_Create(t *testing.T) {
	out, err := NewValidator().ValidateEvent(context.Background(), eventRaw(), ModeCreate, nil, Options{})
	require.NoError(t, err)

	e := EventFromRecord(out)
	assert.Equal(t, "Planning", e.Title)
	assert.Equal(t, time.Date(2031, 1, 10, 9, 0, 0, 0, time.UTC), e.StartDate)
	assert.Equal(t, "507f1f77bcf86cd799439011", e.OwnerID())
}

func TestValidateEvent_OwnerLowercased(t *testing.T) {
	raw := eventRaw()
	raw["user"] = "507F1F77BCF86CD799439011"
	out, err := NewValidator().ValidateEvent(context.Background(), raw, ModeCreate, nil, Options{})
	require.NoError(t, err)
	owned := EventFromRecord(out)
	assert.Equal(t, "507f1f77bcf86cd799439011", owned.OwnerID())

	out, err = NewValidator().ValidateEvent(context.Background(), map[string]any{"user": "507F1F77BCF86CD799439011"}, ModeUpdate, nil, Options{Now: clock})
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", *EventPatchFromRecord(out).User)
}

func TestValidateEvent_CreateOwnerless(t *testing.T) {
	raw := eventRaw()
	delete(raw, "user")
	out, err := NewValidator().ValidateEvent(context.Background(), raw, ModeCreate, nil, Options{})
	require.NoError(t, err)
	assert.Nil(t, EventFromRecord(out).User)
}

func TestValidateEvent_CreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"end before start", func(m map[string]any) { m["endDate"] = "2031-01-10T08:00:00Z" }, "endDate"},
		{"short title", func(m map[string]any) { m["title"] = "abc" }, "title"},
		{"short description", func(m map[string]any) { m["description"] = "too short" }, "description"},
		{"bad owner id", func(m map[string]any) { m["user"] = "not-an-id" }, "user"},
		{"missing start", func(m map[string]any) { delete(m, "startDate") }, "startDate"},
		{"millis not iso", func(m map[string]any) { m["startDate"] = 1924938000000.0 }, "startDate"},
		{"unknown field", func(m map[string]any) { m["color"] = "red" }, "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := eventRaw()
			tt.mutate(raw)
			_, err := NewValidator().ValidateEvent(context.Background(), raw, ModeCreate, nil, Options{})
			ae := requireKind(t, err, apperror.KindValidation)
			assert.Contains(t, ae.Details, tt.field)
		})
	}
}

func TestValidateEvent_CreateStrip(t *testing.T) {
	raw := eventRaw()
	raw["color"] = "red"
	out, err := NewValidator().ValidateEvent(context.Background(), raw, ModeCreate, nil, Options{Strip: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "color")
}

func TestValidateEvent_Update(t *testing.T) {
	existing := &entity.Event{
		StartDate: time.Date(2031, 1, 10, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2031, 1, 10, 10, 0, 0, 0, time.UTC),
	}
	v := NewValidator()
	opts := Options{Now: clock}

	t.Run("empty patch", func(t *testing.T) {
		_, err := v.ValidateEvent(context.Background(), map[string]any{}, ModeUpdate, existing, opts)
		ae := requireKind(t, err, apperror.KindValidation)
		assert.Equal(t, apperror.MsgNothingToUpdate, ae.Message)
	})

	t.Run("only unknown keys", func(t *testing.T) {
		_, err := v.ValidateEvent(context.Background(), map[string]any{"color": "red"}, ModeUpdate, existing, opts)
		ae := requireKind(t, err, apperror.KindValidation)
		assert.Equal(t, apperror.MsgNothingToUpdate, ae.Message)
	})

	t.Run("unknown keys tolerated", func(t *testing.T) {
		out, err := v.ValidateEvent(context.Background(), map[string]any{"title": "Renamed", "color": "red"}, ModeUpdate, existing, opts)
		require.NoError(t, err)
		p := EventPatchFromRecord(out)
		assert.Equal(t, "Renamed", *p.Title)
		assert.Nil(t, p.StartDate)
	})

	t.Run("start must precede stored end", func(t *testing.T) {
		_, err := v.ValidateEvent(context.Background(), map[string]any{"startDate": "2031-01-10T10:00:00Z"}, ModeUpdate, existing, opts)
		requireKind(t, err, apperror.KindValidation)
	})

	t.Run("start before supplied end", func(t *testing.T) {
		_, err := v.ValidateEvent(context.Background(), map[string]any{
			"startDate": "2031-01-10T11:00:00Z",
			"endDate":   "2031-01-10T12:00:00Z",
		}, ModeUpdate, existing, opts)
		require.NoError(t, err)
	})

	t.Run("end in the past", func(t *testing.T) {
		_, err := v.ValidateEvent(context.Background(), map[string]any{"endDate": "2029-12-31T00:00:00Z"}, ModeUpdate, existing, opts)
		ae := requireKind(t, err, apperror.KindValidation)
		assert.Contains(t, ae.Details, "endDate")
	})

	t.Run("end accepts millis", func(t *testing.T) {
		ms := float64(time.Date(2031, 2, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
		out, err := v.ValidateEvent(context.Background(), map[string]any{"endDate": ms}, ModeUpdate, existing, opts)
		require.NoError(t, err)
		assert.Equal(t, 2031, EventPatchFromRecord(out).EndDate.Year())
	})
}
