package dto

import (
	"context"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/pkg/validation"
)

var userFields = []validation.Field{
	{Name: "firstName", Rules: length(FirstNameMin, FirstNameMax)},
	{Name: "lastName", Rules: length(LastNameMin, LastNameMax), Optional: true},
	{Name: "email", Rules: length(EmailMin, EmailMax) + ",email"},
	{Name: "phoneNumber", Rules: length(PhoneNumberMin, PhoneNumberMax) + ",phone"},
}

// UserCreateSchema requires every field except lastName and rejects unknown keys.
var UserCreateSchema = validation.Schema{
	Name:     "user.create",
	Fields:   userFields,
	Presence: validation.Required,
}

// UserUpdateSchema makes every field optional but demands at least one.
var UserUpdateSchema = validation.Schema{
	Name:     "user.update",
	Fields:   userFields,
	Presence: validation.Optional,
	Rules:    []validation.Rule{validation.MinKeys(1, apperror.MsgNothingToUpdate)},
}

// ValidateUser validates a raw user record in the given mode.
func (v *Validator) ValidateUser(_ context.Context, raw map[string]any, mode Mode, opts Options) (map[string]any, error) {
	s := UserCreateSchema
	if mode == ModeUpdate {
		s = UserUpdateSchema
	}
	return v.run(raw, s, nil, opts)
}

// UserFromRecord builds a new user from a validated create record.
func UserFromRecord(m map[string]any) entity.User {
	u := entity.User{
		LastName: str(m, "lastName"),
		Events:   []string{},
	}
	if s := str(m, "firstName"); s != nil {
		u.FirstName = *s
	}
	if s := str(m, "email"); s != nil {
		u.Email = *s
	}
	if s := str(m, "phoneNumber"); s != nil {
		u.PhoneNumber = *s
	}
	return u
}

// UserPatchFromRecord builds a patch from a validated update record.
func UserPatchFromRecord(m map[string]any) entity.UserPatch {
	return entity.UserPatch{
		FirstName:   str(m, "firstName"),
		LastName:    str(m, "lastName"),
		Email:       str(m, "email"),
		PhoneNumber: str(m, "phoneNumber"),
	}
}
