package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-scheduler/pkg/validation"
)

// Mode selects the create or update variant of an entity schema.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// Length limits shared by schemas and the database constraints.
const (
	FirstNameMin, FirstNameMax     = 1, 64
	LastNameMin, LastNameMax       = 1, 64
	EmailMin, EmailMax             = 3, 64
	PhoneNumberMin, PhoneNumberMax = 3, 32
	TitleMin, TitleMax             = 4, 64
	DescriptionMin, DescriptionMax = 16, 128
)

func length(min, max int) string {
	return fmt.Sprintf("min=%d,max=%d", min, max)
}

// Options are forwarded to the validation engine.
type Options struct {
	Strip bool
	// Debug attaches the full validator diagnostic to the returned error.
	Debug bool
	Now   func() time.Time
}

// Validator validates DTOs for both entities.
type Validator struct {
	engine *validation.Validator
}

func NewValidator() *Validator {
	return &Validator{engine: validation.New()}
}

func (v *Validator) run(raw map[string]any, s validation.Schema, existing map[string]any, opts Options) (map[string]any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	out, err := v.engine.Validate(raw, s, validation.Options{Strip: opts.Strip, Existing: existing, Now: opts.Now})
	if err == nil {
		return out, nil
	}
	var ve *validation.Error
	if !errors.As(err, &ve) {
		return nil, err
	}
	var debug any
	if opts.Debug {
		debug = ve.Diagnostic()
	}
	if len(ve.Errors) == 1 && ve.Errors[0].Tag == "min_keys" {
		e := apperror.NothingToUpdate()
		e.Debug = debug
		return nil, e
	}
	return nil, apperror.Validation(ve.Error(), ve.Details(), debug)
}

func str(m map[string]any, key string) *string {
	v, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &v
}

func date(m map[string]any, key string) *time.Time {
	v, ok := m[key].(time.Time)
	if !ok {
		return nil
	}
	return &v
}
