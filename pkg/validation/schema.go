package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Type is the expected value type of a schema field.
type Type int

const (
	TypeString Type = iota
	TypeDate
)

// Presence decides whether declared fields must be supplied.
type Presence int

const (
	Required Presence = iota
	Optional
)

// Field declares one key of a record schema.
type Field struct {
	Name string
	Type Type
	// Rules are validator tags applied to string values, e.g. "min=4,max=64".
	Rules string
	// Optional exempts the field from Required presence.
	Optional bool
	// ISO restricts date fields to ISO-8601 strings. Otherwise millisecond
	// timestamps are accepted too.
	ISO bool
}

// Context is what object rules see besides the values under validation.
type Context struct {
	Now time.Time
	// Existing holds the stored values a partial update is applied to.
	Existing map[string]any
	// Present lists the recognized keys supplied by the caller.
	Present []string
}

// Rule is an object-level check run after all fields passed.
type Rule func(values map[string]any, ctx Context) *FieldError

// Schema is a closed record schema unless AllowUnknown is set.
type Schema struct {
	Name         string
	Fields       []Field
	Presence     Presence
	AllowUnknown bool
	Rules        []Rule
}

// Options tune a single validation pass.
type Options struct {
	// Strip removes unknown keys instead of rejecting them.
	Strip    bool
	Existing map[string]any
	Now      func() time.Time
}

// FieldError is a single diagnostic.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (fe FieldError) String() string {
	if fe.Field == "" {
		return fe.Message
	}
	return fmt.Sprintf("%q %s", fe.Field, fe.Message)
}

// Error is returned when a record does not satisfy its schema.
type Error struct {
	Schema string
	Errors []FieldError
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0].String()
}

// Details maps each failing field to its first message.
func (e *Error) Details() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		key := fe.Field
		if key == "" {
			key = "payload"
		}
		if _, ok := out[key]; !ok {
			out[key] = fe.Message
		}
	}
	return out
}

// Diagnostic renders every failure, one per line.
func (e *Error) Diagnostic() string {
	lines := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		lines = append(lines, fe.String())
	}
	return strings.Join(lines, "\n")
}

// MinKeys requires at least n recognized keys to be supplied.
func MinKeys(n int, msg string) Rule {
	return func(_ map[string]any, ctx Context) *FieldError {
		if len(ctx.Present) < n {
			return &FieldError{Tag: "min_keys", Message: msg}
		}
		return nil
	}
}

// NotBefore requires field >= ref when both are supplied.
func NotBefore(field, ref string) Rule {
	return func(values map[string]any, _ Context) *FieldError {
		a, okA := values[field].(time.Time)
		b, okB := values[ref].(time.Time)
		if !okA || !okB || !a.Before(b) {
			return nil
		}
		return &FieldError{Field: field, Tag: "gtefield", Message: fmt.Sprintf("must be greater than or equal to %q", ref)}
	}
}

// Before requires field < ref, taking ref from the stored record when the
// caller did not supply it.
func Before(field, ref string) Rule {
	return func(values map[string]any, ctx Context) *FieldError {
		a, ok := values[field].(time.Time)
		if !ok {
			return nil
		}
		b, ok := values[ref].(time.Time)
		if !ok {
			b, ok = ctx.Existing[ref].(time.Time)
		}
		if !ok {
			return &FieldError{Field: field, Tag: "ltfield", Message: fmt.Sprintf("references %q which is not a date", ref)}
		}
		if a.Before(b) {
			return nil
		}
		return &FieldError{Field: field, Tag: "ltfield", Message: fmt.Sprintf("must be less than %q", ref)}
	}
}

// AfterNow requires field > now when supplied.
func AfterNow(field string) Rule {
	return func(values map[string]any, ctx Context) *FieldError {
		a, ok := values[field].(time.Time)
		if !ok || a.After(ctx.Now) {
			return nil
		}
		return &FieldError{Field: field, Tag: "gt", Message: `must be greater than "now"`}
	}
}

// Validator checks raw records against schemas.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	register(v)
	return &Validator{v: v}
}

// Validate returns the normalized record: dates coerced to time.Time and,
// with Strip, unknown keys removed.
func (v *Validator) Validate(raw map[string]any, s Schema, opts Options) (map[string]any, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var errs []FieldError
	out := make(map[string]any, len(raw))
	declared := make(map[string]bool, len(s.Fields))
	var present []string

	for _, f := range s.Fields {
		declared[f.Name] = true
		val, ok := raw[f.Name]
		if !ok {
			if s.Presence == Required && !f.Optional {
				errs = append(errs, FieldError{Field: f.Name, Tag: "required", Message: "is required"})
			}
			continue
		}
		present = append(present, f.Name)
		coerced, fe := v.field(f, val)
		if fe != nil {
			errs = append(errs, *fe)
			continue
		}
		out[f.Name] = coerced
	}

	unknown := make([]string, 0)
	for k := range raw {
		if !declared[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		switch {
		case opts.Strip:
		case s.AllowUnknown:
			out[k] = raw[k]
		default:
			errs = append(errs, FieldError{Field: k, Tag: "unknown", Message: "is not allowed"})
		}
	}

	if len(errs) == 0 {
		ctx := Context{Now: now(), Existing: opts.Existing, Present: present}
		for _, rule := range s.Rules {
			if fe := rule(out, ctx); fe != nil {
				errs = append(errs, *fe)
			}
		}
	}

	if len(errs) > 0 {
		return nil, &Error{Schema: s.Name, Errors: errs}
	}
	return out, nil
}

func (v *Validator) field(f Field, val any) (any, *FieldError) {
	switch f.Type {
	case TypeDate:
		t, err := toDate(val, f.ISO)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Tag: "date", Message: err.Error()}
		}
		return t, nil
	default:
		s, ok := val.(string)
		if !ok {
			return nil, &FieldError{Field: f.Name, Tag: "string", Message: "must be a string"}
		}
		if f.Rules == "" {
			return s, nil
		}
		if err := v.v.Var(s, f.Rules); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, &FieldError{Field: f.Name, Tag: verrs[0].Tag(), Message: formatFieldError(verrs[0])}
			}
			return nil, &FieldError{Field: f.Name, Tag: "invalid", Message: err.Error()}
		}
		return s, nil
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func toDate(val any, isoOnly bool) (time.Time, error) {
	switch x := val.(type) {
	case time.Time:
		return x, nil
	case string:
		for _, l := range isoLayouts {
			if t, err := time.Parse(l, x); err == nil {
				return t, nil
			}
		}
		if isoOnly {
			return time.Time{}, errors.New("must be in ISO 8601 date format")
		}
		return time.Time{}, errors.New("must be a valid date")
	}
	if isoOnly {
		return time.Time{}, errors.New("must be in ISO 8601 date format")
	}
	var ms float64
	switch x := val.(type) {
	case float64:
		ms = x
	case int64:
		ms = float64(x)
	case int:
		ms = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, errors.New("must be a valid date")
		}
		ms = f
	default:
		return time.Time{}, errors.New("must be a valid date")
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, errors.New("must be a valid date")
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
