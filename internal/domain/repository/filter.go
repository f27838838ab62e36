package repository

import (
	"time"
)

// Field names a queryable record attribute.
type Field string

const (
	FieldID          Field = "id"
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phoneNumber"
	FieldUser        Field = "user"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldCreatedAt   Field = "createdAt"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter is a boolean expression over record fields. A nil Filter matches everything.
type Filter interface {
	isFilter()
}

// Cond compares one field against a value.
type Cond struct {
	Field Field
	Op    Op
	Value any
}

// All is a conjunction.
type All []Filter

// Any is a disjunction.
type Any []Filter

func (Cond) isFilter() {}
func (All) isFilter()  {}
func (Any) isFilter()  {}

func Eq(f Field, v any) Filter        { return Cond{Field: f, Op: OpEq, Value: v} }
func Gte(f Field, v time.Time) Filter { return Cond{Field: f, Op: OpGte, Value: v} }
func Lte(f Field, v time.Time) Filter { return Cond{Field: f, Op: OpLte, Value: v} }
func And(fs ...Filter) Filter         { return All(fs) }
func Or(fs ...Filter) Filter          { return Any(fs) }

// Between matches from <= f <= to.
func Between(f Field, from, to time.Time) Filter {
	return All{Gte(f, from), Lte(f, to)}
}

// Getter resolves a field on a record. ok is false for absent or null values.
type Getter func(f Field) (v any, ok bool)

// Match evaluates filter against a record in memory.
func Match(filter Filter, get Getter) bool {
	switch f := filter.(type) {
	case nil:
		return true
	case All:
		for _, sub := range f {
			if !Match(sub, get) {
				return false
			}
		}
		return true
	case Any:
		for _, sub := range f {
			if Match(sub, get) {
				return true
			}
		}
		return false
	case Cond:
		v, ok := get(f.Field)
		if !ok {
			return false
		}
		return compare(v, f.Op, f.Value)
	default:
		return false
	}
}

func compare(v any, op Op, want any) bool {
	if t, ok := v.(time.Time); ok {
		w, ok := want.(time.Time)
		if !ok {
			return false
		}
		switch op {
		case OpEq:
			return t.Equal(w)
		case OpGte:
			return !t.Before(w)
		case OpLte:
			return !t.After(w)
		}
		return false
	}
	if op != OpEq {
		return false
	}
	return v == want
}
