package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	KindBadRequest      Kind = "BAD_REQUEST"
	KindValidation      Kind = "VALIDATION"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindUniqueViolation Kind = "UNIQUE_VIOLATION"
	KindInternal        Kind = "INTERNAL"
)

// Scheduling conflicts are reported as bad requests, not as 409.
var kindStatus = map[Kind]int{
	KindBadRequest:      http.StatusBadRequest,
	KindValidation:      http.StatusBadRequest,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusBadRequest,
	KindUniqueViolation: http.StatusBadRequest,
	KindInternal:        http.StatusInternalServerError,
}

const (
	MsgNothingToUpdate  = "nothing to update"
	MsgScheduleConflict = "You can't create event for this time window"
)

// Error is the single failure type returned by services.
type Error struct {
	Kind Kind
	// Message is the caller supplied detail; empty means the status default.
	Message string
	// Field names the offending input field when there is one.
	Field string
	// Details maps field names to messages for validation failures.
	Details map[string]string
	// Debug is internal diagnostic data. Never expose it in production.
	Debug any

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Text(), e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Text())
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP-style status code for the kind.
func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// StatusText is the short default message tied to the kind.
func (e *Error) StatusText() string {
	return http.StatusText(e.Status())
}

// Text returns the detailed message, or the default one when unset.
func (e *Error) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.StatusText()
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func BadRequest(msg string) *Error { return newError(KindBadRequest, msg) }

func NotFound() *Error { return newError(KindNotFound, "") }

// ScheduleConflict rejects an event whose window collides with the owner's calendar.
func ScheduleConflict() *Error { return newError(KindConflict, MsgScheduleConflict) }

// Validation builds a validation failure from the first message and the per-field details.
func Validation(msg string, details map[string]string, debug any) *Error {
	e := newError(KindValidation, msg)
	e.Details = details
	e.Debug = debug
	return e
}

func NothingToUpdate() *Error { return Validation(MsgNothingToUpdate, nil, nil) }

// UniqueViolation names the entity and the duplicated field.
func UniqueViolation(kind entity.Kind, field string) *Error {
	e := newError(KindUniqueViolation, fmt.Sprintf("%s with the same '%s' already exists", kind, field))
	e.Field = field
	return e
}

// Internal hides err behind a generic processing message for kind.
func Internal(kind entity.Kind, err error) *Error {
	e := newError(KindInternal, fmt.Sprintf("%s processing returns error", kind))
	e.cause = err
	if err != nil {
		e.Debug = map[string]string{"original": err.Error()}
	}
	return e
}

// FromStore translates a gateway error into the taxonomy. Errors that are
// already classified pass through unchanged.
func FromStore(kind entity.Kind, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var uv *repository.UniqueViolationError
	if errors.As(err, &uv) {
		e := UniqueViolation(kind, string(uv.Field))
		e.cause = err
		e.Debug = map[string]string{"original": err.Error()}
		return e
	}
	if errors.Is(err, repository.ErrNotFound) {
		e := NotFound()
		e.cause = err
		return e
	}
	return Internal(kind, err)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
