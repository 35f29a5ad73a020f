// Package apperr defines the typed errors returned by the CFP services.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Kind classifies an error for callers
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindNotAuthorized     Kind = "not_authorized"
	KindInvalidTransition Kind = "invalid_transition"
	KindProfileIncomplete Kind = "profile_incomplete"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindAlreadyAccepted   Kind = "already_accepted"
	KindValidation        Kind = "validation_failed"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Postgres SQLSTATE codes mapped by FromDB
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Error is a domain error carrying a Kind and optional field-level detail
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, apperr.ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrNotAuthorized     = &Error{Kind: KindNotAuthorized}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrProfileIncomplete = &Error{Kind: KindProfileIncomplete}
	ErrQuotaExceeded     = &Error{Kind: KindQuotaExceeded}
	ErrAlreadyAccepted   = &Error{Kind: KindAlreadyAccepted}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInternal          = &Error{Kind: KindInternal}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }

func NotAuthorized(format string, args ...any) *Error {
	return newf(KindNotAuthorized, format, args...)
}

func InvalidTransition(from, to string) *Error {
	return newf(KindInvalidTransition, "cannot transition from %s to %s", from, to)
}

// InvalidState reports an operation that the entity's current state does not allow
func InvalidState(format string, args ...any) *Error {
	return newf(KindInvalidTransition, format, args...)
}

func ProfileIncomplete(missing []string) *Error {
	fields := make(map[string]string, len(missing))
	for _, f := range missing {
		fields[f] = "required"
	}
	return &Error{Kind: KindProfileIncomplete, Message: "speaker profile is incomplete", Fields: fields}
}

func QuotaExceeded(limit int) *Error {
	return newf(KindQuotaExceeded, "submission limit of %d reached", limit)
}

func AlreadyAccepted(format string, args ...any) *Error {
	return newf(KindAlreadyAccepted, format, args...)
}

// Validation builds a ValidationFailed error with per-field messages
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Conflict(format string, args ...any) *Error { return newf(KindConflict, format, args...) }

// Internal wraps an unexpected failure. The message is for logs only.
func Internal(err error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind of err, treating unknown errors as internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key violation
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation
}

// FromDB maps driver errors onto domain kinds
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return NotFound("%s not found", what)
	case IsUniqueViolation(err):
		return Conflict("%s already exists", what)
	case IsForeignKeyViolation(err):
		return Conflict("%s is still referenced", what)
	default:
		var appErr *Error
		if errors.As(err, &appErr) {
			return err
		}
		return Internal(err, "failed to access %s", what)
	}
}

// HTTPStatus maps a Kind to its HTTP status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden, KindNotAuthorized:
		return http.StatusForbidden
	case KindInvalidTransition, KindAlreadyAccepted, KindConflict:
		return http.StatusConflict
	case KindProfileIncomplete, KindQuotaExceeded:
		return http.StatusUnprocessableEntity
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
