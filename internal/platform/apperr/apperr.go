package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Kind classifies an application error so handlers never have to inspect
// raw database error shapes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

// Error is the application-level error type produced at operation boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports invalid caller input, detected before any backend call.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing record.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a state conflict such as a duplicate key or a blocked delete.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Unavailable reports that the backing schema or service is not usable.
func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Message: msg, Err: err}
}

// Internal wraps an unclassified failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Postgres error classes we classify. Anything else is internal.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgUndefinedTable      = "42P01"
)

// FromPostgres rewrites a lib/pq error into a typed application error.
// msg names the operation for the human-readable message.
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return &Error{Kind: KindConflict, Message: msg + ": a record with the same value already exists", Err: err}
		case pgForeignKeyViolation:
			return &Error{Kind: KindConflict, Message: msg + ": referenced record is missing or still in use", Err: err}
		case pgCheckViolation:
			return &Error{Kind: KindValidation, Message: msg + ": value out of allowed range", Err: err}
		case pgUndefinedTable:
			return &Error{Kind: KindUnavailable, Message: msg + ": schema not initialised, run migrations", Err: err}
		}
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// HTTPStatus maps an error to the response status handlers should use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
