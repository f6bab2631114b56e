package store

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes shared by every driver.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConnection
	KindConstraintViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConnection:
		return "connection_error"
	case KindConstraintViolation:
		return "constraint_violation"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound            = &RepositoryError{Kind: KindNotFound, Message: "record not found"}
	ErrConnection          = &RepositoryError{Kind: KindConnection, Message: "backend failure"}
	ErrConstraintViolation = &RepositoryError{Kind: KindConstraintViolation, Message: "constraint violation"}
	ErrUnknown             = &RepositoryError{Kind: KindUnknown, Message: "unknown failure"}
)

// RepositoryError is returned by every CRUD operation. For KindConnection the
// backend's native error is kept in Cause and can be recovered with NativeError.
type RepositoryError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// Is matches any RepositoryError of the same kind, so errors.Is(err, ErrConnection)
// works regardless of message or cause.
func (e *RepositoryError) Is(target error) bool {
	var t *RepositoryError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newConnectionError(cause error) *RepositoryError {
	return &RepositoryError{Kind: KindConnection, Message: "backend operation failed", Cause: cause}
}

func newConstraintViolation(message string, cause error) *RepositoryError {
	return &RepositoryError{Kind: KindConstraintViolation, Message: message, Cause: cause}
}

func newUnknownError(format string, args ...any) *RepositoryError {
	return &RepositoryError{Kind: KindUnknown, Message: fmt.Sprintf(format, args...)}
}

func wrapUnknown(cause error, format string, args ...any) *RepositoryError {
	return &RepositoryError{Kind: KindUnknown, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func newNotFound(format string, args ...any) *RepositoryError {
	return &RepositoryError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the taxonomy kind of err. Errors that did not come from a
// driver are reported as KindUnknown.
func KindOf(err error) ErrorKind {
	var re *RepositoryError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// NativeError extracts the backend error of type E wrapped by a RepositoryError,
// e.g. NativeError[*pgconn.PgError](err) or NativeError[mongo.WriteException](err).
func NativeError[E error](err error) (E, bool) {
	var native E
	var re *RepositoryError
	if !errors.As(err, &re) || re.Cause == nil {
		return native, false
	}
	if errors.As(re.Cause, &native) {
		return native, true
	}
	return native, false
}
