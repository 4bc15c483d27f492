// Package apperr defines the error kinds surfaced to API clients.
//
// Lower layers (storage, session store, access policy) return plain errors or
// booleans; services translate them into an *Error carrying a Kind, and the
// HTTP layer maps the Kind to a status code in one place.
package apperr

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку для клиента
type Kind int

const (
	// Internal неожиданная ошибка (БД, IO)
	Internal Kind = iota
	// Validation пустой или некорректный ввод
	Validation
	// Conflict дубликат уникального значения (username, имя тега)
	Conflict
	// InvalidCredentials неверная пара username/password
	InvalidCredentials
	// NotFound ресурс с таким id не существует
	NotFound
	// PermissionDenied вызывающий не владеет ресурсом
	PermissionDenied
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "ValidationError"
	case Conflict:
		return "ConflictError"
	case InvalidCredentials:
		return "InvalidCredentials"
	case NotFound:
		return "NotFound"
	case PermissionDenied:
		return "PermissionDenied"
	default:
		return "InternalError"
	}
}

// Error is an error with a client-facing kind and message.
type Error struct {
	Err     error
	Message string
	Kind    Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
