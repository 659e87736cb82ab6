package application

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures the HTTP layer translates into status codes.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error is a client-facing failure. Message is safe to return to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message so sentinels compare equal
// even after being wrapped with a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func ValidationError(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func NotFoundError(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func ConflictError(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func ForbiddenError(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }

var (
	ErrInvalidCredentials = ValidationError("Invalid credentials")
	ErrEmailTaken         = ConflictError("Email already registered.")
	ErrUserNotFound       = NotFoundError("User not found")
	ErrInvalidQuestionID  = ValidationError("Invalid question ID")
	ErrQuestionNotFound   = NotFoundError("Question not found")
	ErrMissingQuestion    = ValidationError("Question not found")
	ErrManagerSignup      = ForbiddenError("Manager registration is disabled")
	ErrPasswordTooLong    = ValidationError("password must be at most 72 bytes")
)

// KindOf returns the kind of an application error, or 0 for anything else.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
