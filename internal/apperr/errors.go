// Package apperr is the error taxonomy shared by every domain package. The HTTP
// layer maps a Kind to a status code; nothing else inspects error strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindStore             Kind = "store"
)

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldError
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Code: "UNAUTHORIZED", Message: "sign in required"}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "admin access required"}
}

// Validation builds a validation error. An empty code defaults to VALIDATION_FAILED.
func Validation(code, message string, fields ...FieldError) *Error {
	if code == "" {
		code = "VALIDATION_FAILED"
	}
	return &Error{Kind: KindValidation, Code: code, Message: message, Fields: fields}
}

func NotFound(entity, id string) *Error {
	msg := entity + " not found"
	if id != "" {
		msg = fmt.Sprintf("%s %s not found", entity, id)
	}
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: msg}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Code:    "INVALID_STATE_TRANSITION",
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// Store wraps an opaque persistence failure.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Code: "INTERNAL", Message: "store error", Err: err}
}

// KindOf reports the Kind of err. Errors outside the taxonomy are store errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// As returns the taxonomy error wrapped in err, wrapping unknown errors as Store.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Store(err)
}
