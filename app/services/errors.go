// Package services holds the error taxonomy shared by the domain services
// in its subpackages. Every business failure reaching a controller is an
// *Error whose Kind picks the HTTP status and whose Message is safe to show.
package services

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindInsufficientStock
	KindInsufficientBalance
	KindConflict
	KindPermissionDenied
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindConflict:
		return "conflict"
	case KindPermissionDenied:
		return "permission_denied"
	case KindInvalidState:
		return "invalid_state"
	}
	return "internal"
}

// HTTPStatus is the status an API client receives for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindInsufficientBalance, KindInvalidState:
		return http.StatusConflict
	case KindConflict:
		return http.StatusServiceUnavailable
	case KindPermissionDenied:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels below regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrInsufficientStock   = &Error{Kind: KindInsufficientStock}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrPermissionDenied    = &Error{Kind: KindPermissionDenied}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
)

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func InsufficientStock(msg string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: msg}
}

func InsufficientBalance(msg string) *Error {
	return &Error{Kind: KindInsufficientBalance, Message: msg}
}

func Conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func PermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: msg}
}

// InvalidState rejects a lifecycle move the current status forbids.
func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

// Internal wraps an unexpected failure. The message shown to users never
// includes err.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong, please try again.", Err: err}
}

// As returns err as an *Error, wrapping anything else as Internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
