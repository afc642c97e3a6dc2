package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the stores and services for a
// client-caused failure unwraps to exactly one of them.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

var (
	ErrUserNotFound    = NotFound("user not found")
	ErrProductNotFound = NotFound("product not found")
	ErrOrderNotFound   = NotFound("order not found")

	ErrInsufficientStock   = InvalidRequest("insufficient stock")
	ErrInsufficientBalance = InvalidRequest("insufficient balance")
	ErrEmailTaken          = InvalidRequest("email already registered")
	ErrStatusConflict      = InvalidRequest("order status changed concurrently")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func NotFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

func InvalidRequest(format string, args ...any) error {
	return &kindError{kind: ErrInvalidRequest, msg: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to OrderStatus) error {
	return InvalidRequest("cannot transition from %s to %s", from, to)
}
