package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure for the HTTP layer.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a failure whose Detail is safe to show to the client.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func badRequest(detail string) *Error { return &Error{Kind: KindBadRequest, Detail: detail} }
func notFound(detail string) *Error   { return &Error{Kind: KindNotFound, Detail: detail} }
func conflict(detail string) *Error   { return &Error{Kind: KindConflict, Detail: detail} }

// KindOf returns the Kind carried by err, or KindInternal for anything that is
// not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
