// Package service holds the business rules of the shop: accounts, addresses,
// the catalog and the order workflow. It talks to persistence through
// store.Store and reports failures as *Error values.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindDuplicateIdentity
	KindInvalidCredentials
	KindAccountDisabled
	KindUnauthenticated
	KindNotFound
	KindInvalidState
	KindProductNotFound
	KindProductUnavailable
	KindInsufficientStock
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindDuplicateIdentity:
		return "duplicate_identity"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAccountDisabled:
		return "account_disabled"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindProductNotFound:
		return "product_not_found"
	case KindProductUnavailable:
		return "product_unavailable"
	case KindInsufficientStock:
		return "insufficient_stock"
	default:
		return "unknown"
	}
}

// Error is a business failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrDuplicateIdentity  = &Error{Kind: KindDuplicateIdentity}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrAccountDisabled    = &Error{Kind: KindAccountDisabled}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidState       = &Error{Kind: KindInvalidState}
	ErrProductNotFound    = &Error{Kind: KindProductNotFound}
	ErrProductUnavailable = &Error{Kind: KindProductUnavailable}
	ErrInsufficientStock  = &Error{Kind: KindInsufficientStock}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or 0 when err is not a business error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
