package registry

import (
	"errors"
	"fmt"
)

// Kind classifies registry client failures so callers can tell a network
// problem from a response that no longer matches the expected schema.
type Kind string

const (
	// KindTransport covers network failures and non-success HTTP statuses.
	KindTransport Kind = "transport"
	// KindDecode covers response bodies that do not match the expected schema.
	KindDecode Kind = "decode"
)

// Error is a kind-tagged registry client failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("registry %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// IsKind checks whether err is a registry error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
