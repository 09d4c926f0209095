// Package service orchestrates the account, settings, and reading
// operations: it consults the authorization policy, shapes validation,
// and drives the store.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a caller-recoverable failure. The API layer maps each
// kind to an HTTP status; none terminates the process.
type Kind int

const (
	// KindValidation marks missing or malformed input.
	KindValidation Kind = iota + 1
	// KindAuth marks missing, invalid, or tampered credentials.
	KindAuth
	// KindPermission marks an authenticated but disallowed operation.
	KindPermission
	// KindNotFound marks a reference to an absent entity.
	KindNotFound
	// KindConflict marks a duplicate unique key on create.
	KindConflict
)

// Error is a classified, caller-recoverable service failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the kind of a service error, or 0 for other errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func authf(format string, args ...any) error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func permissionf(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
