// Package apperrors defines the error taxonomy shared by every service
// operation. Callers branch on these sentinels with errors.Is; nothing in
// the service layer panics or throws past its own boundary.
package apperrors

import "errors"

var (
	// ErrUnauthorized means no authenticated actor is present.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the actor is authenticated but the role lacks
	// module access, write permission, or the target church is out of scope.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced registration, user or church does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition means the requested status change is not permitted
	// from the current state, including any attempt to mutate a locked record.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrValidation means the input is malformed.
	ErrValidation = errors.New("validation failed")
)
