// Package queue implements the client waiting queue: the record store with
// its status transitions, the derived view filters and the overdue rules.
package queue

import "errors"

var (
	// ErrPhoneTooShort is returned by Add when the phone has fewer digits
	// than the configured minimum after normalization.
	ErrPhoneTooShort = errors.New("phone number has too few digits")

	// ErrDuplicatePhone is returned by Add when another record already holds
	// the same normalized phone and no replacement was requested.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrIboNotUpdated is returned by Remove for a called record whose IBO
	// flag is still unset while the delete gate is enabled.
	ErrIboNotUpdated = errors.New("client IBO flag must be set before deletion")
)
