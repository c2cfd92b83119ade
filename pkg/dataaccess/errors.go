package dataaccess

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist. Both
	// backends map their own not-found conditions onto this error.
	ErrNotFound = errors.New("record not found")

	// ErrQuotaExceeded is returned by OpenTicket when the owner has already
	// reached the guild's monthly ticket limit.
	ErrQuotaExceeded = errors.New("monthly ticket quota exceeded")
)
