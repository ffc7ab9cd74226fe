package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTierUnavailable marks a plan-generation tier that cannot run
	// (missing credentials, remote failure, unusable response).
	ErrTierUnavailable = errors.New("tier unavailable")
	// ErrNoSigningSecret marks credential issuance without a configured secret.
	ErrNoSigningSecret = errors.New("signing secret not configured")
)
