package state

import "errors"

// Failure categories surfaced to the operator. Callers attach context with
// github.com/pkg/errors and match with errors.Is.
var (
	// ErrInvalidArgument - the JSON invocation argument is malformed or
	// names an unrecognized mode.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied - insufficient privileges to write the run log.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMissingConfiguration - a required config value (typically email
	// credentials) is absent when a stage needs it.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrAuthentication - the mail server rejected our credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrTransport - the mail exchange failed for a non-auth reason.
	ErrTransport = errors.New("transport failure")
)
