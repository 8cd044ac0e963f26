// Package service provides application-level services for managing users,
// tasks, and their associated records.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check with
// errors.Is(); the API layer maps them onto HTTP status codes.
var (
	// ErrPasswordMismatch indicates that a password and its confirmation
	// did not match. API layer should map this to HTTP 400.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrWrongPassword indicates the presented current password did not
	// verify against the stored credential. API layer should map this to
	// HTTP 400 with a field-level message.
	ErrWrongPassword = errors.New("old password is incorrect")

	// ErrInactiveUser indicates a login attempt against a deactivated
	// account. API layer should map this to HTTP 401.
	ErrInactiveUser = errors.New("user account is inactive")

	// ErrInvalidCredentials indicates a failed username/password login.
	// API layer should map this to HTTP 401 without revealing which part
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingFile indicates an attachment upload without a file part.
	// API layer should map this to HTTP 400.
	ErrMissingFile = errors.New("no file provided")
)
