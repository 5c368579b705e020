// Package v1 provides user-management business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors that represent the closed set of
// operation outcomes. Business logic methods wrap them with context using
// fmt.Errorf("%w"); handlers select status codes with errors.Is. Any fault
// outside this set surfaces as a generic internal error after being logged
// with full detail.
package v1

import "errors"

// Sentinel errors for user operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrUserNotFound indicates the referenced user does not exist.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user does not exist")

	// ErrUserExists indicates the username is already taken.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates the provided password is incorrect.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("incorrect password")

	// ErrNoUsers indicates a list query matched nothing. This is a soft
	// error: the handler renders it as an ordinary error-status body, not
	// as a transport failure.
	ErrNoUsers = errors.New("no users found")

	// ErrUpdateFailed indicates the user vanished between the existence
	// check and the update (or the merge was rejected by the store).
	// HTTP Status: 400 Bad Request
	ErrUpdateFailed = errors.New("failed to update user")

	// ErrMissingFile indicates an upload request carried no file payload.
	// HTTP Status: 400 Bad Request
	ErrMissingFile = errors.New("no file uploaded")
)
