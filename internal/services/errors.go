package services

import "errors"

// Sentinel errors returned by the user service. Controllers map these onto the
// HTTP error taxonomy; anything else is treated as an internal failure.
var (
	// ErrEmailTaken is returned when the email unique constraint rejects a write.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so the
	// two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when no user exists for the requested id.
	ErrUserNotFound = errors.New("user not found")

	// ErrProtectedUser is returned for any mutation targeting the protected
	// admin account.
	ErrProtectedUser = errors.New("the admin account cannot be modified")
)
