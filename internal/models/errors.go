package models

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so callers cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCode is returned when a step-up code does not match.
	ErrInvalidCode = errors.New("invalid code")

	// ErrStoreUnavailable marks an infrastructure failure. It must never be
	// presented to the user as a denial.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrSessionNotFound = errors.New("session not found or expired")

	ErrInvalidUserName = errors.New("invalid username")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrShortPassword   = errors.New("password does not meet requirements")
)
