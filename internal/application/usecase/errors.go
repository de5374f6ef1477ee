package usecase

import "errors"

var (
	// ErrUnauthenticated is returned when a token or session is missing,
	// invalid or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller's role or ownership does not
	// allow the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned by login for an unknown email or a
	// wrong password. The two cases are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned by registration for an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrConsentRequired is returned when an operation needs an active Open
	// Finance consent.
	ErrConsentRequired = errors.New("open finance consent required")
	// ErrInvalidRequest wraps input validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)
