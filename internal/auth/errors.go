package auth

import "errors"

// Sentinel errors for the credential and session core. Handlers map these to
// transport status codes in one place.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	// The two cases are intentionally indistinguishable so responses never
	// reveal whether an email is registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked rejects logins while a lockout window is active. The
	// message deliberately omits the remaining wait time.
	ErrAccountLocked = errors.New("account is temporarily locked due to failed login attempts")

	// ErrDuplicateEmail reports a uniqueness violation at registration.
	ErrDuplicateEmail = errors.New("email address already exists")

	// ErrUnauthenticated reports a missing, malformed, or unverifiable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden reports a failed role or ownership check.
	ErrForbidden = errors.New("forbidden")
)

// Token verification failure kinds.
var (
	// ErrTokenMalformed reports an unparseable token encoding.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenInvalidSignature reports a tampered token or one signed with a
	// different secret.
	ErrTokenInvalidSignature = errors.New("invalid token signature")

	// ErrTokenExpired reports a token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError reports a password-policy violation. Message carries the
// first violated rule in evaluation order.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a password-policy violation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
