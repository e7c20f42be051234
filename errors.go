package authkit

import "errors"

// Sentinel errors returned by stores, the token issuer and the auth service.
// The HTTP layer maps these to status codes; everything else becomes a
// generic server error.
var (
	// ErrConflict signals a uniqueness violation: the email is already
	// registered, or the (kind, external id) pair already belongs to an
	// auth method.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized covers every credential failure. Callers must not be
	// able to tell a missing account from a wrong password.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrNotFound is returned when an account id no longer resolves.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken covers bad signature, malformed structure and expiry.
	// All three are deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid token")
)

// Error codes used in JSON error responses
const (
	ErrCodeInvalidCreds = "invalid_credentials"
	ErrCodeEmailExists  = "email_exists"
	ErrCodeInvalidEmail = "invalid_email"
	ErrCodeWeakPassword = "weak_password"
	ErrCodeMissingField = "missing_field"
	ErrCodeBadProvider  = "unsupported_provider"
	ErrCodeNotFound     = "not_found"
	ErrCodeServerError  = "server_error"
)

// AuthError is a client-facing error with a machine-readable code and an
// optional field name for form-level feedback.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError creates an AuthError with the given code, message and field
func NewAuthError(code, message, field string) *AuthError {
	return &AuthError{Code: code, Message: message, Field: field}
}
