package authclient

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks client-side input rejections. Wrapped by the
	// specific validation errors below; match it with errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork means the server could not be reached at all.
	ErrNetwork = errors.New("cannot reach server")
	// ErrInvalidCredentials is returned when the server rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired means the stored session could not be renewed and
	// the user must sign in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrMissingRefreshToken is returned by Refresh when storage holds no
	// refresh token.
	ErrMissingRefreshToken = errors.New("no refresh token available")
	// ErrBadResponse means the server answered with a body the client
	// could not interpret.
	ErrBadResponse = errors.New("malformed server response")
	// ErrNotAuthenticated is returned by operations that require a
	// signed-in user.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrClientClosed is returned after Close.
	ErrClientClosed = errors.New("client closed")

	// ErrUsernameRequired et al. are the field-level validation failures.
	// Each wraps ErrValidation.
	ErrUsernameRequired = fmt.Errorf("%w: username is required", ErrValidation)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	ErrPasswordSame     = fmt.Errorf("%w: new password must differ from the old one", ErrValidation)
	ErrEmailRequired    = fmt.Errorf("%w: email is required", ErrValidation)
	ErrTokenRequired    = fmt.Errorf("%w: reset token is required", ErrValidation)
)

// APIError is a non-2xx server reply that carried a parseable envelope.
// StatusCode is the HTTP status; Message is the server's human-readable
// explanation, already safe to surface in the UI.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether the server answered 401.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == 401 }
