package token

import (
	"context"
	"errors"
)

// Storage keys. A driver persists exactly these four values and clears them
// together; no other component touches storage directly.
const (
	keyAccessToken    = "accessToken"
	keyRefreshToken   = "refreshToken"
	keyUser           = "user"
	keySelectedBranch = "selectedBranch"
)

// ErrUnavailable is returned when the storage backend cannot be reached.
// Malformed stored values are never an error: reads fail soft to the zero
// value so a corrupt entry cannot break application bootstrap.
var ErrUnavailable = errors.New("token storage unavailable")

// User is the cached account identity persisted alongside the token pair.
// The authoritative copy lives server-side; this one survives reloads.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	BranchID string `json:"branchId,omitempty"`
}

// Branch is the persisted selected-branch context value.
type Branch struct {
	ID   string `json:"id"`
	Code string `json:"branchCode,omitempty"`
	Name string `json:"branchName"`
}

// Store is the persistence port for auth state. All reads fail soft:
// absent or malformed values yield the zero value and a nil error, and an
// error is returned only when the backend itself is unreachable.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error

	RefreshToken(ctx context.Context) (string, error)
	SetRefreshToken(ctx context.Context, token string) error

	// SetTokenPair replaces both tokens so that no reader observes a
	// mixed pair from two different grants.
	SetTokenPair(ctx context.Context, access, refresh string) error

	User(ctx context.Context) (*User, error)
	SetUser(ctx context.Context, user *User) error

	SelectedBranch(ctx context.Context) (*Branch, error)
	SetSelectedBranch(ctx context.Context, branch *Branch) error

	// ClearAll removes every key with no partial-clear state visible to
	// other callers.
	ClearAll(ctx context.Context) error

	Close() error
}
