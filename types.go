package authclient

import (
	"github.com/medlan/authclient/permission"
	"github.com/medlan/authclient/token"
)

// User is the authenticated account as returned by the backend. It is
// persisted alongside the tokens so a reload can restore the signed-in
// UI before the first network round-trip.
type User = token.User

// Branch is a pharmacy branch the user may operate in.
type Branch = token.Branch

// Role aliases the RBAC role type so callers rarely need to import the
// permission package directly.
type Role = permission.Role

// Credentials carries a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is an access/refresh token couple as issued by login and
// refresh responses.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthState is the observable authentication snapshot. Consumers receive a
// copy; mutating it has no effect on the client.
//
// IsAuthenticated and User are set and cleared together. Err holds the most
// recent operation failure and is cleared when a later operation succeeds.
type AuthState struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Err             error
	SelectedBranch  *Branch
}

// ChangePasswordRequest updates the current user's password. The old
// password is re-verified server side.
type ChangePasswordRequest struct {
	OldPassword string
	NewPassword string
}

// ResetPasswordRequest completes a forgot-password flow with the emailed
// token.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}
