package authclient

import (
	"context"
	"fmt"
	"strings"
)

// loginResponse is the data payload of POST /login.
type loginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// validateCredentials rejects obviously bad input before any network
// traffic.
func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Username) == "" {
		return ErrUsernameRequired
	}
	if creds.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Login authenticates against the backend and, on success, persists the
// token pair and user, installs the authenticated state, and starts the
// idle tracker. A 401 surfaces as ErrInvalidCredentials; input rejected
// locally never reaches the network.
func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	if err := validateCredentials(creds); err != nil {
		c.metrics.Inc(MetricLoginRejectedLocal)
		c.state.setError(err)
		return nil, err
	}

	c.state.setLoading(true)

	var data loginResponse
	if err := c.postJSON(ctx, "/login", "", creds, &data); err != nil {
		if isUnauthorized(err) {
			err = ErrInvalidCredentials
		}
		c.metrics.Inc(MetricLoginFailure)
		c.log.Logf("[WARN] login failed for %q: %v", creds.Username, err)
		c.state.setError(err)
		return nil, err
	}

	if data.User == nil || data.AccessToken == "" || data.RefreshToken == "" {
		c.metrics.Inc(MetricLoginFailure)
		c.state.setError(ErrBadResponse)
		return nil, ErrBadResponse
	}

	if err := c.persistLogin(ctx, data); err != nil {
		// Storage trouble is not fatal; the in-memory session still works
		// for this page lifetime.
		c.log.Logf("[WARN] login persisted partially: %v", err)
	}

	c.state.setAuthenticated(data.User, data.AccessToken, nil)
	c.startMonitor()
	c.metrics.Inc(MetricLoginSuccess)
	c.log.Logf("[INFO] user %q logged in, role %s", data.User.Username, data.User.Role)
	return data.User, nil
}

func (c *Client) persistLogin(ctx context.Context, data loginResponse) error {
	if err := c.store.SetTokenPair(ctx, data.AccessToken, data.RefreshToken); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	if err := c.store.SetUser(ctx, data.User); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	// A fresh login starts without a branch; any selection belongs to the
	// previous session.
	if err := c.store.SetSelectedBranch(ctx, nil); err != nil {
		return fmt.Errorf("reset branch: %w", err)
	}
	return nil
}
