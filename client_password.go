package authclient

import (
	"context"
	"strings"
)

const minPasswordLength = 8

func validateNewPassword(pw string) error {
	if pw == "" {
		return ErrPasswordRequired
	}
	if len(pw) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ChangePassword updates the signed-in user's password. The session and
// tokens stay valid afterwards; the server re-verifies the old password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return ErrNotAuthenticated
	}
	if req.OldPassword == "" {
		return ErrPasswordRequired
	}
	if err := validateNewPassword(req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword == req.OldPassword {
		return ErrPasswordSame
	}

	// The endpoint wants the confirmation repeated; the Go API takes the
	// new password once and repeats it on the wire.
	body := map[string]string{
		"currentPassword": req.OldPassword,
		"newPassword":     req.NewPassword,
		"confirmPassword": req.NewPassword,
	}
	if err := c.postJSON(ctx, "/change-password", st.Token, body, nil); err != nil {
		c.log.Logf("[WARN] password change failed: %v", err)
		return err
	}
	c.metrics.Inc(MetricPasswordChanged)
	c.log.Logf("[INFO] password changed")
	return nil
}

// ForgotPassword asks the server to mail a reset token. The server
// answers identically whether or not the address exists, and so does
// this method.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	body := map[string]string{"email": email}
	if err := c.postJSON(ctx, "/forgot-password", "", body, nil); err != nil {
		c.log.Logf("[WARN] forgot-password request failed: %v", err)
		return err
	}
	c.metrics.Inc(MetricPasswordResetRequested)
	return nil
}

// ResetPassword completes a forgot-password flow. It works signed out;
// the emailed token is the sole proof of identity.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return ErrTokenRequired
	}
	if err := validateNewPassword(req.NewPassword); err != nil {
		return err
	}

	if err := c.postJSON(ctx, "/reset-password", "", req, nil); err != nil {
		c.log.Logf("[WARN] password reset failed: %v", err)
		return err
	}
	c.metrics.Inc(MetricPasswordResetConfirmed)
	c.log.Logf("[INFO] password reset completed")
	return nil
}
