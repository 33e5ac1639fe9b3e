package authclient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/singleflight"

	"github.com/medlan/authclient/jwt"
	"github.com/medlan/authclient/permission"
	"github.com/medlan/authclient/session"
	"github.com/medlan/authclient/token"
)

// Client orchestrates the authentication lifecycle. Construct it through
// [Builder]; the zero value is not usable.
type Client struct {
	cfg     Config
	http    Doer
	store   token.Store
	state   *stateStore
	bus     EventBus.Bus
	engine  *permission.Engine
	inspect *jwt.Inspector
	clock   session.Clock
	log     lgr.L
	metrics *Metrics

	refreshGroup singleflight.Group
	// authGen is bumped on every logout so refresh results that complete
	// afterwards cannot resurrect a cleared auth state.
	authGen atomic.Uint64

	mu      sync.Mutex
	monitor *session.Monitor
	closed  bool
}

// State returns the current auth snapshot.
func (c *Client) State() AuthState {
	return c.state.snapshot()
}

// IsAuthenticated is shorthand for State().IsAuthenticated.
func (c *Client) IsAuthenticated() bool {
	return c.state.snapshot().IsAuthenticated
}

// Metrics exposes the lifecycle counters for exporters.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// TokenClaims decodes the current access token's payload without
// verifying it. Nil when signed out or the token is malformed.
func (c *Client) TokenClaims() *jwt.Claims {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return nil
	}
	return c.inspect.Decode(st.Token)
}

// currentRole returns the signed-in user's role, or the empty Role.
func (c *Client) currentRole() Role {
	st := c.state.snapshot()
	if !st.IsAuthenticated || st.User == nil {
		return ""
	}
	return Role(st.User.Role)
}

// HasPermission checks a named permission against the current user. An
// unauthenticated client has no permissions.
func (c *Client) HasPermission(perm string) bool {
	return c.engine.HasPermission(c.currentRole(), perm)
}

// HasRoleLevel reports whether the current user sits at or above the
// required role in the hierarchy.
func (c *Client) HasRoleLevel(required Role) bool {
	return c.engine.HasRoleLevel(c.currentRole(), required)
}

// HasAnyRole reports whether the current user's role is one of roles.
func (c *Client) HasAnyRole(roles ...Role) bool {
	return c.engine.HasAnyRole(c.currentRole(), roles)
}

// AllowedRoutes lists the route paths the current user may visit.
func (c *Client) AllowedRoutes() []string {
	return c.engine.AllowedRoutes(c.currentRole())
}

// Permissions lists the current user's permission names.
func (c *Client) Permissions() []string {
	return c.engine.Permissions(c.currentRole())
}

// DefaultPath is where the current user lands after login.
func (c *Client) DefaultPath() string {
	return c.engine.DefaultPath(c.currentRole())
}

// SalesCaps returns the discount and credit limits for the current user.
func (c *Client) SalesCaps() permission.SalesCaps {
	return c.engine.SalesCapsFor(c.currentRole())
}

// SelectBranch persists the active branch and publishes the new state.
func (c *Client) SelectBranch(ctx context.Context, b *Branch) error {
	if !c.state.snapshot().IsAuthenticated {
		return ErrNotAuthenticated
	}
	if err := c.store.SetSelectedBranch(ctx, b); err != nil {
		c.log.Logf("[WARN] branch selection not persisted: %v", err)
	}
	c.state.setBranch(b)
	return nil
}

// RecordActivity feeds a user-activity event into the idle tracker. Call
// it from input event handlers; it is cheap and safe when signed out.
func (c *Client) RecordActivity() {
	c.mu.Lock()
	m := c.monitor
	c.mu.Unlock()
	if m != nil {
		m.Touch()
	}
}

// ExtendSession answers the idle warning's "stay signed in" action.
func (c *Client) ExtendSession() {
	c.RecordActivity()
}

// SessionState returns the idle tracker's state, Inactive when signed out.
func (c *Client) SessionState() session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor == nil {
		return session.StateInactive
	}
	return c.monitor.CurrentState()
}

// TimeUntilIdleExpiry returns how long until the idle deadline, zero when
// no session is running.
func (c *Client) TimeUntilIdleExpiry() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor == nil {
		return 0
	}
	return c.monitor.TimeUntilIdleExpiry()
}

// SessionDuration returns how long the current session has been running,
// zero when signed out.
func (c *Client) SessionDuration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor == nil {
		return 0
	}
	return c.monitor.Duration()
}

// IsSessionValid reports whether the session is live and still inside the
// hard max-duration cap.
func (c *Client) IsSessionValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor == nil {
		return false
	}
	return c.monitor.IsValid()
}

// startMonitor replaces any running idle tracker with a fresh one.
func (c *Client) startMonitor() {
	m := session.New(c.cfg.Session, c.clock)

	c.mu.Lock()
	if c.monitor != nil {
		c.monitor.Destroy()
	}
	c.monitor = m
	c.mu.Unlock()

	err := m.Start(session.Callbacks{
		OnWarning: func() {
			c.metrics.Inc(MetricSessionWarning)
			remaining := m.TimeUntilIdleExpiry()
			c.log.Logf("[INFO] session idle warning, %s until expiry", remaining)
			c.bus.Publish(TopicSessionWarning, remaining)
		},
		OnExpired: func() {
			c.metrics.Inc(MetricSessionExpired)
			c.log.Logf("[INFO] session expired after inactivity")
			c.bus.Publish(TopicSessionExpired)
			c.forceLogout(context.Background(), ErrSessionExpired)
		},
	})
	if err != nil {
		c.log.Logf("[ERROR] idle tracker failed to start: %v", err)
	}
}

// stopMonitor tears down the idle tracker if one is running.
func (c *Client) stopMonitor() {
	c.mu.Lock()
	m := c.monitor
	c.monitor = nil
	c.mu.Unlock()
	if m != nil {
		m.Destroy()
	}
}

// Close releases the storage backend and stops the idle tracker. The
// client is unusable afterwards. Close does not sign the user out; a
// subsequent process can restore the session from storage.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.stopMonitor()
	return c.store.Close()
}
