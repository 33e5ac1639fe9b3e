package authclient

// GuardDecision is the outcome of a route-guard check.
type GuardDecision uint8

const (
	// DecisionAllow lets the navigation proceed.
	DecisionAllow GuardDecision = iota
	// DecisionLoading means auth state is still being restored; the
	// caller should hold rendering rather than redirect.
	DecisionLoading
	// DecisionRedirectToLogin means no user is signed in.
	DecisionRedirectToLogin
	// DecisionDenied means the user is signed in but the route is above
	// their role.
	DecisionDenied
)

func (d GuardDecision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionLoading:
		return "loading"
	case DecisionRedirectToLogin:
		return "redirect-to-login"
	case DecisionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// LoginPath is where unauthenticated navigations are sent.
const LoginPath = "/login"

// GuardResult tells the router what to do with a navigation attempt.
type GuardResult struct {
	Decision GuardDecision
	// RedirectTo is set for the redirect decisions.
	RedirectTo string
	// From preserves the originally requested path so login can return
	// the user there afterwards.
	From string
}

// Guard evaluates a navigation to path against the current auth state.
// While state is being restored the answer is Loading, never a redirect,
// so a slow bootstrap cannot bounce a valid session to the login screen.
func (c *Client) Guard(path string) GuardResult {
	st := c.state.snapshot()

	if st.IsLoading {
		return GuardResult{Decision: DecisionLoading, From: path}
	}
	if !st.IsAuthenticated || st.User == nil {
		return GuardResult{
			Decision:   DecisionRedirectToLogin,
			RedirectTo: LoginPath,
			From:       path,
		}
	}

	role := Role(st.User.Role)
	if !c.engine.CanAccessRoute(role, path) {
		c.metrics.Inc(MetricRouteDenied)
		c.log.Logf("[DEBUG] route %s denied for role %s", path, role)
		return GuardResult{
			Decision:   DecisionDenied,
			RedirectTo: c.engine.DefaultPath(role),
			From:       path,
		}
	}

	c.metrics.Inc(MetricRouteAllowed)
	return GuardResult{Decision: DecisionAllow, From: path}
}

// GuardWithRole additionally requires a minimum role for the route, for
// screens that gate on hierarchy rather than the route table.
func (c *Client) GuardWithRole(path string, required Role) GuardResult {
	res := c.Guard(path)
	if res.Decision != DecisionAllow {
		return res
	}
	if !c.HasRoleLevel(required) {
		c.metrics.Inc(MetricRouteDenied)
		return GuardResult{
			Decision:   DecisionDenied,
			RedirectTo: c.DefaultPath(),
			From:       path,
		}
	}
	return res
}
