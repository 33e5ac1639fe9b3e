package internaldefs

import (
	authclient "github.com/medlan/authclient"
)

// CounterDef pairs a metric ID with its stable exposition name.
type CounterDef struct {
	ID   authclient.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter with the names both exporters share.
// Order matches the MetricID declaration order.
var CounterDefs = []CounterDef{
	{ID: authclient.MetricLoginSuccess, Name: "authclient_login_success_total", Help: "Successful logins."},
	{ID: authclient.MetricLoginFailure, Name: "authclient_login_failure_total", Help: "Logins rejected by the server or lost to transport errors."},
	{ID: authclient.MetricLoginRejectedLocal, Name: "authclient_login_rejected_local_total", Help: "Logins rejected by client-side validation before any network traffic."},
	{ID: authclient.MetricRefreshSuccess, Name: "authclient_refresh_success_total", Help: "Successful token refreshes."},
	{ID: authclient.MetricRefreshFailure, Name: "authclient_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: authclient.MetricRefreshCoalesced, Name: "authclient_refresh_coalesced_total", Help: "Refresh calls that piggybacked on an in-flight request."},
	{ID: authclient.MetricRetryAfterRefresh, Name: "authclient_retry_after_refresh_total", Help: "Application requests replayed after a 401-triggered refresh."},
	{ID: authclient.MetricLogout, Name: "authclient_logout_total", Help: "User-initiated logouts."},
	{ID: authclient.MetricForcedLogout, Name: "authclient_forced_logout_total", Help: "Logouts the client forced after expiry or rejection."},
	{ID: authclient.MetricBootstrapRestored, Name: "authclient_bootstrap_restored_total", Help: "Sessions restored from storage on startup."},
	{ID: authclient.MetricBootstrapCleared, Name: "authclient_bootstrap_cleared_total", Help: "Startups that found no usable session in storage."},
	{ID: authclient.MetricSessionWarning, Name: "authclient_session_warning_total", Help: "Idle warnings shown."},
	{ID: authclient.MetricSessionExpired, Name: "authclient_session_expired_total", Help: "Sessions expired through inactivity."},
	{ID: authclient.MetricRouteAllowed, Name: "authclient_route_allowed_total", Help: "Route-guard checks that allowed navigation."},
	{ID: authclient.MetricRouteDenied, Name: "authclient_route_denied_total", Help: "Route-guard checks that denied navigation."},
	{ID: authclient.MetricPasswordChanged, Name: "authclient_password_changed_total", Help: "Successful password changes."},
	{ID: authclient.MetricPasswordResetRequested, Name: "authclient_password_reset_requested_total", Help: "Forgot-password requests sent."},
	{ID: authclient.MetricPasswordResetConfirmed, Name: "authclient_password_reset_confirmed_total", Help: "Completed password resets."},
}
