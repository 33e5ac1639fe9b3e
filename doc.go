// Package authclient manages the browser-side authentication lifecycle for
// the pharmacy management frontend: token persistence, reactive auth state,
// single-flight refresh, idle-session tracking, and role/permission gating.
//
// The package is the client counterpart of a JWT backend. It never verifies
// token signatures; decoded claims drive UX decisions only, and the server
// remains the authority on every request.
//
// # Architecture boundaries
//
// authclient is the public surface. It exposes [Client], [Builder], [Config],
// and value types (AuthState, GuardResult, MetricsSnapshot). Token storage,
// claim inspection, RBAC tables, and idle tracking live in the token, jwt,
// permission, and session sub-packages.
//
// # Concurrency contract
//
// Client methods are safe to call from multiple goroutines after
// [Builder.Build]. Concurrent Refresh calls collapse into one network
// request; state transitions are serialized and published in order through
// the event bus.
package authclient
