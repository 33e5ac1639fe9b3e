// Package session tracks one authenticated session's idle lifecycle as an
// explicit state machine: Inactive -> Active -> Warning -> Expired.
//
// A [Monitor] is started on login or restore and destroyed on any
// transition to unauthenticated; that pairing is owned by whoever starts
// it, never duplicated at call sites. User-activity events (pointer, key,
// scroll, delivered by the host UI via [Monitor.Touch]) re-arm the warning
// and expiry deadlines; both are always computed from the same
// last-activity instant, never drift-accumulated. Timers run through the
// [Clock] port so tests drive a fake clock instead of wall time.
package session
