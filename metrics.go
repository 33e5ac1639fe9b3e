package authclient

import "sync/atomic"

// MetricID indexes a lifecycle counter.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRejectedLocal
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshCoalesced
	MetricRetryAfterRefresh
	MetricLogout
	MetricForcedLogout
	MetricBootstrapRestored
	MetricBootstrapCleared
	MetricSessionWarning
	MetricSessionExpired
	MetricRouteAllowed
	MetricRouteDenied
	MetricPasswordChanged
	MetricPasswordResetRequested
	MetricPasswordResetConfirmed
	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:           "login_success",
	MetricLoginFailure:           "login_failure",
	MetricLoginRejectedLocal:     "login_rejected_local",
	MetricRefreshSuccess:         "refresh_success",
	MetricRefreshFailure:         "refresh_failure",
	MetricRefreshCoalesced:       "refresh_coalesced",
	MetricRetryAfterRefresh:      "retry_after_refresh",
	MetricLogout:                 "logout",
	MetricForcedLogout:           "forced_logout",
	MetricBootstrapRestored:      "bootstrap_restored",
	MetricBootstrapCleared:       "bootstrap_cleared",
	MetricSessionWarning:         "session_warning",
	MetricSessionExpired:         "session_expired",
	MetricRouteAllowed:           "route_allowed",
	MetricRouteDenied:            "route_denied",
	MetricPasswordChanged:        "password_changed",
	MetricPasswordResetRequested: "password_reset_requested",
	MetricPasswordResetConfirmed: "password_reset_confirmed",
}

// Name returns the stable snake_case identifier used by exporters.
func (id MetricID) Name() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

// MetricIDs lists every counter in declaration order, for exporters.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricIDCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// MetricsSnapshot copies the client's counters, satisfying the source
// interface of the exporter packages.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	return c.metrics.Snapshot()
}

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed array of atomic counters, padded to avoid false
// sharing on the login/refresh hot paths. A nil or disabled Metrics is a
// no-op on every method.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics builds the counter set. Disabled metrics keep working as
// no-ops so call sites never branch.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter. Counters are read individually, so a
// snapshot taken under concurrent writes is per-counter consistent.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
