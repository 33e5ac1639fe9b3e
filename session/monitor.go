package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the monitor's lifecycle position.
type State uint8

const (
	StateInactive State = iota
	StateActive
	StateWarning
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	}
	return "unknown"
}

// Defaults mirror the production web client: half an hour of idleness ends
// the session, with a five minute warning, and even a continuously active
// session must re-authenticate after twelve hours.
const (
	DefaultIdleTimeout        = 30 * time.Minute
	DefaultWarningLead        = 5 * time.Minute
	DefaultMaxSessionDuration = 12 * time.Hour
)

// ErrAlreadyStarted is returned by Start on a monitor that is not Inactive.
var ErrAlreadyStarted = errors.New("session monitor already started")

// Config holds the idle-tracking deadlines.
type Config struct {
	// IdleTimeout is the inactivity duration after which the session expires.
	IdleTimeout time.Duration
	// WarningLead is how long before expiry the warning callback fires.
	// It must be smaller than IdleTimeout; an oversized lead is clamped
	// to zero so the warning coincides with expiry instead of preceding
	// the session itself.
	WarningLead time.Duration
	// MaxSessionDuration caps total session length regardless of activity.
	MaxSessionDuration time.Duration
}

// Normalize fills zero fields with defaults and clamps WarningLead.
func (c Config) Normalize() Config {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.WarningLead <= 0 {
		c.WarningLead = DefaultWarningLead
	}
	if c.MaxSessionDuration <= 0 {
		c.MaxSessionDuration = DefaultMaxSessionDuration
	}
	if c.WarningLead >= c.IdleTimeout {
		c.WarningLead = 0
	}
	return c
}

// Callbacks are invoked on deadline transitions. They run on timer
// goroutines; implementations must be safe to call from there.
type Callbacks struct {
	OnWarning func()
	OnExpired func()
}

// Monitor is the idle/expiry state machine for a single authenticated
// session. All methods are safe for concurrent use.
type Monitor struct {
	cfg   Config
	clock Clock

	mu           sync.Mutex
	state        State
	id           string
	startedAt    time.Time
	lastActivity time.Time
	cb           Callbacks
	warnTimer    Timer
	expireTimer  Timer
	// gen invalidates timer callbacks scheduled before the most recent
	// re-arm or destroy, making activity resets last-write-wins.
	gen uint64
}

// New creates an idle monitor. A nil clock selects the system clock.
func New(cfg Config, clock Clock) *Monitor {
	if clock == nil {
		clock = SystemClock()
	}
	return &Monitor{cfg: cfg.Normalize(), clock: clock}
}

// Start transitions Inactive -> Active, records the session start, assigns
// a session ID, and arms the warning and expiry deadlines.
func (m *Monitor) Start(cb Callbacks) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateInactive {
		return ErrAlreadyStarted
	}

	now := m.clock.Now()
	m.state = StateActive
	m.id = uuid.NewString()
	m.startedAt = now
	m.lastActivity = now
	m.cb = cb
	m.armLocked()
	return nil
}

// Touch records a user-activity event. While Active or Warning it resets
// the last-activity instant and re-arms both deadlines, returning the
// machine to Active. In any other state it is a no-op.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive && m.state != StateWarning {
		return
	}
	now := m.clock.Now()
	m.state = StateActive
	m.lastActivity = now
	m.armLocked()
}

// Extend is the explicit form of Touch, for "stay signed in" actions on
// the warning prompt.
func (m *Monitor) Extend() { m.Touch() }

// armLocked cancels pending deadlines and schedules fresh ones, both
// computed from the same last-activity instant. Callers hold m.mu.
func (m *Monitor) armLocked() {
	m.cancelTimersLocked()
	m.gen++
	gen := m.gen

	warnIn := m.cfg.IdleTimeout - m.cfg.WarningLead
	m.warnTimer = m.clock.AfterFunc(warnIn, func() { m.onWarning(gen) })
	m.expireTimer = m.clock.AfterFunc(m.cfg.IdleTimeout, func() { m.onExpired(gen) })
}

func (m *Monitor) cancelTimersLocked() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.expireTimer != nil {
		m.expireTimer.Stop()
		m.expireTimer = nil
	}
}

func (m *Monitor) onWarning(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StateWarning
	fn := m.cb.OnWarning
	m.mu.Unlock()

	// The pre-armed expiry deadline stays live; no new timers here.
	if fn != nil {
		fn()
	}
}

func (m *Monitor) onExpired(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || (m.state != StateActive && m.state != StateWarning) {
		m.mu.Unlock()
		return
	}
	m.state = StateExpired
	fn := m.cb.OnExpired
	m.destroyLocked()
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// IsValid reports whether the session is live: Active or Warning, and
// still inside the hard max-duration cap. The cap holds even under
// continuous activity, forcing periodic re-authentication.
func (m *Monitor) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive && m.state != StateWarning {
		return false
	}
	return m.clock.Now().Sub(m.startedAt) < m.cfg.MaxSessionDuration
}

// TimeUntilIdleExpiry returns how long until the idle deadline given no
// further activity, floored at zero.
func (m *Monitor) TimeUntilIdleExpiry() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive && m.state != StateWarning {
		return 0
	}
	remaining := m.cfg.IdleTimeout - m.clock.Now().Sub(m.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Duration returns how long the session has been running, zero when never
// started.
func (m *Monitor) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startedAt.IsZero() {
		return 0
	}
	return m.clock.Now().Sub(m.startedAt)
}

// CurrentState returns the machine's state.
func (m *Monitor) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ID returns the session identifier assigned at Start, "" before then.
func (m *Monitor) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// Destroy cancels all timers and detaches callbacks. Idempotent and safe
// from any state, including after the monitor destroyed itself on expiry.
// An Expired state stays observable; every other state resets to Inactive.
func (m *Monitor) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateExpired {
		m.state = StateInactive
	}
	m.destroyLocked()
}

// destroyLocked assumes m.mu is held and leaves m.state untouched.
func (m *Monitor) destroyLocked() {
	m.cancelTimersLocked()
	m.gen++
	m.cb = Callbacks{}
	m.startedAt = time.Time{}
	m.lastActivity = time.Time{}
}
