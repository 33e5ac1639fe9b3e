package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock drives deadlines manually. Advance fires due timers outside the
// clock lock so callbacks may schedule or cancel timers reentrantly.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward, firing timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.fired = true
		fn := next.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func testConfig() Config {
	return Config{
		IdleTimeout:        1000 * time.Millisecond,
		WarningLead:        200 * time.Millisecond,
		MaxSessionDuration: time.Hour,
	}
}

func TestIdleTimeoutFiresWarningThenExpiry(t *testing.T) {
	clock := newFakeClock()
	m := New(testConfig(), clock)

	var warned, expired atomic.Int32
	if err := m.Start(Callbacks{
		OnWarning: func() { warned.Add(1) },
		OnExpired: func() { expired.Add(1) },
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.CurrentState() != StateActive {
		t.Fatalf("state = %v, want active", m.CurrentState())
	}
	if m.ID() == "" {
		t.Fatal("no session id assigned")
	}

	clock.Advance(799 * time.Millisecond)
	if warned.Load() != 0 {
		t.Fatal("warning fired before its deadline")
	}

	clock.Advance(1 * time.Millisecond) // t=800ms
	if warned.Load() != 1 {
		t.Fatalf("warned = %d at t=800ms, want 1", warned.Load())
	}
	if m.CurrentState() != StateWarning {
		t.Fatalf("state = %v, want warning", m.CurrentState())
	}
	if expired.Load() != 0 {
		t.Fatal("expired before idle deadline")
	}

	clock.Advance(200 * time.Millisecond) // t=1000ms
	if expired.Load() != 1 {
		t.Fatalf("expired = %d at t=1000ms, want 1", expired.Load())
	}
	if m.CurrentState() != StateExpired {
		t.Fatalf("state = %v, want expired", m.CurrentState())
	}
	if m.IsValid() {
		t.Fatal("session still valid after expiry")
	}
}

func TestActivityResetsDeadlines(t *testing.T) {
	clock := newFakeClock()
	m := New(testConfig(), clock)

	var warned, expired atomic.Int32
	_ = m.Start(Callbacks{
		OnWarning: func() { warned.Add(1) },
		OnExpired: func() { expired.Add(1) },
	})

	// Activity at t=900ms arrives after the warning; it must return the
	// machine to Active and push both deadlines out.
	clock.Advance(900 * time.Millisecond)
	if warned.Load() != 1 {
		t.Fatalf("warned = %d at t=900ms, want 1", warned.Load())
	}
	m.Touch()
	if m.CurrentState() != StateActive {
		t.Fatalf("state after activity = %v, want active", m.CurrentState())
	}

	clock.Advance(799 * time.Millisecond) // t=1699ms
	if warned.Load() != 1 {
		t.Fatal("stale warning timer fired after reset")
	}
	clock.Advance(1 * time.Millisecond) // t=1700ms
	if warned.Load() != 2 {
		t.Fatalf("warned = %d at t=1700ms, want 2", warned.Load())
	}

	clock.Advance(199 * time.Millisecond) // t=1899ms
	if expired.Load() != 0 {
		t.Fatal("expired before delayed deadline")
	}
	clock.Advance(1 * time.Millisecond) // t=1900ms
	if expired.Load() != 1 {
		t.Fatalf("expired = %d at t=1900ms, want 1", expired.Load())
	}
}

func TestMaxSessionDurationCapsValidity(t *testing.T) {
	clock := newFakeClock()
	cfg := testConfig()
	cfg.MaxSessionDuration = 5 * time.Second
	m := New(cfg, clock)
	_ = m.Start(Callbacks{})

	for i := 0; i < 10; i++ {
		clock.Advance(500 * time.Millisecond)
		m.Touch()
	}
	// Continuously active, but 5s of total session time have elapsed.
	if m.IsValid() {
		t.Fatal("session valid past max duration despite activity")
	}
	if m.CurrentState() != StateActive {
		t.Fatalf("state = %v; cap invalidates without expiring the machine", m.CurrentState())
	}
}

func TestDestroyIsIdempotentFromAnyState(t *testing.T) {
	clock := newFakeClock()
	m := New(testConfig(), clock)

	m.Destroy() // never started
	if m.CurrentState() != StateInactive {
		t.Fatalf("state = %v, want inactive", m.CurrentState())
	}

	_ = m.Start(Callbacks{})
	m.Destroy()
	m.Destroy()
	if m.IsValid() {
		t.Fatal("destroyed session reported valid")
	}

	// Pending timers must not fire after destroy.
	var expired atomic.Int32
	m2 := New(testConfig(), clock)
	_ = m2.Start(Callbacks{OnExpired: func() { expired.Add(1) }})
	m2.Destroy()
	clock.Advance(2 * time.Second)
	if expired.Load() != 0 {
		t.Fatal("expiry callback fired after destroy")
	}

	// Self-destroyed on expiry; destroying again is safe and preserves
	// the terminal state.
	m3 := New(testConfig(), clock)
	_ = m3.Start(Callbacks{})
	clock.Advance(2 * time.Second)
	if m3.CurrentState() != StateExpired {
		t.Fatalf("state = %v, want expired", m3.CurrentState())
	}
	m3.Destroy()
	if m3.CurrentState() != StateExpired {
		t.Fatal("destroy erased the expired state")
	}
}

func TestStartTwiceFails(t *testing.T) {
	m := New(testConfig(), newFakeClock())
	if err := m.Start(Callbacks{}); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := m.Start(Callbacks{}); err != ErrAlreadyStarted {
		t.Fatalf("second start err = %v, want ErrAlreadyStarted", err)
	}
}

func TestTimeUntilIdleExpiry(t *testing.T) {
	clock := newFakeClock()
	m := New(testConfig(), clock)
	_ = m.Start(Callbacks{})

	if got := m.TimeUntilIdleExpiry(); got != 1000*time.Millisecond {
		t.Fatalf("remaining = %v, want 1s", got)
	}
	clock.Advance(400 * time.Millisecond)
	if got := m.TimeUntilIdleExpiry(); got != 600*time.Millisecond {
		t.Fatalf("remaining = %v, want 600ms", got)
	}
	m.Destroy()
	if got := m.TimeUntilIdleExpiry(); got != 0 {
		t.Fatalf("remaining after destroy = %v, want 0", got)
	}
}

func TestOversizedWarningLeadClamps(t *testing.T) {
	cfg := Config{
		IdleTimeout:        time.Second,
		WarningLead:        5 * time.Second,
		MaxSessionDuration: time.Hour,
	}.Normalize()
	if cfg.WarningLead != 0 {
		t.Fatalf("warning lead = %v, want clamped to 0", cfg.WarningLead)
	}

	// With a zero lead the warning and expiry deadlines coincide.
	clock := newFakeClock()
	m := New(cfg, clock)
	var order []string
	var mu sync.Mutex
	_ = m.Start(Callbacks{
		OnWarning: func() { mu.Lock(); order = append(order, "warning"); mu.Unlock() },
		OnExpired: func() { mu.Lock(); order = append(order, "expired"); mu.Unlock() },
	})
	clock.Advance(time.Second)
	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "warning" || order[1] != "expired" {
		t.Fatalf("callback order = %v, want [warning expired]", order)
	}
}

func TestDurationTracksClock(t *testing.T) {
	clock := newFakeClock()
	m := New(testConfig(), clock)
	if m.Duration() != 0 {
		t.Fatal("duration nonzero before start")
	}
	_ = m.Start(Callbacks{})
	clock.Advance(750 * time.Millisecond)
	if got := m.Duration(); got != 750*time.Millisecond {
		t.Fatalf("duration = %v, want 750ms", got)
	}
}
