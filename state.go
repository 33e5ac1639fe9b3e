package authclient

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
)

// Event topics published by the client. Handlers subscribed through
// [Client.OnStateChange] and friends run synchronously on the publishing
// goroutine, so state notifications are observed in transition order.
const (
	TopicStateChanged   = "auth.state.changed"
	TopicSessionWarning = "auth.session.warning"
	TopicSessionExpired = "auth.session.expired"
	TopicForcedLogout   = "auth.logout.forced"
)

// stateStore serializes AuthState transitions and publishes each new
// snapshot on the bus. All mutators copy-on-write: subscribers and
// Snapshot callers only ever see complete states.
type stateStore struct {
	mu    sync.RWMutex
	state AuthState
	bus   EventBus.Bus
}

func newStateStore(bus EventBus.Bus) *stateStore {
	if bus == nil {
		bus = EventBus.New()
	}
	return &stateStore{bus: bus}
}

// snapshot returns a copy of the current state.
func (s *stateStore) snapshot() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// mutate applies fn to the state under the write lock and publishes the
// result. fn must not block.
func (s *stateStore) mutate(fn func(*AuthState)) AuthState {
	s.mu.Lock()
	fn(&s.state)
	next := s.state
	s.mu.Unlock()

	s.bus.Publish(TopicStateChanged, next)
	return next
}

func (s *stateStore) setLoading(loading bool) {
	s.mutate(func(st *AuthState) {
		st.IsLoading = loading
	})
}

// setAuthenticated installs a signed-in state and clears any prior error.
func (s *stateStore) setAuthenticated(u *User, accessToken string, branch *Branch) {
	s.mutate(func(st *AuthState) {
		st.User = u
		st.Token = accessToken
		st.IsAuthenticated = true
		st.IsLoading = false
		st.Err = nil
		st.SelectedBranch = branch
	})
}

// setToken swaps the access token in place after a refresh. User identity
// and branch selection survive.
func (s *stateStore) setToken(accessToken string) {
	s.mutate(func(st *AuthState) {
		st.Token = accessToken
	})
}

func (s *stateStore) setUser(u *User) {
	s.mutate(func(st *AuthState) {
		st.User = u
	})
}

func (s *stateStore) setBranch(b *Branch) {
	s.mutate(func(st *AuthState) {
		st.SelectedBranch = b
	})
}

func (s *stateStore) setError(err error) {
	s.mutate(func(st *AuthState) {
		st.Err = err
		st.IsLoading = false
	})
}

// clearAuth resets to the signed-out state. err, when non-nil, is carried
// so the login screen can explain why the user landed there.
func (s *stateStore) clearAuth(err error) {
	s.mutate(func(st *AuthState) {
		*st = AuthState{Err: err}
	})
}

// OnStateChange subscribes fn to every auth-state transition. fn runs
// synchronously on the goroutine that caused the transition.
func (c *Client) OnStateChange(fn func(AuthState)) error {
	return c.bus.Subscribe(TopicStateChanged, fn)
}

// OnSessionWarning subscribes fn to idle-warning events, which carry the
// time remaining until expiry.
func (c *Client) OnSessionWarning(fn func(remaining time.Duration)) error {
	return c.bus.Subscribe(TopicSessionWarning, fn)
}

// OnSessionExpired subscribes fn to idle-expiry events.
func (c *Client) OnSessionExpired(fn func()) error {
	return c.bus.Subscribe(TopicSessionExpired, fn)
}

// OnForcedLogout subscribes fn to logouts the client initiated itself,
// e.g. an unrecoverable 401. The argument is the triggering error.
func (c *Client) OnForcedLogout(fn func(err error)) error {
	return c.bus.Subscribe(TopicForcedLogout, fn)
}
