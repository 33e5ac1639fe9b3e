package authclient

import (
	"context"
	"testing"

	"github.com/medlan/authclient/session"
)

func TestLogoutClearsEverything(t *testing.T) {
	backend := newFakeBackend(t)
	c := newTestClient(t, backend.URL())
	loginHelper(t, c)

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	st := c.State()
	if st.IsAuthenticated || st.User != nil || st.Token != "" {
		t.Fatalf("state not cleared: %+v", st)
	}
	if st.Err != nil {
		t.Fatalf("voluntary logout left error %v", st.Err)
	}
	if access, _ := c.store.AccessToken(context.Background()); access != "" {
		t.Fatal("access token survived logout")
	}
	if refresh, _ := c.store.RefreshToken(context.Background()); refresh != "" {
		t.Fatal("refresh token survived logout")
	}
	if c.SessionState() != session.StateInactive {
		t.Fatalf("idle tracker still %v after logout", c.SessionState())
	}
	if calls := backend.logoutCalls.Load(); calls != 1 {
		t.Fatalf("server saw %d logout calls, want 1", calls)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	backend := newFakeBackend(t)
	c := newTestClient(t, backend.URL())
	loginHelper(t, c)

	for i := 0; i < 3; i++ {
		if err := c.Logout(context.Background()); err != nil {
			t.Fatalf("logout #%d: %v", i+1, err)
		}
	}
	if calls := backend.logoutCalls.Load(); calls != 1 {
		t.Fatalf("server saw %d logout calls, want 1", calls)
	}
	if got := c.metrics.Value(MetricLogout); got != 1 {
		t.Fatalf("logout counter = %d, want 1", got)
	}
}

func TestLogoutSucceedsWhenServerUnreachable(t *testing.T) {
	backend := newFakeBackend(t)
	c := newTestClient(t, backend.URL())
	loginHelper(t, c)
	backend.srv.Close()

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout with dead server: %v", err)
	}
	if c.State().IsAuthenticated {
		t.Fatal("still authenticated after local logout")
	}
	if access, _ := c.store.AccessToken(context.Background()); access != "" {
		t.Fatal("storage survived local logout")
	}
}

func TestLogoutWhileSignedOutIsNoop(t *testing.T) {
	backend := newFakeBackend(t)
	c := newTestClient(t, backend.URL())

	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("logout while signed out: %v", err)
	}
	if calls := backend.logoutCalls.Load(); calls != 0 {
		t.Fatalf("server saw %d logout calls, want 0", calls)
	}
}
