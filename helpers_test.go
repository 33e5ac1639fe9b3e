package authclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// testUser is the account most tests sign in as.
var testUser = User{
	ID:       "u-17",
	Username: "nimal",
	FullName: "Nimal Perera",
	Role:     "CASHIER",
	BranchID: "b-2",
}

func signTestToken(t *testing.T, username, role string, ttl time.Duration) string {
	t.Helper()
	claims := gojwt.MapClaims{
		"sub":      "u-17",
		"username": username,
		"role":     role,
		// jti keeps same-second tokens distinct; HS256 signing is
		// deterministic, so identical claims yield identical tokens.
		"jti":      uuid.NewString(),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	_ = json.NewEncoder(w).Encode(envelope{Success: success, Message: msg, Data: raw})
}

// fakeBackend is an httptest server speaking the auth API.
type fakeBackend struct {
	srv *httptest.Server
	t   *testing.T

	loginCalls   atomic.Int32
	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
	meCalls      atomic.Int32

	// rejectRefresh makes /refresh answer 401.
	rejectRefresh atomic.Bool
	// refreshDelay stalls /refresh, for single-flight tests.
	refreshDelay time.Duration

	accessTTL time.Duration
	password  string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, accessTTL: 15 * time.Minute, password: "correct-horse"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", b.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", b.handleLogout)
	mux.HandleFunc("GET /api/auth/me", b.handleMe)
	mux.HandleFunc("GET /api/auth/validate", b.handleValidate)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.srv.URL }

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.loginCalls.Add(1)
	var creds Credentials
	_ = json.NewDecoder(r.Body).Decode(&creds)
	if creds.Username != testUser.Username || creds.Password != b.password {
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid username or password", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", loginResponse{
		User:         &testUser,
		AccessToken:  signTestToken(b.t, testUser.Username, testUser.Role, b.accessTTL),
		RefreshToken: "refresh-1",
	})
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	if b.refreshDelay > 0 {
		time.Sleep(b.refreshDelay)
	}
	if b.rejectRefresh.Load() {
		writeEnvelope(w, http.StatusUnauthorized, false, "Refresh token expired", nil)
		return
	}
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["refreshToken"] == "" {
		writeEnvelope(w, http.StatusBadRequest, false, "Missing refresh token", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", refreshResponse{
		AccessToken:  signTestToken(b.t, testUser.Username, testUser.Role, b.accessTTL),
		RefreshToken: "refresh-2",
	})
}

func (b *fakeBackend) handleLogout(w http.ResponseWriter, _ *http.Request) {
	b.logoutCalls.Add(1)
	writeEnvelope(w, http.StatusOK, true, "Logged out", struct{}{})
}

func (b *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.meCalls.Add(1)
	if r.Header.Get("Authorization") == "" {
		writeEnvelope(w, http.StatusUnauthorized, false, "Missing token", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", map[string]*User{"user": &testUser})
}

func (b *fakeBackend) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeEnvelope(w, http.StatusUnauthorized, false, "Missing token", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "", struct{}{})
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New().
		WithBaseURL(baseURL).
		WithLogger(lgr.Func(func(string, ...interface{}) {})).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
