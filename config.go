package authclient

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/medlan/authclient/jwt"
	"github.com/medlan/authclient/session"
	"github.com/medlan/authclient/token"
)

// Config collects every tunable of the client. Zero values are filled from
// defaultConfig by Build; the struct is treated as immutable afterwards.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.example.com". Auth
	// endpoints are resolved beneath BaseURL + "/api/auth".
	BaseURL string

	Transport TransportConfig
	JWT       JWTConfig
	Session   session.Config
	Storage   token.Config
	Metrics   MetricsConfig
}

// TransportConfig tunes the HTTP layer.
type TransportConfig struct {
	// Timeout bounds each request, refresh retries included.
	Timeout time.Duration
	// AuthPrefix is the path prefix of the auth endpoints.
	AuthPrefix string
}

// JWTConfig tunes client-side claim inspection. Neither field affects what
// the server accepts.
type JWTConfig struct {
	// ExpiryBuffer widens the local expiry check so a token is treated as
	// expired slightly before its exp claim.
	ExpiryBuffer time.Duration
	// ExpiringSoonThreshold is the window in which proactive refresh kicks in.
	ExpiringSoonThreshold time.Duration
}

// MetricsConfig enables lifecycle counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Transport: TransportConfig{
			Timeout:    30 * time.Second,
			AuthPrefix: "/api/auth",
		},
		JWT: JWTConfig{
			ExpiryBuffer:          jwt.DefaultExpiryBuffer,
			ExpiringSoonThreshold: jwt.DefaultExpiringSoonThreshold,
		},
		Session: session.Config{
			IdleTimeout:        session.DefaultIdleTimeout,
			WarningLead:        session.DefaultWarningLead,
			MaxSessionDuration: session.DefaultMaxSessionDuration,
		},
		Storage: token.Config{
			Driver: token.DriverMemory,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate rejects configurations Build cannot work with.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("BaseURL must be an absolute URL")
	}
	if c.Transport.Timeout < 0 {
		return errors.New("Transport.Timeout must not be negative")
	}
	if c.Transport.AuthPrefix != "" && !strings.HasPrefix(c.Transport.AuthPrefix, "/") {
		return errors.New("Transport.AuthPrefix must start with /")
	}
	if c.JWT.ExpiryBuffer < 0 || c.JWT.ExpiringSoonThreshold < 0 {
		return errors.New("JWT durations must not be negative")
	}
	if c.Storage.Driver == token.DriverRedis && c.Storage.Redis == nil {
		return errors.New("Storage.Driver redis requires a redis client")
	}
	return nil
}

// normalize fills zero fields with defaults. BaseURL keeps no trailing
// slash so endpoint joining stays predictable.
func (c Config) normalize() Config {
	def := defaultConfig()
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Transport.Timeout == 0 {
		c.Transport.Timeout = def.Transport.Timeout
	}
	if c.Transport.AuthPrefix == "" {
		c.Transport.AuthPrefix = def.Transport.AuthPrefix
	}
	if c.JWT.ExpiryBuffer == 0 {
		c.JWT.ExpiryBuffer = def.JWT.ExpiryBuffer
	}
	if c.JWT.ExpiringSoonThreshold == 0 {
		c.JWT.ExpiringSoonThreshold = def.JWT.ExpiringSoonThreshold
	}
	c.Session = c.Session.Normalize()
	if c.Storage.Driver == "" {
		c.Storage.Driver = token.DriverMemory
	}
	return c
}
