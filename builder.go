package authclient

import (
	"errors"
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"

	"github.com/medlan/authclient/jwt"
	"github.com/medlan/authclient/permission"
	"github.com/medlan/authclient/session"
	"github.com/medlan/authclient/token"
)

// Builder assembles a [Client]. Configure it during initialization and
// call Build exactly once.
type Builder struct {
	config Config

	httpClient Doer
	store      token.Store
	clock      session.Clock
	log        lgr.L
	bus        EventBus.Bus

	built bool
}

// New starts a builder with default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the API origin.
func (b *Builder) WithBaseURL(u string) *Builder {
	b.config.BaseURL = u
	return b
}

// WithHTTPClient substitutes the HTTP client used for auth requests.
// Defaults to an *http.Client with the configured timeout.
func (b *Builder) WithHTTPClient(d Doer) *Builder {
	b.httpClient = d
	return b
}

// WithRedis selects the Redis token-store driver backed by client.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.config.Storage.Driver = token.DriverRedis
	b.config.Storage.Redis = client
	return b
}

// WithTokenStore substitutes a pre-built storage backend, bypassing the
// driver factory.
func (b *Builder) WithTokenStore(s token.Store) *Builder {
	b.store = s
	return b
}

// WithLogger substitutes the logger. Defaults to lgr's standard logger.
func (b *Builder) WithLogger(l lgr.L) *Builder {
	b.log = l
	return b
}

// WithClock substitutes the time source for the idle tracker. Tests use
// this to drive deadlines manually.
func (b *Builder) WithClock(clk session.Clock) *Builder {
	b.clock = clk
	return b
}

// WithEventBus substitutes the notification bus, letting the application
// share one bus across subsystems.
func (b *Builder) WithEventBus(bus EventBus.Bus) *Builder {
	b.bus = bus
	return b
}

// WithMetricsEnabled toggles lifecycle counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and assembles the client. The client
// starts signed out; call [Client.InitializeFromStorage] to restore a
// persisted session.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		var err error
		store, err = token.New(cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Transport.Timeout}
	}

	log := b.log
	if log == nil {
		log = lgr.Default()
	}

	bus := b.bus
	if bus == nil {
		bus = EventBus.New()
	}

	c := &Client{
		cfg:     cfg,
		http:    httpClient,
		store:   store,
		state:   newStateStore(bus),
		bus:     bus,
		engine:  permission.NewEngine(),
		inspect: jwt.NewInspector(cfg.JWT.ExpiryBuffer, cfg.JWT.ExpiringSoonThreshold),
		clock:   b.clock,
		log:     log,
		metrics: NewMetrics(cfg.Metrics),
	}

	b.built = true
	return c, nil
}
