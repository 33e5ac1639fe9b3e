package token

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Driver identifiers supported by the factory.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config selects and parameterizes a storage driver.
type Config struct {
	// Driver picks the backend; empty means memory.
	Driver string
	// Namespace prefixes every Redis key. Ignored by the memory driver.
	Namespace string
	// Redis is required when Driver is "redis".
	Redis *redis.Client
}

// New creates a Store from the configuration.
func New(cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return NewRedis(cfg.Redis, cfg.Namespace)
	default:
		return nil, fmt.Errorf("unsupported token store driver: %s", driver)
	}
}
