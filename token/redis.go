package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis builds a Redis-backed Store. The namespace prefix keeps one
// Redis database shareable between app instances; keys live under
// "<namespace>:<key>". Tokens are stored without TTL; their lifetime is
// governed by the JWT exp claim and explicit ClearAll, matching the
// browser-storage semantics this store replaces.
func NewRedis(client *redis.Client, namespace string) (Store, error) {
	if client == nil {
		return nil, errors.New("redis driver requires a client")
	}
	if namespace == "" {
		namespace = "authclient"
	}
	return &redisStore{client: client, prefix: namespace}, nil
}

func (s *redisStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *redisStore) get(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

func (s *redisStore) set(ctx context.Context, name, value string) error {
	var err error
	if value == "" {
		err = s.client.Del(ctx, s.key(name)).Err()
	} else {
		err = s.client.Set(ctx, s.key(name), value, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *redisStore) AccessToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyAccessToken)
}

func (s *redisStore) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, keyAccessToken, token)
}

func (s *redisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.get(ctx, keyRefreshToken)
}

func (s *redisStore) SetRefreshToken(ctx context.Context, token string) error {
	return s.set(ctx, keyRefreshToken, token)
}

func (s *redisStore) SetTokenPair(ctx context.Context, access, refresh string) error {
	// MSET is a single command, so the pair replacement is atomic with
	// respect to concurrent readers.
	err := s.client.MSet(ctx,
		s.key(keyAccessToken), access,
		s.key(keyRefreshToken), refresh,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *redisStore) User(ctx context.Context) (*User, error) {
	raw, err := s.get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

func (s *redisStore) SetUser(ctx context.Context, user *User) error {
	if user == nil {
		return s.set(ctx, keyUser, "")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.set(ctx, keyUser, string(raw))
}

func (s *redisStore) SelectedBranch(ctx context.Context) (*Branch, error) {
	raw, err := s.get(ctx, keySelectedBranch)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var b Branch
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, nil
	}
	return &b, nil
}

func (s *redisStore) SetSelectedBranch(ctx context.Context, branch *Branch) error {
	if branch == nil {
		return s.set(ctx, keySelectedBranch, "")
	}
	raw, err := json.Marshal(branch)
	if err != nil {
		return err
	}
	return s.set(ctx, keySelectedBranch, string(raw))
}

func (s *redisStore) ClearAll(ctx context.Context) error {
	// A single DEL covering all four keys is atomic in Redis; no caller
	// can observe a partially cleared store.
	err := s.client.Del(ctx,
		s.key(keyAccessToken),
		s.key(keyRefreshToken),
		s.key(keyUser),
		s.key(keySelectedBranch),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *redisStore) Close() error { return s.client.Close() }
