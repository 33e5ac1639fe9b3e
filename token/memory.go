package token

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory builds an in-memory Store. It backs tests and short-lived
// processes that do not need reload survival.
func NewMemory() Store {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *memoryStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

func (s *memoryStore) AccessToken(_ context.Context) (string, error) {
	return s.get(keyAccessToken), nil
}

func (s *memoryStore) SetAccessToken(_ context.Context, token string) error {
	s.set(keyAccessToken, token)
	return nil
}

func (s *memoryStore) RefreshToken(_ context.Context) (string, error) {
	return s.get(keyRefreshToken), nil
}

func (s *memoryStore) SetRefreshToken(_ context.Context, token string) error {
	s.set(keyRefreshToken, token)
	return nil
}

func (s *memoryStore) SetTokenPair(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyAccessToken] = access
	s.values[keyRefreshToken] = refresh
	return nil
}

func (s *memoryStore) User(_ context.Context) (*User, error) {
	raw := s.get(keyUser)
	if raw == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// Corrupt cache entry; treat as absent.
		return nil, nil
	}
	return &u, nil
}

func (s *memoryStore) SetUser(_ context.Context, user *User) error {
	if user == nil {
		s.set(keyUser, "")
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.set(keyUser, string(raw))
	return nil
}

func (s *memoryStore) SelectedBranch(_ context.Context) (*Branch, error) {
	raw := s.get(keySelectedBranch)
	if raw == "" {
		return nil, nil
	}
	var b Branch
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, nil
	}
	return &b, nil
}

func (s *memoryStore) SetSelectedBranch(_ context.Context, branch *Branch) error {
	if branch == nil {
		s.set(keySelectedBranch, "")
		return nil
	}
	raw, err := json.Marshal(branch)
	if err != nil {
		return err
	}
	s.set(keySelectedBranch, string(raw))
	return nil
}

func (s *memoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUser, keySelectedBranch} {
		delete(s.values, key)
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }
