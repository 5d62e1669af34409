package inmemstore

import (
	"context"
	"sync"

	"github.com/trezcool/shule/core"
)

type Store struct {
	sync.RWMutex
	tokens map[string]string
}

var _ core.TokenStore = (*Store)(nil) // interface compliance check

func New() *Store {
	return &Store{tokens: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.RLock()
	defer s.RUnlock()

	token, ok := s.tokens[key]
	if !ok {
		return "", core.ErrTokenNotFound
	}
	return token, nil
}

func (s *Store) Set(_ context.Context, key, token string) error {
	s.Lock()
	defer s.Unlock()

	s.tokens[key] = token
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.tokens, key)
	return nil
}
