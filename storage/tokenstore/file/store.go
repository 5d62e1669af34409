package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// Store keeps tokens in a JSON object file readable by its owner only.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ core.TokenStore = (*Store)(nil) // interface compliance check

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (map[string]string, error) {
	tokens := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, nil
		}
		return nil, errors.Wrap(err, "reading token file")
	}
	if len(data) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, errors.Wrap(err, "decoding token file")
	}
	return tokens, nil
}

func (s *Store) save(tokens map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "encoding token file")
	}

	// write then rename, so readers never see a partial file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replacing token file")
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return "", err
	}
	token, ok := tokens[key]
	if !ok {
		return "", core.ErrTokenNotFound
	}
	return token, nil
}

func (s *Store) Set(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return err
	}
	tokens[key] = token
	return s.save(tokens)
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := tokens[key]; !ok {
		return nil
	}
	delete(tokens, key)
	return s.save(tokens)
}
