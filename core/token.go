package core

import "context"

// TokenStore persists bearer tokens under fixed keys.
// Get returns ErrTokenNotFound when nothing is stored under key; deleting a missing key is not an error.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}
