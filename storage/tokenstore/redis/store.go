package redisstore

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const keyPrefix = "shule:token:"

type Store struct {
	client *redis.Client
}

var _ core.TokenStore = (*Store)(nil) // interface compliance check

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Open connects to redis and checks the connection.
func Open(ctx context.Context, conf *core.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return New(client), nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", core.ErrTokenNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "redis GET")
	}
	return token, nil
}

func (s *Store) Set(ctx context.Context, key, token string) error {
	if err := s.client.Set(ctx, keyPrefix+key, token, 0).Err(); err != nil {
		return errors.Wrap(err, "redis SET")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errors.Wrap(err, "redis DEL")
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
