package tokenstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	filestore "github.com/trezcool/shule/storage/tokenstore/file"
	inmemstore "github.com/trezcool/shule/storage/tokenstore/inmem"
	redisstore "github.com/trezcool/shule/storage/tokenstore/redis"
)

// Open returns the token store selected by conf.Auth.Store.
func Open(ctx context.Context, conf *core.Config) (core.TokenStore, error) {
	switch conf.Auth.Store {
	case "memory":
		return inmemstore.New(), nil
	case "", "file":
		return filestore.New(conf.Auth.TokenFile), nil
	case "redis":
		return redisstore.Open(ctx, conf)
	default:
		return nil, errors.Errorf("unknown token store %q", conf.Auth.Store)
	}
}
