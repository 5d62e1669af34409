package schoolapi

import (
	"context"
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const requestIDHeader = "X-Request-ID"

type tokenCtxKey struct{}

// WithToken makes calls issued with the returned context authenticate with token
// instead of the stored one.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey{}).(string)
	return token, ok && token != ""
}

func (c *Client) requestID(req *http.Request) error {
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.New().String())
	}
	return nil
}

// bearerToken attaches the session token, if any. Requests without a usable token go out anonymously.
func (c *Client) bearerToken(req *http.Request) error {
	ctx := req.Context()
	token, ok := tokenFromContext(ctx)
	if !ok {
		if c.tokens == nil {
			return nil
		}
		var err error
		token, err = c.tokens.Get(ctx, c.tokenKey)
		switch {
		case errors.Is(err, core.ErrTokenNotFound):
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// an unreadable store is treated like an empty one
			c.logger.Warn("schoolapi: reading token", err)
			return nil
		}
		if TokenExpired(token) {
			c.logger.Debug("schoolapi: stored token expired")
			if err := c.tokens.Delete(ctx, c.tokenKey); err != nil {
				c.logger.Warn("schoolapi: deleting expired token", err)
			}
			return nil
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// unauthorized clears the stored session and notifies subscribers when the server answers 401.
func (c *Client) unauthorized(req *http.Request, resp *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return
	}
	if c.tokens != nil {
		if err := c.tokens.Delete(context.Background(), c.tokenKey); err != nil && !errors.Is(err, core.ErrTokenNotFound) {
			c.logger.Warn("schoolapi: deleting token", err)
		}
	}
	c.events.publish(AuthEvent{Kind: EventUnauthorized, Path: req.URL.Path})
}

// TokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked; opaque (non-JWT) tokens never expire client side.
func TokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(nowFunc().Unix(), false)
}

// IdentityFromToken reads the account claims of a JWT without verifying its signature.
func IdentityFromToken(token string) (core.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return core.Identity{}, errors.Wrap(err, "jwt.ParseUnverified()")
	}

	var id core.Identity
	if v, ok := claims["id"].(float64); ok {
		id.ID = int(v)
	}
	if id.ID == 0 {
		if sub, ok := claims["sub"].(float64); ok {
			id.ID = int(sub)
		}
	}
	id.Username, _ = claims["username"].(string)
	id.Email, _ = claims["email"].(string)
	id.Role, _ = claims["role"].(string)
	return id, nil
}
