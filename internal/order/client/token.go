package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/food-delivery/pkg/cache"
	"github.com/tair/food-delivery/pkg/logger"
)

const tokenCacheKey = "order-service:payment-access-token"

// TokenProvider supplies the bearer credential for payment-service calls.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// JWTTokenProvider issues short-lived service tokens and caches them until
// shortly before expiry. The shared secret mirrors the payment service's
// verification key; a dedicated issuer can replace this without touching the
// client.
type JWTTokenProvider struct {
	secret []byte
	ttl    time.Duration
	cache  cache.Cache
}

// NewJWTTokenProvider creates a token provider caching tokens in c.
func NewJWTTokenProvider(secret []byte, ttl time.Duration, c cache.Cache) *JWTTokenProvider {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTTokenProvider{secret: secret, ttl: ttl, cache: c}
}

func (p *JWTTokenProvider) AccessToken(ctx context.Context) (string, error) {
	token, err := p.cache.Get(ctx, tokenCacheKey)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		logger.Warn(ctx).Err(err).Msg("Token cache unavailable, issuing fresh token")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "order-service",
		"aud": "payment-service",
		"iat": now.Unix(),
		"exp": now.Add(p.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// Refresh a minute before expiry so in-flight requests never carry a
	// token about to lapse.
	cacheTTL := p.ttl - time.Minute
	if cacheTTL <= 0 {
		cacheTTL = p.ttl / 2
	}
	if err := p.cache.Set(ctx, tokenCacheKey, signed, cacheTTL); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to cache access token")
	}

	return signed, nil
}
