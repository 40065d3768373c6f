// Package cache adds an optional short-lived verification cache in front of
// the identity provider to bound its load.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tinywideclouds/go-push-gateway/pkg/dispatch"
	"github.com/tinywideclouds/go-push-gateway/pkg/push"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns the value or a specific error if not found.
	Get(ctx context.Context, key string, dest interface{}) error
	// Set stores the value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CachedVerifier is a decorator that adds read-aside caching to any Verifier.
// Entries are keyed by token hash (never the raw token) and expire no later
// than the token itself. Only successful verifications are cached.
type CachedVerifier struct {
	realVerifier dispatch.Verifier
	cache        CacheClient
	ttl          time.Duration
	now          func() time.Time
}

func NewCachedVerifier(realVerifier dispatch.Verifier, cache CacheClient, ttl time.Duration) *CachedVerifier {
	return &CachedVerifier{
		realVerifier: realVerifier,
		cache:        cache,
		ttl:          ttl,
		now:          time.Now,
	}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (push.Identity, error) {
	key := v.cacheKey(token)

	// 1. Try cache. A hit is only trusted while the token itself is live.
	var cached push.Identity
	if err := v.cache.Get(ctx, key, &cached); err == nil && v.now().Before(cached.Expires) {
		return cached, nil
	}

	// 2. Fall back to the identity provider.
	id, err := v.realVerifier.Verify(ctx, token)
	if err != nil {
		return push.Identity{}, err
	}

	// 3. Populate cache (fire and forget). Caching is an optimization, not a
	// transaction: if Redis is down we just verify every request.
	if ttl := v.entryTTL(id); ttl > 0 {
		_ = v.cache.Set(ctx, key, id, ttl)
	}

	return id, nil
}

// entryTTL caps the configured TTL at the token's own remaining lifetime so
// a cache entry never outlives its credential.
func (v *CachedVerifier) entryTTL(id push.Identity) time.Duration {
	ttl := v.ttl
	if remaining := id.Expires.Sub(v.now()); remaining < ttl {
		ttl = remaining
	}
	return ttl
}

func (v *CachedVerifier) cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "push:auth:" + hex.EncodeToString(sum[:])
}
