package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
)

const defaultTokenCachePrefix = "novachat:verified_token"

// One key per token ID; the value says which verdict it carries. A revocation
// overwrites the verified marker, never the other way around.
const (
	stateVerified = "1"
	stateRevoked  = "revoked"
)

// TokenCacheRepository remembers token IDs the service has ruled on: recently
// verified ones so admin re-verification stays cheap, revoked ones so a
// logged-out token fails verification until it expires.
type TokenCacheRepository struct {
	client *red.Client
	prefix string
}

// NewTokenCacheRepository constructs a verified-token cache helper.
func NewTokenCacheRepository(client *red.Client, keyPrefix string) *TokenCacheRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultTokenCachePrefix
	}

	return &TokenCacheRepository{client: client, prefix: prefix}
}

// MarkVerified records the token ID as verified for the provided TTL.
func (r *TokenCacheRepository) MarkVerified(ctx context.Context, jti string, ttl time.Duration) error {
	key := r.key(jti)
	if key == "" {
		return fmt.Errorf("token id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	// SETNX-free refresh would resurrect a revoked entry; guard on the
	// current value instead.
	current, err := r.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, red.Nil) {
		return fmt.Errorf("redis get token state: %w", err)
	}
	if current == stateRevoked {
		return nil
	}

	if err := r.client.Set(ctx, key, stateVerified, ttl).Err(); err != nil {
		return fmt.Errorf("redis set verified token: %w", err)
	}

	return nil
}

// IsVerified reports whether the token ID was recently verified.
func (r *TokenCacheRepository) IsVerified(ctx context.Context, jti string) (bool, error) {
	state, err := r.state(ctx, jti)
	if err != nil {
		return false, err
	}
	return state == stateVerified, nil
}

// Revoke writes a tombstone for the token ID. The TTL should cover the
// token's remaining lifetime; after that the token is dead on its own.
func (r *TokenCacheRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	key := r.key(jti)
	if key == "" {
		return fmt.Errorf("token id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	if err := r.client.Set(ctx, key, stateRevoked, ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token ID carries a revocation tombstone.
func (r *TokenCacheRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	state, err := r.state(ctx, jti)
	if err != nil {
		return false, err
	}
	return state == stateRevoked, nil
}

func (r *TokenCacheRepository) state(ctx context.Context, jti string) (string, error) {
	key := r.key(jti)
	if key == "" {
		return "", fmt.Errorf("token id is required")
	}

	state, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get token state: %w", err)
	}

	return state, nil
}

func (r *TokenCacheRepository) key(jti string) string {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return ""
	}
	return r.prefix + ":" + jti
}

var _ port.TokenCache = (*TokenCacheRepository)(nil)
