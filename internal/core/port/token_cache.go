package port

import (
	"context"
	"time"
)

// TokenCache tracks token IDs the service has ruled on. Verified entries
// keep the admin re-check cheap under rapid navigation; revoked entries make
// logout stick for the rest of the token's lifetime, since the signature
// alone cannot tell a surrendered token from a live one.
type TokenCache interface {
	MarkVerified(ctx context.Context, jti string, ttl time.Duration) error
	IsVerified(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
