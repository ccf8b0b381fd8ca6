package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/security"
	"github.com/zaidS12/NovaChat-sub000/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSessionToken indicates the presented token is malformed or revoked.
	ErrInvalidSessionToken = errors.New("invalid session token")
	// ErrExpiredSessionToken indicates the presented token has expired.
	ErrExpiredSessionToken = errors.New("session token expired")
	// ErrNotAdmin indicates the token is valid but its holder lacks admin standing.
	ErrNotAdmin = errors.New("not an administrator")
)

// AuthService coordinates credential checks and session token issuance.
type AuthService struct {
	users      port.UserRepository
	roles      port.RoleRepository
	tokens     *security.TokenManager
	tokenCache port.TokenCache
	events     port.EventPublisher
	cacheTTL   time.Duration
}

// NewAuthService constructs an AuthService. The event publisher and token
// cache may be nil; both degrade to no-ops.
func NewAuthService(
	users port.UserRepository,
	roles port.RoleRepository,
	tokens *security.TokenManager,
	tokenCache port.TokenCache,
	events port.EventPublisher,
	cacheTTL time.Duration,
) (*AuthService, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		tokens:     tokens,
		tokenCache: tokenCache,
		events:     events,
		cacheTTL:   cacheTTL,
	}, nil
}

// LoginResult carries the issued token alongside the authenticated identity.
type LoginResult struct {
	Token string
	User  domain.User
}

// Authenticate validates credentials and issues a session token carrying the
// user's materialized permission set.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return result, fmt.Errorf("email is required")
	}
	if password == "" {
		return result, fmt.Errorf("password is required")
	}

	record, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result, ErrInvalidCredentials
		}
		return result, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, record.PasswordHash)
	if err != nil {
		return result, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return result, ErrInvalidCredentials
	}

	permissions, err := s.materializePermissions(ctx, record.Role)
	if err != nil {
		return result, err
	}

	user := record.Identity(permissions)
	token, err := s.tokens.Issue(user)
	if err != nil {
		return result, fmt.Errorf("issue session token: %w", err)
	}

	if s.events != nil {
		event := domain.UserLoggedInEvent{
			EventID:  uuid.NewString(),
			UserID:   user.ID,
			Email:    user.Email,
			Role:     user.Role,
			LoggedAt: time.Now().UTC(),
		}
		if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
			return result, fmt.Errorf("publish login event: %w", err)
		}
	}

	result.Token = token
	result.User = user
	return result, nil
}

// TokenTTL reports the lifetime applied to issued session tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// VerifyToken validates a session token and returns the identity baked into
// it. Recently verified token IDs are short-circuited through the cache.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.parse(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	return claims.User(), nil
}

// VerifyAdminToken validates the token and additionally requires admin
// standing. A valid token for an ordinary user yields ErrNotAdmin.
func (s *AuthService) VerifyAdminToken(ctx context.Context, token string) (domain.User, error) {
	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsSuperuser() {
		return domain.User{}, ErrNotAdmin
	}
	return user, nil
}

// Logout revokes the token's ID for its remaining lifetime so subsequent
// verifications reject it. Malformed tokens are ignored; there is nothing
// left to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.tokenCache == nil {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	ttl := s.tokens.TTL()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.tokenCache.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) parse(ctx context.Context, token string) (*security.SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidSessionToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrExpiredToken):
			return nil, ErrExpiredSessionToken
		default:
			return nil, ErrInvalidSessionToken
		}
	}

	if s.tokenCache != nil && claims.ID != "" {
		revoked, err := s.tokenCache.IsRevoked(ctx, claims.ID)
		if err == nil && revoked {
			return nil, ErrInvalidSessionToken
		}
		// Cache errors degrade to signature-only validation; the cache
		// write is likewise best effort.
		if err == nil {
			seen, err := s.tokenCache.IsVerified(ctx, claims.ID)
			if err == nil && !seen {
				_ = s.tokenCache.MarkVerified(ctx, claims.ID, s.cacheTTL)
			}
		}
	}

	return claims, nil
}

func (s *AuthService) materializePermissions(ctx context.Context, roleName string) ([]string, error) {
	if s.roles == nil || roleName == "" {
		return nil, nil
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup role %q: %w", roleName, err)
	}

	permissions, err := s.roles.ListPermissions(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	return permissions, nil
}
