package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/security"
)

type tokenCacheMock struct {
	entries map[string]bool
	revoked map[string]bool
	markErr error
}

func (m *tokenCacheMock) MarkVerified(_ context.Context, jti string, _ time.Duration) error {
	if m.markErr != nil {
		return m.markErr
	}
	if m.entries == nil {
		m.entries = make(map[string]bool)
	}
	m.entries[jti] = true
	return nil
}

func (m *tokenCacheMock) IsVerified(_ context.Context, jti string) (bool, error) {
	return m.entries[jti], nil
}

func (m *tokenCacheMock) Revoke(_ context.Context, jti string, _ time.Duration) error {
	delete(m.entries, jti)
	if m.revoked == nil {
		m.revoked = make(map[string]bool)
	}
	m.revoked[jti] = true
	return nil
}

func (m *tokenCacheMock) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func newTestTokenManager(t *testing.T, ttl time.Duration) *security.TokenManager {
	t.Helper()
	manager, err := security.NewTokenManager("test-secret-for-auth-service", "novachat-auth", ttl)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return manager
}

func seedUser(t *testing.T, users *userRepoMock, email, password, role string, isAdmin bool) port.UserRecord {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	record := port.UserRecord{
		ID:           "user-" + email,
		Name:         "Test User",
		Email:        email,
		Role:         role,
		IsAdmin:      isAdmin,
		PasswordHash: hash,
	}
	if err := users.Create(context.Background(), record); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return record
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	users := &userRepoMock{}
	seedUser(t, users, "mina@example.com", "correct horse battery staple", "member", false)

	roles := &roleRepoMock{
		rolesByName:     map[string]domain.Role{"member": {ID: "role-member", Name: "member"}},
		rolePermissions: map[string][]string{"role-member": {"chat.access", "dashboard.view"}},
	}
	events := &publisherMock{}
	manager := newTestTokenManager(t, time.Hour)

	service, err := NewAuthService(users, roles, manager, &tokenCacheMock{}, events, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewAuthService failed: %v", err)
	}

	result, err := service.Authenticate(context.Background(), "Mina@Example.com", "correct horse battery staple")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if len(result.User.Permissions) != 2 {
		t.Errorf("expected materialized permissions, got %v", result.User.Permissions)
	}
	if len(events.logins) != 1 {
		t.Errorf("expected one login event, got %d", len(events.logins))
	}

	verified, err := service.VerifyToken(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if verified.Email != "mina@example.com" {
		t.Errorf("expected email mina@example.com, got %s", verified.Email)
	}
	if !domain.HasPermission(&verified, "chat.access") {
		t.Errorf("expected chat.access to survive the token round trip")
	}
}

func TestAuthService_Authenticate_WrongPassword(t *testing.T) {
	users := &userRepoMock{}
	seedUser(t, users, "mina@example.com", "correct horse battery staple", "member", false)

	service, _ := NewAuthService(users, &roleRepoMock{}, newTestTokenManager(t, time.Hour), nil, nil, 0)

	_, err := service.Authenticate(context.Background(), "mina@example.com", "wrong password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownEmail(t *testing.T) {
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, newTestTokenManager(t, time.Hour), nil, nil, 0)

	_, err := service.Authenticate(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UnknownRoleYieldsNoPermissions(t *testing.T) {
	users := &userRepoMock{}
	seedUser(t, users, "ghost@example.com", "correct horse battery staple", "deleted_role", false)

	service, _ := NewAuthService(users, &roleRepoMock{}, newTestTokenManager(t, time.Hour), nil, nil, 0)

	result, err := service.Authenticate(context.Background(), "ghost@example.com", "correct horse battery staple")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if len(result.User.Permissions) != 0 {
		t.Errorf("expected empty permission set for unknown role, got %v", result.User.Permissions)
	}
}

func TestAuthService_VerifyToken_Garbage(t *testing.T) {
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, newTestTokenManager(t, time.Hour), nil, nil, 0)

	for _, token := range []string{"", "   ", "not.a.jwt"} {
		if _, err := service.VerifyToken(context.Background(), token); !errors.Is(err, ErrInvalidSessionToken) {
			t.Errorf("token %q: expected ErrInvalidSessionToken, got %v", token, err)
		}
	}
}

func TestAuthService_VerifyToken_Expired(t *testing.T) {
	manager := newTestTokenManager(t, time.Nanosecond)
	token, err := manager.Issue(domain.User{ID: "user-1", Email: "mina@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, manager, nil, nil, 0)

	if _, err := service.VerifyToken(context.Background(), token); !errors.Is(err, ErrExpiredSessionToken) {
		t.Fatalf("expected ErrExpiredSessionToken, got %v", err)
	}
}

func TestAuthService_VerifyToken_MarksCache(t *testing.T) {
	manager := newTestTokenManager(t, time.Hour)
	cache := &tokenCacheMock{}
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, manager, cache, nil, 5*time.Minute)

	token, err := manager.Issue(domain.User{ID: "user-1", Email: "mina@example.com"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := service.VerifyToken(context.Background(), token); err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if len(cache.entries) != 1 {
		t.Errorf("expected one cached token id, got %d", len(cache.entries))
	}
}

func TestAuthService_VerifyAdminToken(t *testing.T) {
	manager := newTestTokenManager(t, time.Hour)
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, manager, nil, nil, 0)

	memberToken, err := manager.Issue(domain.User{ID: "user-1", Role: "member"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.VerifyAdminToken(context.Background(), memberToken); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	adminToken, err := manager.Issue(domain.User{ID: "user-2", Role: "super_admin"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	admin, err := service.VerifyAdminToken(context.Background(), adminToken)
	if err != nil {
		t.Fatalf("VerifyAdminToken failed: %v", err)
	}
	if !admin.IsSuperuser() {
		t.Errorf("expected superuser standing")
	}

	flaggedToken, err := manager.Issue(domain.User{ID: "user-3", Role: "member", IsAdmin: true})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.VerifyAdminToken(context.Background(), flaggedToken); err != nil {
		t.Fatalf("expected is_admin flag to satisfy admin check, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	manager := newTestTokenManager(t, time.Hour)
	cache := &tokenCacheMock{}
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, manager, cache, nil, 5*time.Minute)

	token, err := manager.Issue(domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := service.VerifyToken(context.Background(), token); err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}

	if err := service.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if len(cache.revoked) != 1 {
		t.Errorf("expected one revocation, got %d", len(cache.revoked))
	}

	// The signature is still good, so only the revocation can reject it.
	if _, err := service.VerifyToken(context.Background(), token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken after logout, got %v", err)
	}
	if _, err := service.VerifyAdminToken(context.Background(), token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected admin check to reject logged-out token, got %v", err)
	}

	// Malformed tokens are ignored rather than surfaced.
	if err := service.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("Logout with garbage token failed: %v", err)
	}
}

func TestAuthService_VerifyToken_UnaffectedForOtherSessions(t *testing.T) {
	manager := newTestTokenManager(t, time.Hour)
	cache := &tokenCacheMock{}
	service, _ := NewAuthService(&userRepoMock{}, &roleRepoMock{}, manager, cache, nil, 5*time.Minute)

	first, err := manager.Issue(domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	second, err := manager.Issue(domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := service.Logout(context.Background(), first); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := service.VerifyToken(context.Background(), second); err != nil {
		t.Fatalf("revocation must be per token id, got %v", err)
	}
}
