package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if _, err := VerifyPassword("anything", "not-a-valid-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager, err := NewTokenManager("test-secret", "novachat-auth", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	user := domain.User{
		ID:          "user-1",
		Name:        "Test User",
		Email:       "test@example.com",
		Role:        "member",
		Permissions: []string{"dashboard.view", "chat.access"},
	}

	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	parsed := claims.User()
	if parsed.ID != user.ID || parsed.Role != user.Role || parsed.Email != user.Email {
		t.Fatalf("claims round trip mismatch: %+v", parsed)
	}
	if len(parsed.Permissions) != 2 {
		t.Fatalf("expected permission snapshot to survive, got %v", parsed.Permissions)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti to be assigned")
	}
}

func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", "novachat-auth", time.Hour)
	other, _ := NewTokenManager("different-secret", "novachat-auth", time.Hour)

	token, err := other.Issue(domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", "novachat-auth", time.Nanosecond)

	token, err := manager.Issue(domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := manager.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	if err := CheckPasswordStrength("zxcvbn123", 4); err == nil {
		t.Fatal("expected common password to be rejected at high bar")
	}

	var weak *ErrWeakPassword
	err := CheckPasswordStrength("password", 3)
	if !errors.As(err, &weak) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := CheckPasswordStrength("tr0ub4dor&3-extended-phrase", 2); err != nil {
		t.Fatalf("expected strong password to pass: %v", err)
	}

	// A zero minimum disables the check entirely.
	if err := CheckPasswordStrength("", 0); err != nil {
		t.Fatalf("expected disabled check to pass: %v", err)
	}
}
