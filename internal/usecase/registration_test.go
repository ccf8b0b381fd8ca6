package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/infra/config"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/security"
)

func newRegistrationService(t *testing.T, users *userRepoMock, cfg config.SignupSettings) *RegistrationService {
	t.Helper()
	service, err := NewRegistrationService(cfg, users)
	if err != nil {
		t.Fatalf("NewRegistrationService failed: %v", err)
	}
	return service
}

func TestRegistrationService_Register_Success(t *testing.T) {
	users := &userRepoMock{}
	service := newRegistrationService(t, users, config.SignupSettings{
		Enabled:          true,
		MinPasswordScore: 2,
		DefaultRole:      "member",
	})

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Mina Park",
		Email:    "Mina@Example.com",
		Password: "correct horse battery staple",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.Role != "member" {
		t.Errorf("expected default role 'member', got %s", user.Role)
	}
	if user.IsAdmin {
		t.Errorf("new accounts must never carry admin standing")
	}

	stored, err := users.GetByEmail(context.Background(), "mina@example.com")
	if err != nil {
		t.Fatalf("expected stored user under normalized email: %v", err)
	}
	ok, err := security.VerifyPassword("correct horse battery staple", stored.PasswordHash)
	if err != nil || !ok {
		t.Errorf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegistrationService_Register_Disabled(t *testing.T) {
	service := newRegistrationService(t, &userRepoMock{}, config.SignupSettings{Enabled: false})

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Mina Park",
		Email:    "mina@example.com",
		Password: "correct horse battery staple",
	})
	if !errors.Is(err, ErrSignupDisabled) {
		t.Fatalf("expected ErrSignupDisabled, got %v", err)
	}
}

func TestRegistrationService_Register_WeakPassword(t *testing.T) {
	service := newRegistrationService(t, &userRepoMock{}, config.SignupSettings{
		Enabled:          true,
		MinPasswordScore: 3,
		DefaultRole:      "member",
	})

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Mina Park",
		Email:    "mina@example.com",
		Password: "password123",
	})

	var weak *security.ErrWeakPassword
	if !errors.As(err, &weak) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegistrationService_Register_DuplicateEmail(t *testing.T) {
	users := &userRepoMock{}
	seedUser(t, users, "mina@example.com", "correct horse battery staple", "member", false)

	service := newRegistrationService(t, users, config.SignupSettings{
		Enabled:          true,
		MinPasswordScore: 2,
		DefaultRole:      "member",
	})

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Other Mina",
		Email:    "mina@example.com",
		Password: "another very strong passphrase",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegistrationService_Register_InvalidEmail(t *testing.T) {
	service := newRegistrationService(t, &userRepoMock{}, config.SignupSettings{
		Enabled:          true,
		MinPasswordScore: 2,
		DefaultRole:      "member",
	})

	for _, email := range []string{"", "   ", "not-an-email"} {
		_, err := service.Register(context.Background(), RegisterInput{
			Name:     "Mina Park",
			Email:    email,
			Password: "correct horse battery staple",
		})
		if err == nil {
			t.Errorf("email %q: expected validation error", email)
		}
	}
}
