package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/config"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/security"
	"github.com/zaidS12/NovaChat-sub000/internal/repository"
)

var (
	// ErrSignupDisabled indicates public account creation is turned off.
	ErrSignupDisabled = errors.New("signup is disabled")
	// ErrEmailTaken indicates an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// RegistrationService handles public account creation.
type RegistrationService struct {
	cfg   config.SignupSettings
	users port.UserRepository
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(cfg config.SignupSettings, users port.UserRepository) (*RegistrationService, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &RegistrationService{cfg: cfg, users: users}, nil
}

// RegisterInput captures the public signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with the configured default role. The password
// is scored before hashing; weak passwords are rejected with ErrWeakPassword.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if !s.cfg.Enabled {
		return domain.User{}, ErrSignupDisabled
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.User{}, fmt.Errorf("name is required")
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("a valid email is required")
	}

	if err := security.CheckPasswordStrength(input.Password, s.cfg.MinPasswordScore, name, email); err != nil {
		return domain.User{}, err
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	record := port.UserRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         s.cfg.DefaultRole,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return record.Identity(nil), nil
}
