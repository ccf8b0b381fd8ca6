package port

import (
	"context"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// UserRecord is the persisted user row, including the credential hash that the
// client-facing domain.User never carries.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	Role         string
	IsAdmin      bool
	PasswordHash string
}

// UserRepository provides access to persisted user accounts.
type UserRepository interface {
	Create(ctx context.Context, user UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
}

// Identity converts the record into the client-visible user shape with the
// supplied materialized permission set.
func (r UserRecord) Identity(permissions []string) domain.User {
	return domain.User{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Role:        r.Role,
		IsAdmin:     r.IsAdmin,
		Permissions: permissions,
	}
}
