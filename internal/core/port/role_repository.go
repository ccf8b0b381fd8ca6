package port

import (
	"context"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// RoleRepository provides access to roles and the role-permission map.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)

	// PermissionMap returns the full role-permission mapping keyed by role ID.
	PermissionMap(ctx context.Context) (domain.RolePermissionMap, error)
	// ListPermissions returns the permission names attached to one role.
	ListPermissions(ctx context.Context, roleID string) ([]string, error)
	// ReplacePermissions atomically replaces the role's whole permission set.
	ReplacePermissions(ctx context.Context, roleID string, permissions []string) error
	// TogglePermission flips a single permission for the role and reports the
	// resulting state (true = now granted).
	TogglePermission(ctx context.Context, roleID, permission string) (bool, error)
}
