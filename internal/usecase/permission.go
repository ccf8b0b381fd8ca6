package usecase

import (
	"context"
	"fmt"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
)

// PermissionService exposes the permission catalog.
type PermissionService struct {
	permissions port.PermissionRepository
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository) (*PermissionService, error) {
	if permissions == nil {
		return nil, fmt.Errorf("permission repository is required")
	}
	return &PermissionService{permissions: permissions}, nil
}

// List returns the full permission catalog, ordered by module then name.
func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.permissions.List(ctx)
}
