package port

import (
	"context"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// PermissionRepository provides read access to the permission catalog.
type PermissionRepository interface {
	List(ctx context.Context) ([]domain.Permission, error)
	GetByName(ctx context.Context, name string) (*domain.Permission, error)
}
