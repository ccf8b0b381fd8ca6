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
	"github.com/zaidS12/NovaChat-sub000/internal/repository"
)

// PermissionRolesManage gates role and permission administration.
const PermissionRolesManage = "roles.manage"

var (
	// ErrRoleExists indicates a role with the provided name already exists.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNotFound indicates the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrInvalidRoleName indicates the machine name is not identifier-safe.
	ErrInvalidRoleName = errors.New("invalid role machine name")
	// ErrUnknownPermission indicates a referenced permission is not in the catalog.
	ErrUnknownPermission = errors.New("unknown permission")
	// ErrPermissionDenied indicates the actor lacks required permissions.
	ErrPermissionDenied = errors.New("insufficient permissions")
)

// RoleService manages roles and their permission assignments.
type RoleService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
	events      port.EventPublisher
}

// NewRoleService constructs a RoleService. The event publisher may be nil.
func NewRoleService(roles port.RoleRepository, permissions port.PermissionRepository, events port.EventPublisher) (*RoleService, error) {
	if roles == nil {
		return nil, fmt.Errorf("role repository is required")
	}
	if permissions == nil {
		return nil, fmt.Errorf("permission repository is required")
	}
	return &RoleService{roles: roles, permissions: permissions, events: events}, nil
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// PermissionMap returns the full role-to-permissions mapping keyed by role ID.
func (s *RoleService) PermissionMap(ctx context.Context) (domain.RolePermissionMap, error) {
	return s.roles.PermissionMap(ctx)
}

// CreateRoleInput captures the payload for creating a role.
type CreateRoleInput struct {
	Name        string
	DisplayName string
	Description *string
}

// CreateRole provisions a new role. The actor must hold roles.manage unless
// they carry admin standing.
func (s *RoleService) CreateRole(ctx context.Context, actor *domain.User, input CreateRoleInput) (domain.Role, error) {
	var role domain.Role

	if err := requireRoleAdmin(actor); err != nil {
		return role, err
	}

	name := strings.TrimSpace(input.Name)
	if !domain.ValidMachineName(name) {
		return role, ErrInvalidRoleName
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil {
		return role, ErrRoleExists
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return role, fmt.Errorf("lookup role by name: %w", err)
	}

	role = domain.Role{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: displayName,
		Active:      true,
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			role.Description = &trimmed
		}
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Role{}, ErrRoleExists
		}
		return domain.Role{}, fmt.Errorf("create role: %w", err)
	}

	if s.events != nil {
		event := domain.RoleCreatedEvent{
			EventID:     uuid.NewString(),
			RoleID:      role.ID,
			Name:        role.Name,
			DisplayName: role.DisplayName,
			CreatedBy:   actor.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.events.PublishRoleCreated(ctx, event); err != nil {
			return domain.Role{}, fmt.Errorf("publish role created event: %w", err)
		}
	}

	return role, nil
}

// RolePermissions returns the permission names currently attached to the role.
func (s *RoleService) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	if strings.TrimSpace(roleID) == "" {
		return nil, fmt.Errorf("role id is required")
	}
	if _, err := s.getRole(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roles.ListPermissions(ctx, roleID)
}

// ReplacePermissions atomically replaces the role's entire permission set.
// Every supplied name must exist in the catalog.
func (s *RoleService) ReplacePermissions(ctx context.Context, actor *domain.User, roleID string, permissions []string) error {
	if err := requireRoleAdmin(actor); err != nil {
		return err
	}
	if strings.TrimSpace(roleID) == "" {
		return fmt.Errorf("role id is required")
	}
	if _, err := s.getRole(ctx, roleID); err != nil {
		return err
	}

	unique := make([]string, 0, len(permissions))
	seen := make(map[string]struct{}, len(permissions))
	for _, name := range permissions {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	if err := s.roles.ReplacePermissions(ctx, roleID, unique); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownPermission
		}
		return fmt.Errorf("replace role permissions: %w", err)
	}

	if s.events != nil {
		event := domain.RolePermissionsReplacedEvent{
			EventID:     uuid.NewString(),
			RoleID:      roleID,
			Permissions: unique,
			ReplacedBy:  actor.ID,
			ReplacedAt:  time.Now().UTC(),
		}
		if err := s.events.PublishRolePermissionsReplaced(ctx, event); err != nil {
			return fmt.Errorf("publish permissions replaced event: %w", err)
		}
	}

	return nil
}

// TogglePermission flips a single permission for the role and reports the
// resulting state (true means the permission is now granted).
func (s *RoleService) TogglePermission(ctx context.Context, actor *domain.User, roleID, permission string) (bool, error) {
	if err := requireRoleAdmin(actor); err != nil {
		return false, err
	}
	if strings.TrimSpace(roleID) == "" {
		return false, fmt.Errorf("role id is required")
	}
	permission = strings.TrimSpace(permission)
	if permission == "" {
		return false, fmt.Errorf("permission name is required")
	}

	if _, err := s.getRole(ctx, roleID); err != nil {
		return false, err
	}
	if _, err := s.permissions.GetByName(ctx, permission); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrUnknownPermission
		}
		return false, fmt.Errorf("lookup permission %q: %w", permission, err)
	}

	granted, err := s.roles.TogglePermission(ctx, roleID, permission)
	if err != nil {
		return false, fmt.Errorf("toggle role permission: %w", err)
	}

	if s.events != nil {
		event := domain.PermissionToggledEvent{
			EventID:    uuid.NewString(),
			RoleID:     roleID,
			Permission: permission,
			Granted:    granted,
			ToggledBy:  actor.ID,
			ToggledAt:  time.Now().UTC(),
		}
		if err := s.events.PublishPermissionToggled(ctx, event); err != nil {
			return granted, fmt.Errorf("publish permission toggled event: %w", err)
		}
	}

	return granted, nil
}

func (s *RoleService) getRole(ctx context.Context, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	return role, nil
}

func requireRoleAdmin(actor *domain.User) error {
	if !domain.HasPermission(actor, PermissionRolesManage) {
		return ErrPermissionDenied
	}
	return nil
}
