// Package roleadmin is the operator-facing edit surface over roles and their
// permission grants. Toggles stay local until Save writes a role's entire
// permission set back in one call; the service copy stays authoritative.
package roleadmin

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// ErrInvalidRoleName indicates a role name that is not identifier-safe.
var ErrInvalidRoleName = errors.New("role name must be lowercase letters, digits and underscores")

// TokenProvider supplies the bearer credential for administration calls.
// *session.Store satisfies it.
type TokenProvider interface {
	Token() string
}

// Editor holds the working copy of the role permission map.
type Editor struct {
	api    *api.Client
	tokens TokenProvider

	roles       []domain.Role
	permissions []domain.Permission
	saved       domain.RolePermissionMap
	working     domain.RolePermissionMap
}

// NewEditor builds an Editor over the API client and a token source.
func NewEditor(apiClient *api.Client, tokens TokenProvider) (*Editor, error) {
	if apiClient == nil {
		return nil, errors.New("roleadmin: api client is required")
	}
	if tokens == nil {
		return nil, errors.New("roleadmin: token provider is required")
	}
	return &Editor{
		api:     apiClient,
		tokens:  tokens,
		saved:   make(domain.RolePermissionMap),
		working: make(domain.RolePermissionMap),
	}, nil
}

// LoadRoles fetches and caches the role list.
func (e *Editor) LoadRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := e.api.ListRoles(ctx, e.tokens.Token())
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	e.roles = roles
	return roles, nil
}

// LoadPermissions fetches the permission catalog grouped by module. Groups
// and the permissions inside them come back sorted by name.
func (e *Editor) LoadPermissions(ctx context.Context) (map[string][]domain.Permission, error) {
	permissions, err := e.api.ListPermissions(ctx, e.tokens.Token())
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	e.permissions = permissions

	grouped := make(map[string][]domain.Permission)
	for _, p := range permissions {
		grouped[p.Module] = append(grouped[p.Module], p)
	}
	for module := range grouped {
		sort.Slice(grouped[module], func(i, j int) bool {
			return grouped[module][i].Name < grouped[module][j].Name
		})
	}
	return grouped, nil
}

// LoadPermissionMap fetches the authoritative role permission map and resets
// the working copy to match, discarding unsaved toggles.
func (e *Editor) LoadPermissionMap(ctx context.Context) (domain.RolePermissionMap, error) {
	m, err := e.api.PermissionMap(ctx, e.tokens.Token())
	if err != nil {
		return nil, fmt.Errorf("load permission map: %w", err)
	}
	e.saved = m
	e.working = cloneMap(m)
	return e.working, nil
}

// Granted reports whether the working copy grants the permission.
func (e *Editor) Granted(roleID, permission string) bool {
	return e.working.Grants(roleID, permission)
}

// Toggle flips one permission for a role in the working copy only. Toggling
// twice restores the starting state. Nothing reaches the service until Save.
func (e *Editor) Toggle(roleID, permission string) bool {
	current := e.working[roleID]
	for i, name := range current {
		if name == permission {
			e.working[roleID] = append(current[:i:i], current[i+1:]...)
			return false
		}
	}
	e.working[roleID] = append(current, permission)
	return true
}

// Dirty reports whether the role's working set differs from the last state
// confirmed by the service.
func (e *Editor) Dirty(roleID string) bool {
	return !sameSet(e.saved[roleID], e.working[roleID])
}

// Save persists one role's entire working permission set as a bulk replace.
func (e *Editor) Save(ctx context.Context, roleID string) error {
	perms := e.working[roleID]
	if err := e.api.ReplaceRolePermissions(ctx, e.tokens.Token(), roleID, perms); err != nil {
		return fmt.Errorf("save role permissions: %w", err)
	}
	e.saved[roleID] = append([]string(nil), perms...)
	return nil
}

// Reset discards the role's unsaved toggles, restoring the last saved state.
func (e *Editor) Reset(roleID string) {
	e.working[roleID] = append([]string(nil), e.saved[roleID]...)
}

// CreateRole provisions a new role. The machine name is validated locally
// before the request is issued.
func (e *Editor) CreateRole(ctx context.Context, name, displayName string, description *string) (domain.Role, error) {
	if !domain.ValidMachineName(name) {
		return domain.Role{}, fmt.Errorf("%w: %q", ErrInvalidRoleName, name)
	}

	role, err := e.api.CreateRole(ctx, e.tokens.Token(), api.CreateRoleInput{
		Name:        name,
		DisplayName: displayName,
		Description: description,
	})
	if err != nil {
		return domain.Role{}, fmt.Errorf("create role: %w", err)
	}

	e.roles = append(e.roles, role)
	e.saved[role.ID] = nil
	e.working[role.ID] = nil
	return role, nil
}

// Roles returns the cached role list.
func (e *Editor) Roles() []domain.Role {
	return e.roles
}

func cloneMap(m domain.RolePermissionMap) domain.RolePermissionMap {
	out := make(domain.RolePermissionMap, len(m))
	for roleID, perms := range m {
		out[roleID] = append([]string(nil), perms...)
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, name := range a {
		seen[name] = struct{}{}
	}
	for _, name := range b {
		if _, ok := seen[name]; !ok {
			return false
		}
	}
	return true
}
