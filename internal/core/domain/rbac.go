package domain

import "regexp"

// Role is a named bucket of permissions assignable to a user.
type Role struct {
	ID          string
	Name        string
	DisplayName string
	Description *string
	Active      bool
}

// Permission is a machine-checkable capability identifier. Module is a
// grouping tag for presentation only; it never participates in access logic.
type Permission struct {
	ID          string
	Name        string
	DisplayName string
	Description *string
	Module      string
}

// RolePermissionMap maps a role ID to the permission names it grants. Held
// server-side, it is the single source of truth; User.Permissions is the
// client-visible materialization of one entry.
type RolePermissionMap map[string][]string

// Grants reports whether the map entry for roleID contains the permission.
func (m RolePermissionMap) Grants(roleID, permission string) bool {
	for _, name := range m[roleID] {
		if name == permission {
			return true
		}
	}
	return false
}

var machineNameRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidMachineName reports whether name is identifier-safe: lowercase
// letters, digits, and underscores, starting with a letter
// (e.g. "content_manager").
func ValidMachineName(name string) bool {
	return machineNameRe.MatchString(name)
}
