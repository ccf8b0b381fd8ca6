package domain

// HasPermission reports whether the user may exercise the named permission.
// is_admin and the super_admin role bypass the check unconditionally.
// A nil user holds no permissions.
func HasPermission(user *User, permission string) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser() {
		return true
	}
	for _, name := range user.Permissions {
		if name == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of the named
// permissions. An empty list is never satisfied: there is nothing to hold.
func HasAnyPermission(user *User, permissions []string) bool {
	if user == nil {
		return false
	}
	if len(permissions) == 0 {
		return false
	}
	if user.IsSuperuser() {
		return true
	}
	granted := make(map[string]struct{}, len(user.Permissions))
	for _, name := range user.Permissions {
		granted[name] = struct{}{}
	}
	for _, name := range permissions {
		if _, ok := granted[name]; ok {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the user holds every named permission.
// An empty list is vacuously satisfied, including for a nil user's superuser
// bypass counterpart; a nil user still fails any non-empty list.
func HasAllPermissions(user *User, permissions []string) bool {
	if len(permissions) == 0 {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsSuperuser() {
		return true
	}
	granted := make(map[string]struct{}, len(user.Permissions))
	for _, name := range user.Permissions {
		granted[name] = struct{}{}
	}
	for _, name := range permissions {
		if _, ok := granted[name]; !ok {
			return false
		}
	}
	return true
}
