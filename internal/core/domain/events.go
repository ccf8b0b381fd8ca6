package domain

import "time"

// UserLoggedInEvent is emitted after a successful credential login.
type UserLoggedInEvent struct {
	EventID  string
	UserID   string
	Email    string
	Role     string
	LoggedAt time.Time
	IP       *string
}

// RoleCreatedEvent is emitted when an operator provisions a new role.
type RoleCreatedEvent struct {
	EventID     string
	RoleID      string
	Name        string
	DisplayName string
	CreatedBy   string
	CreatedAt   time.Time
}

// RolePermissionsReplacedEvent is emitted on a bulk permission-set save.
type RolePermissionsReplacedEvent struct {
	EventID     string
	RoleID      string
	Permissions []string
	ReplacedBy  string
	ReplacedAt  time.Time
}

// PermissionToggledEvent is emitted when a single permission is flipped for a role.
type PermissionToggledEvent struct {
	EventID    string
	RoleID     string
	Permission string
	Granted    bool
	ToggledBy  string
	ToggledAt  time.Time
}
