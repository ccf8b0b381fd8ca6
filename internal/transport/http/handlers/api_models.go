package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// LoginRequest is the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the session token and the user snapshot baked into it.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      domain.User `json:"user"`
}

// SignupRequest is the public account creation payload.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupResponse returns the created account.
type SignupResponse struct {
	User domain.User `json:"user"`
}

// VerifyResponse reports the outcome of a bearer token verification.
type VerifyResponse struct {
	Valid   bool         `json:"valid"`
	IsAdmin bool         `json:"is_admin"`
	User    *domain.User `json:"user,omitempty"`
}

// RoleSummary is the wire shape of a role.
type RoleSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description,omitempty"`
	Active      bool    `json:"active"`
}

func newRoleSummary(role domain.Role) RoleSummary {
	return RoleSummary{
		ID:          role.ID,
		Name:        role.Name,
		DisplayName: role.DisplayName,
		Description: role.Description,
		Active:      role.Active,
	}
}

// RoleListResponse wraps the role collection.
type RoleListResponse struct {
	Roles []RoleSummary `json:"roles"`
}

// CreateRoleRequest is the role provisioning payload.
type CreateRoleRequest struct {
	Name        string  `json:"name" binding:"required"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description,omitempty"`
}

// PermissionSummary is the wire shape of a catalog permission.
type PermissionSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description,omitempty"`
	Module      string  `json:"module"`
}

// PermissionListResponse wraps the permission catalog.
type PermissionListResponse struct {
	Permissions []PermissionSummary `json:"permissions"`
}

// PermissionMapResponse carries the role-id-keyed permission mapping.
type PermissionMapResponse struct {
	Map map[string][]string `json:"map"`
}

// RolePermissionsResponse lists one role's granted permission names.
type RolePermissionsResponse struct {
	RoleID      string   `json:"role_id"`
	Permissions []string `json:"permissions"`
}

// ReplacePermissionsRequest is the bulk permission-set save payload.
type ReplacePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// ToggleResponse reports the permission state after a toggle.
type ToggleResponse struct {
	RoleID     string `json:"role_id"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
