package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaidS12/NovaChat-sub000/internal/transport/http/middleware"
	"github.com/zaidS12/NovaChat-sub000/internal/usecase"
)

// RoleHandler exposes role administration endpoints.
type RoleHandler struct {
	roles *usecase.RoleService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// RegisterRoutes binds the role routes. The group is expected to already
// carry the auth middleware; writes additionally check the actor inside the
// service.
func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
	r.POST("", h.create)
	r.GET("/permissions", h.permissionMap)
	r.GET("/:id/permissions", h.rolePermissions)
	r.PUT("/:id/permissions", h.replacePermissions)
	r.POST("/:id/permissions/:name/toggle", h.togglePermission)
}

var roleWriteErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "insufficient permissions"},
	{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
	{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "role already exists"},
	{Err: usecase.ErrInvalidRoleName, Status: http.StatusBadRequest, Message: "role name must be lowercase letters, digits, and underscores"},
	{Err: usecase.ErrUnknownPermission, Status: http.StatusBadRequest, Message: "unknown permission"},
}

func (h *RoleHandler) list(c *gin.Context) {
	roles, err := h.roles.ListRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list roles"))
		return
	}

	summaries := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		summaries = append(summaries, newRoleSummary(role))
	}

	c.JSON(http.StatusOK, RoleListResponse{Roles: summaries})
}

func (h *RoleHandler) create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "role name is required"))
		return
	}

	actor := middleware.AuthenticatedUser(c)
	role, err := h.roles.CreateRole(c.Request.Context(), actor, usecase.CreateRoleInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, roleWriteErrorCases, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, newRoleSummary(role))
}

func (h *RoleHandler) permissionMap(c *gin.Context) {
	mapping, err := h.roles.PermissionMap(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load permission map"))
		return
	}

	c.JSON(http.StatusOK, PermissionMapResponse{Map: mapping})
}

func (h *RoleHandler) rolePermissions(c *gin.Context) {
	roleID := c.Param("id")
	permissions, err := h.roles.RolePermissions(c.Request.Context(), roleID)
	if err != nil {
		RespondWithMappedError(c, err, roleWriteErrorCases, http.StatusInternalServerError, "failed to load role permissions")
		return
	}

	c.JSON(http.StatusOK, RolePermissionsResponse{RoleID: roleID, Permissions: permissions})
}

func (h *RoleHandler) replacePermissions(c *gin.Context) {
	var req ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "permissions list is required"))
		return
	}

	actor := middleware.AuthenticatedUser(c)
	roleID := c.Param("id")
	if err := h.roles.ReplacePermissions(c.Request.Context(), actor, roleID, req.Permissions); err != nil {
		RespondWithMappedError(c, err, roleWriteErrorCases, http.StatusInternalServerError, "failed to save role permissions")
		return
	}

	permissions, err := h.roles.RolePermissions(c.Request.Context(), roleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to reload role permissions"))
		return
	}

	c.JSON(http.StatusOK, RolePermissionsResponse{RoleID: roleID, Permissions: permissions})
}

func (h *RoleHandler) togglePermission(c *gin.Context) {
	actor := middleware.AuthenticatedUser(c)
	roleID := c.Param("id")
	permission := c.Param("name")

	granted, err := h.roles.TogglePermission(c.Request.Context(), actor, roleID, permission)
	if err != nil {
		RespondWithMappedError(c, err, roleWriteErrorCases, http.StatusInternalServerError, "failed to toggle permission")
		return
	}

	c.JSON(http.StatusOK, ToggleResponse{RoleID: roleID, Permission: permission, Granted: granted})
}
