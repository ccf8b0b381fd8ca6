package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaidS12/NovaChat-sub000/internal/usecase"
)

// PermissionHandler exposes the permission catalog.
type PermissionHandler struct {
	permissions *usecase.PermissionService
}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler(permissions *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

// RegisterRoutes binds the permission routes.
func (h *PermissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.list)
}

func (h *PermissionHandler) list(c *gin.Context) {
	permissions, err := h.permissions.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list permissions"))
		return
	}

	summaries := make([]PermissionSummary, 0, len(permissions))
	for _, perm := range permissions {
		summaries = append(summaries, PermissionSummary{
			ID:          perm.ID,
			Name:        perm.Name,
			DisplayName: perm.DisplayName,
			Description: perm.Description,
			Module:      perm.Module,
		})
	}

	c.JSON(http.StatusOK, PermissionListResponse{Permissions: summaries})
}
