package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/usecase"
)

// ErrorResponse mirrors the handlers' error payload shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireAuth validates the Authorization header and stores the verified user
// in the gin context.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		user, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrExpiredSessionToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session token expired"))
			case errors.Is(err, usecase.ErrInvalidSessionToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid session token"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		c.Set(UserKey, &user)
		c.Next()
	}
}

// RequirePermission gates the route on a single permission. Admin standing
// bypasses the check, same as everywhere else in the evaluator.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := AuthenticatedUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !domain.HasPermission(user, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "missing permission: "+permission))
			return
		}

		c.Next()
	}
}

// RequireAdmin gates the route on admin standing.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := AuthenticatedUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !user.IsSuperuser() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "administrator access required"))
			return
		}

		c.Next()
	}
}

// AuthenticatedUser retrieves the verified user stored by RequireAuth.
func AuthenticatedUser(c *gin.Context) *domain.User {
	raw, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, ok := raw.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "missing authorization header"))
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "missing access token"))
		return "", false
	}

	return token, true
}
