package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaidS12/NovaChat-sub000/internal/infra/security"
	"github.com/zaidS12/NovaChat-sub000/internal/usecase"
)

// AuthHandler exposes login, signup, verification, and logout endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
}

// NewAuthHandler constructs an AuthHandler. The registration service is
// optional; without it the signup endpoint answers 503.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

// RegisterRoutes binds the authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/signup", h.signup)
	r.GET("/verify", h.verify)
	r.POST("/logout", h.logout)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	result, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "authentication failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresIn: int(h.auth.TokenTTL().Seconds()),
		User:      result.User,
	})
}

func (h *AuthHandler) signup(c *gin.Context) {
	if h.registration == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "signup unavailable"))
		return
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name, email, and password are required"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var weak *security.ErrWeakPassword
		if errors.As(err, &weak) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, weak.Error()))
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSignupDisabled, Status: http.StatusForbidden, Message: "signup is disabled"},
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
		}, http.StatusInternalServerError, "signup failed")
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{User: user})
}

// verify answers the client's admin re-check. The admin flag in the response
// is what the client acts on; a well-formed negative answer must come back
// with status 200 so transport failures stay distinguishable.
func (h *AuthHandler) verify(c *gin.Context) {
	token, ok := rawBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "missing bearer token"))
		return
	}

	user, err := h.auth.VerifyToken(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSessionToken), errors.Is(err, usecase.ErrExpiredSessionToken):
			c.JSON(http.StatusOK, VerifyResponse{Valid: false})
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "verification failed"))
		}
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Valid:   true,
		IsAdmin: user.IsSuperuser(),
		User:    &user,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	token, ok := rawBearer(c)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	c.Status(http.StatusNoContent)
}

func rawBearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
